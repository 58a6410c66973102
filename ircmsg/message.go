// Package ircmsg implements the IRC wire protocol: parsing and
// serialization of protocol lines, and buffered framing of a raw byte
// stream into whole messages.
package ircmsg

import (
	"errors"
	"fmt"
	"strings"
)

// MaxLineLength is the maximum protocol message line length, including the
// CRLF terminator.
const MaxLineLength = 512

// ErrTruncated is returned by Encode when the message had to be shortened
// to fit within MaxLineLength. The returned string is still usable.
var ErrTruncated = errors.New("ircmsg: message truncated")

// Message holds a single protocol message. See RFC 1459/2812 section 2.3.1.
type Message struct {
	// Prefix may be blank. It is optional on the wire.
	Prefix string

	// Command is the IRC verb (e.g. PRIVMSG) or a three-digit numeric.
	// Verbs are normalized to upper case.
	Command string

	// Params holds at most 15 positional parameters. The last one may be a
	// "trailing" parameter containing spaces.
	Params []string

	// AddNick is wire-adjacent metadata a reply constructor may set. The
	// codec never reads or writes it; the event core consults it
	// immediately before serialization to insert the recipient's nick as
	// the first parameter.
	AddNick bool
}

func (m Message) String() string {
	return fmt.Sprintf("Prefix [%s] Command [%s] Params %q", m.Prefix, m.Command, m.Params)
}

// SourceNick returns the nickname portion of the prefix, or "" if the
// prefix is blank or has no "!".
func (m Message) SourceNick() string {
	idx := strings.Index(m.Prefix, "!")
	if idx == -1 {
		return ""
	}
	return m.Prefix[:idx]
}
