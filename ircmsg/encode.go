package ircmsg

import (
	"fmt"
	"strings"
)

// Encode serializes m into a raw protocol line, including the trailing
// CRLF. If the result would exceed MaxLineLength, it is shortened to fit
// and ErrTruncated is returned alongside the (still usable) truncated
// string. Encode does not enforce command-specific semantics.
func (m Message) Encode() (string, error) {
	if len(m.Params) > 15 {
		return "", fmt.Errorf("ircmsg: too many parameters")
	}

	var b strings.Builder
	if m.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}
	b.WriteString(m.Command)

	if b.Len()+2 > MaxLineLength {
		return "", fmt.Errorf("ircmsg: prefix and command alone exceed the line limit")
	}

	for i, param := range m.Params {
		last := i == len(m.Params)-1
		wire, needsTrailing := wireParam(param)
		if needsTrailing && !last {
			return "", fmt.Errorf("ircmsg: only the last parameter may need a ':' or contain a space")
		}

		room := MaxLineLength - b.Len() - len("\r\n") - 1 // -1 for the separating space
		if len(wire) > room {
			if room > 0 {
				b.WriteByte(' ')
				b.WriteString(wire[:room])
			}
			b.WriteString("\r\n")
			return b.String(), ErrTruncated
		}

		b.WriteByte(' ')
		b.WriteString(wire)
	}

	b.WriteString("\r\n")
	return b.String(), nil
}

// wireParam decides how a single parameter must be rendered: as a bare
// "middle" token, or prefixed with ':' because it contains a space, starts
// with ':' itself, or is empty (an empty trailing parameter still needs to
// be visible on the wire, e.g. an unset TOPIC). The second return value
// reports whether that ':' form was required, since only the final
// parameter in a message is allowed to need it.
func wireParam(param string) (string, bool) {
	if param == "" || strings.ContainsRune(param, ' ') || param[0] == ':' {
		return ":" + param, true
	}
	return param, false
}
