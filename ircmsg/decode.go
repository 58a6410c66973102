package ircmsg

import (
	"fmt"
	"strings"
)

// Parse tokenizes a single wire line into a Message in one left-to-right
// pass over its bytes, via a small scanner cursor rather than a chain of
// independent parsing functions. line must end in CRLF; a bare trailing LF
// is normalized first.
//
// Grammar, per RFC 1459/2812 section 2.3.1:
//
//	message = [ ":" prefix SPACE ] command [ params ] crlf
//	prefix  = servername / ( nickname [ [ "!" user ] "@" host ] )
//	command = 1*letter / 3digit
//	params  = *14( SPACE middle ) [ SPACE ":" trailing ]
func Parse(raw string) (Message, error) {
	line, err := normalizeEnding(raw)
	if err != nil {
		return Message{}, fmt.Errorf("ircmsg: %s", err)
	}

	truncated := false
	if len(line) > MaxLineLength {
		truncated = true
		line = line[:MaxLineLength-2] + "\r\n"
	}

	sc := &scanner{line: line}

	var msg Message
	if sc.peek() == ':' {
		prefix, err := sc.takePrefix()
		if err != nil {
			return Message{}, fmt.Errorf("ircmsg: %s", err)
		}
		msg.Prefix = prefix
	}

	command, err := sc.takeCommand()
	if err != nil {
		return Message{}, fmt.Errorf("ircmsg: %s", err)
	}
	msg.Command = strings.ToUpper(command)

	params, err := sc.takeParams()
	if err != nil {
		return Message{}, fmt.Errorf("ircmsg: %s", err)
	}
	msg.Params = params

	if !sc.atCRLF() {
		return Message{}, fmt.Errorf("ircmsg: expected CRLF at byte %d", sc.pos)
	}

	if truncated {
		return msg, ErrTruncated
	}
	return msg, nil
}

// normalizeEnding ensures line ends in CRLF, promoting a bare trailing LF.
func normalizeEnding(line string) (string, error) {
	switch {
	case len(line) == 0:
		return "", fmt.Errorf("empty line")
	case len(line) == 1:
		if line[0] == '\n' {
			return "\r\n", nil
		}
		return "", fmt.Errorf("line is a single byte and not LF")
	case line[len(line)-2] == '\r' && line[len(line)-1] == '\n':
		return line, nil
	case line[len(line)-1] == '\n':
		return line[:len(line)-1] + "\r\n", nil
	default:
		return "", fmt.Errorf("line has no CRLF or LF ending")
	}
}

// scanner is a cursor over one already-CRLF-terminated line.
type scanner struct {
	line string
	pos  int
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.line) {
		return 0
	}
	return s.line[s.pos]
}

// atCRLF reports whether the cursor sits exactly at the line's trailing
// "\r\n" (i.e. everything before it has been consumed).
func (s *scanner) atCRLF() bool {
	return s.pos == len(s.line)-2 && s.line[s.pos] == '\r' && s.line[s.pos+1] == '\n'
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLineControl(c byte) bool {
	return c == '\x00' || c == '\r' || c == '\n'
}

// takePrefix consumes ":" prefix SPACE and returns the prefix text,
// advancing the cursor past the trailing space.
func (s *scanner) takePrefix() (string, error) {
	start := s.pos
	s.pos++ // the leading ':'

	for s.pos < len(s.line) && s.line[s.pos] != ' ' {
		if isLineControl(s.line[s.pos]) {
			return "", fmt.Errorf("control byte %q in prefix", s.line[s.pos])
		}
		s.pos++
	}

	if s.pos == start+1 {
		return "", fmt.Errorf("empty prefix")
	}
	if s.pos >= len(s.line) {
		return "", fmt.Errorf("prefix not followed by a space")
	}

	prefix := s.line[start+1 : s.pos]
	s.pos++ // the space
	return prefix, nil
}

// takeCommand consumes 1*letter or digits, stopping at the next space or
// CR.
func (s *scanner) takeCommand() (string, error) {
	start := s.pos
	for s.pos < len(s.line) && (isAlpha(s.line[s.pos]) || isDigit(s.line[s.pos])) {
		s.pos++
	}

	if s.pos == start {
		return "", fmt.Errorf("empty command")
	}
	if s.pos < len(s.line) && s.line[s.pos] != ' ' && s.line[s.pos] != '\r' {
		return "", fmt.Errorf("unexpected byte %q after command", s.line[s.pos])
	}

	return s.line[start:s.pos], nil
}

// takeParams consumes *14( SPACE middle ) [ SPACE ":" trailing ]. It
// tolerates a run of stray spaces right before the CRLF (seen in the wild
// from ratbox/quassel) by treating that case as "no more params" instead
// of an error.
func (s *scanner) takeParams() ([]string, error) {
	var params []string

	for s.pos < len(s.line) {
		if s.line[s.pos] != ' ' {
			return params, nil
		}

		spaceAt := s.pos
		param, ok, err := s.takeParam()
		if err != nil {
			return nil, err
		}
		if !ok {
			if crAt := s.trailingSpacesEnd(spaceAt); crAt != -1 {
				s.pos = crAt
				return params, nil
			}
			return nil, fmt.Errorf("empty parameter")
		}

		params = append(params, param)
		if len(params) > 15 {
			return nil, fmt.Errorf("too many parameters")
		}
	}

	return nil, fmt.Errorf("params not terminated by CRLF")
}

// takeParam consumes one SPACE middle or SPACE ":" trailing term, with the
// cursor starting on the leading space. ok is false (with a nil error) for
// a zero-length middle parameter, which the caller may still tolerate as
// trailing whitespace.
func (s *scanner) takeParam() (string, bool, error) {
	s.pos++ // the leading space
	if s.pos >= len(s.line) {
		return "", false, fmt.Errorf("line ends right after a space")
	}

	if s.line[s.pos] == ':' {
		s.pos++
		start := s.pos
		for s.pos < len(s.line) && !isLineControl(s.line[s.pos]) {
			s.pos++
		}
		return s.line[start:s.pos], true, nil
	}

	start := s.pos
	for s.pos < len(s.line) && s.line[s.pos] != ' ' && !isLineControl(s.line[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", false, nil
	}
	return s.line[start:s.pos], true, nil
}

// trailingSpacesEnd returns the index of the '\r' if every byte from start
// to the line's end is a space, or -1 otherwise.
func (s *scanner) trailingSpacesEnd(start int) int {
	for i := start; i < len(s.line); i++ {
		switch s.line[i] {
		case ' ':
			continue
		case '\r':
			return i
		default:
			return -1
		}
	}
	return -1
}
