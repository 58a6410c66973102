package ircmsg

// Handle identifies the transport a buffer belongs to. Callers supply
// whatever identifier they use for a connection (e.g. a client ID).
type Handle uint64

// Framer drains byte streams into whole Messages, one receive buffer per
// Handle. It is the append(handle, bytes) operation from the wire codec
// design: concatenate new bytes onto the handle's buffer, then repeatedly
// pull out \r\n (or bare \n) terminated lines.
//
// Framer is not safe for concurrent use; the event core that owns a given
// set of handles must serialize calls to Append.
type Framer struct {
	buffers map[Handle][]byte
}

// NewFramer returns an empty Framer.
func NewFramer() *Framer {
	return &Framer{buffers: map[Handle][]byte{}}
}

// Append adds data to the handle's receive buffer and extracts every
// complete message now available. Incomplete trailing data is kept for the
// next call. If that unterminated remainder grows past MaxLineLength, only
// its last MaxLineLength bytes are kept, so a misbehaving peer can't grow
// it without bound; the line they end up in is then over-long and is
// reported as an error once its terminator arrives.
//
// Parse errors on an individual line are reported but do not stop framing
// of the rest of the buffer.
func (f *Framer) Append(h Handle, data []byte) ([]Message, []error) {
	buf := append(f.buffers[h], data...)

	var messages []Message
	var errs []error

	for {
		idx := indexByte(buf, '\n')
		if idx == -1 {
			break
		}

		line := buf[:idx+1]
		buf = buf[idx+1:]

		msg, err := Parse(string(line))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		messages = append(messages, msg)
	}

	if len(buf) > MaxLineLength {
		buf = buf[len(buf)-MaxLineLength:]
	}

	f.buffers[h] = buf

	return messages, errs
}

// Forget discards a handle's buffer. Call this when the connection closes.
func (f *Framer) Forget(h Handle) {
	delete(f.buffers, h)
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}
