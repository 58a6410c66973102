package main

import (
	"bufio"
	"net"
	"time"

	"github.com/charlad/ircd/ircmsg"
	"github.com/pkg/errors"
)

// sendBufferSize bounds a connection's outbound queue (§5: "every user's
// send buffer is bounded ... suggested 64 KiB"). We bound by message count
// rather than bytes: IRC lines are already capped at 512 bytes each, and a
// fixed-capacity channel is the natural Go expression of a bounded queue.
// 256 messages comfortably covers that byte budget for ordinary traffic.
const sendBufferSize = 256

// ioTimeout bounds how long a read or write may block, the same role the
// teacher's ioWait deadline plays.
const ioTimeout = 10 * time.Minute

// Conn wraps one accepted socket: a reader goroutine posts raw byte chunks
// (see ReadChunk) to the event loop, which frames them into whole
// messages, and a writer goroutine drains a bounded outbound queue. Grounded on ircd.go's Conn, adapted from its
// synchronous request/response style to a queued-writer style, since the
// single-threaded event loop in eventcore.go must never block on one
// slow client's socket.
type Conn struct {
	handle Handle
	nc     net.Conn
	rw     *bufio.Reader

	outbound chan ircmsg.Message
	closed   chan struct{}

	overflowed bool
}

// NewConn wraps an accepted connection and starts its writer goroutine.
// onClose is invoked exactly once, from the writer goroutine, when the
// connection is torn down (by overflow, write error, or explicit Close).
func NewConn(handle Handle, nc net.Conn, onClose func(Handle, error)) *Conn {
	c := &Conn{
		handle:   handle,
		nc:       nc,
		rw:       bufio.NewReader(nc),
		outbound: make(chan ircmsg.Message, sendBufferSize),
		closed:   make(chan struct{}),
	}
	go c.writeLoop(onClose)
	return c
}

// Handle returns the connection's identifying handle.
func (c *Conn) Handle() Handle { return c.handle }

// RemoteIP returns the dotted/hex textual form of the peer address and its
// port.
func (c *Conn) RemoteIP() (string, int) {
	addr, ok := c.nc.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return c.nc.RemoteAddr().String(), 0
	}
	return addr.IP.String(), addr.Port
}

// Send enqueues msg for delivery. If the outbound queue is full the
// connection is marked overflowed and closed; msg is dropped, matching
// §5's "overflow forces disconnect".
func (c *Conn) Send(msg ircmsg.Message) {
	select {
	case c.outbound <- msg:
	default:
		c.overflowed = true
		c.Close()
	}
}

// Close tears down the connection. Safe to call more than once.
func (c *Conn) Close() {
	select {
	case <-c.closed:
		return
	default:
		close(c.closed)
		_ = c.nc.Close()
	}
}

func (c *Conn) writeLoop(onClose func(Handle, error)) {
	var err error
loop:
	for {
		select {
		case msg, ok := <-c.outbound:
			if !ok {
				break loop
			}
			line, encErr := msg.Encode()
			if encErr != nil && encErr != ircmsg.ErrTruncated {
				continue
			}
			if writeErr := c.writeLine(line); writeErr != nil {
				err = writeErr
				c.Close()
				break loop
			}
		case <-c.closed:
			break loop
		}
	}
	if err == nil && c.overflowed {
		err = errors.New("net: send buffer overflow")
	}
	onClose(c.handle, err)
}

func (c *Conn) writeLine(line string) error {
	if err := c.nc.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return errors.Wrap(err, "set write deadline")
	}
	_, err := c.nc.Write([]byte(line))
	return errors.Wrap(err, "write")
}

// readChunkSize bounds a single raw read handed to the Wire Codec's
// framer.
const readChunkSize = 4096

// ReadChunk reads whatever bytes are currently available (up to
// readChunkSize) from the connection. Called only from this Conn's
// dedicated reader goroutine, so it may block freely without affecting
// the event loop; the raw bytes it returns are fed through ircmsg.Framer
// on the event loop side to extract whole messages.
func (c *Conn) ReadChunk() ([]byte, error) {
	if err := c.nc.SetReadDeadline(time.Now().Add(ioTimeout)); err != nil {
		return nil, errors.Wrap(err, "set read deadline")
	}
	buf := make([]byte, readChunkSize)
	n, err := c.rw.Read(buf)
	if n > 0 {
		return buf[:n], err
	}
	return nil, err
}
