package ircmsg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerSplitsAcrossAppends(t *testing.T) {
	f := NewFramer()

	msgs, errs := f.Append(1, []byte("NICK ali"))
	assert.Empty(t, errs)
	assert.Empty(t, msgs)

	msgs, errs = f.Append(1, []byte("ce\r\nUSER alice 0 * :Alice A\r\n"))
	require.Empty(t, errs)
	require.Len(t, msgs, 2)
	assert.Equal(t, "NICK", msgs[0].Command)
	assert.Equal(t, []string{"alice"}, msgs[0].Params)
	assert.Equal(t, "USER", msgs[1].Command)
}

func TestFramerAcceptsBareLF(t *testing.T) {
	f := NewFramer()

	msgs, errs := f.Append(1, []byte("PING irc.example.org\n"))
	require.Empty(t, errs)
	require.Len(t, msgs, 1)
	assert.Equal(t, "PING", msgs[0].Command)
}

func TestFramerKeepsBuffersSeparatePerHandle(t *testing.T) {
	f := NewFramer()

	_, _ = f.Append(1, []byte("NICK a"))
	msgs, _ := f.Append(2, []byte("NICK bob\r\n"))
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"bob"}, msgs[0].Params)

	// Handle 1's partial line is untouched by handle 2's traffic.
	msgs, _ = f.Append(1, []byte("lice\r\n"))
	require.Len(t, msgs, 1)
	assert.Equal(t, []string{"alice"}, msgs[0].Params)
}

func TestFramerTruncatesOverlongUnterminatedData(t *testing.T) {
	f := NewFramer()

	// No newline at all: the buffer must not grow without bound.
	huge := strings.Repeat("x", MaxLineLength*4)
	msgs, errs := f.Append(1, []byte(huge))
	assert.Empty(t, msgs)
	assert.Empty(t, errs)
	assert.LessOrEqual(t, len(f.buffers[1]), MaxLineLength)
}

func TestFramerForgetDropsBuffer(t *testing.T) {
	f := NewFramer()
	_, _ = f.Append(1, []byte("NICK a"))
	f.Forget(1)
	assert.Empty(t, f.buffers[1])
}

func TestFramerMalformedLineIsSkippedNotFatal(t *testing.T) {
	f := NewFramer()

	msgs, errs := f.Append(1, []byte(": \r\nNICK alice\r\n"))
	assert.Len(t, errs, 1)
	require.Len(t, msgs, 1)
	assert.Equal(t, "NICK", msgs[0].Command)
}
