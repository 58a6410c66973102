package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidNick(t *testing.T) {
	tests := []struct {
		nick string
		ok   bool
	}{
		{"alice", true},
		{"Alice_99", true},
		{"[bot]", true},
		{"9alice", false},
		{"", false},
		{"has space", false},
		{"way-too-long-for-a-nick", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, isValidNick(9, tt.nick), "nick %q", tt.nick)
	}
}

func TestIsValidChannel(t *testing.T) {
	assert.True(t, isValidChannel("#general"))
	assert.False(t, isValidChannel("general"))
	assert.False(t, isValidChannel("#"+string(make([]byte, maxChannelLength))))
	assert.False(t, isValidChannel(""))
}

func TestCanonicalizeNick(t *testing.T) {
	assert.Equal(t, "alice", canonicalizeNick("Alice"))
}

func TestTruncateTopic(t *testing.T) {
	short := "hello"
	assert.Equal(t, short, truncateTopic(short))

	long := make([]byte, maxTopicLength+50)
	for i := range long {
		long[i] = 'x'
	}
	assert.Len(t, truncateTopic(string(long)), maxTopicLength)
}
