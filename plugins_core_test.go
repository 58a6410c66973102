package main

import (
	"net"
	"testing"

	"github.com/charlad/ircd/ircmsg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNickRecasingOwnNickIsNotRejected(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	u.Info.User = "alice"
	u.Info.Host = "host.example.org"
	u.Registered = true
	dir.SaveUser(u)

	ctx := newTestContext(dir, u)
	p := &corePlugin{}

	replies := p.nick(ctx, ircmsg.Message{Command: "NICK", Params: []string{"Alice"}})

	require.Len(t, replies, 1)
	assert.Equal(t, "NICK", replies[0].Command)
	assert.Equal(t, []string{"Alice"}, replies[0].Params)
	assert.Equal(t, "Alice", u.Nick)
}

func TestNickRejectsNickTakenByAnotherUser(t *testing.T) {
	dir := NewDirectory()
	other := NewUser(2, "127.0.0.1", 1234)
	other.Nick = "bob"
	dir.SaveUser(other)

	u := NewUser(1, "127.0.0.1", 1234)
	dir.SaveUser(u)

	ctx := newTestContext(dir, u)
	p := &corePlugin{}

	replies := p.nick(ctx, ircmsg.Message{Command: "NICK", Params: []string{"bob"}})

	require.Len(t, replies, 1)
	assert.Contains(t, replies[0].Params, "bob")
}

func TestUserRejectsMalformedIdent(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	dir.SaveUser(u)

	ctx := newTestContext(dir, u)
	p := &corePlugin{}

	replies := p.user(ctx, ircmsg.Message{Command: "USER", Params: []string{"Not Valid!", "0", "*", "Alice Test"}})

	require.Len(t, replies, 1)
	assert.Equal(t, "ERROR", replies[0].Command)
	assert.Empty(t, u.Info.User)
}

func TestUserAcceptsWellFormedIdent(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.state = stateHostKnown
	u.Nick = "alice"
	dir.SaveUser(u)

	ctx := newTestContext(dir, u)
	p := &corePlugin{}

	p.user(ctx, ircmsg.Message{Command: "USER", Params: []string{"alice", "0", "*", "Alice Test"}})

	assert.Equal(t, "alice", u.Info.User)
	assert.True(t, u.Registered)
}

func TestQuitDefaultsToLeaving(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	u.Info.User = "alice"
	u.Info.Host = "host.example.org"
	_, server := net.Pipe()
	defer server.Close()
	u.conn = &Conn{nc: server, outbound: make(chan ircmsg.Message, 1), closed: make(chan struct{})}
	dir.SaveUser(u)

	ch := NewChannel("#test")
	ch.Users[u.Handle] = u
	u.Channels[ch.Name] = ch
	dir.SaveChannel(ch)

	other := NewUser(2, "127.0.0.2", 1234)
	other.conn = &Conn{outbound: make(chan ircmsg.Message, 4), closed: make(chan struct{})}
	ch.Users[other.Handle] = other
	other.Channels[ch.Name] = ch

	ctx := newTestContext(dir, u)
	p := &corePlugin{}

	p.quit(ctx, ircmsg.Message{Command: "QUIT"})

	select {
	case msg := <-other.conn.outbound:
		require.Equal(t, "QUIT", msg.Command)
		assert.Equal(t, []string{"Leaving"}, msg.Params)
	default:
		t.Fatal("expected a broadcast QUIT message")
	}
}
