package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(dir *Directory, u *User) *Context {
	return &Context{
		Dir:     dir,
		Server:  &ServerInfo{Name: "irc.example.org", Version: version, Created: "now", MaxNickLength: 9},
		Replies: newReplier("irc.example.org", version, "now"),
		User:    u,
		Oper:    newOperTable(nil),
	}
}

func TestTryRegisterWaitsForHostResolution(t *testing.T) {
	u := NewUser(1, "127.0.0.1", 1234)
	onAccept(u)
	u.Nick = "alice"
	u.Info.User = "alice"

	assert.False(t, tryRegister(u))
	assert.True(t, u.pendingSignon)
}

func TestTryRegisterCompletesWhenHostAlreadyKnown(t *testing.T) {
	u := NewUser(1, "127.0.0.1", 1234)
	u.state = stateHostKnown
	u.Nick = "alice"
	u.Info.User = "alice"

	assert.True(t, tryRegister(u))
}

func TestCompleteHostResolutionFiresDeferredSignon(t *testing.T) {
	u := NewUser(1, "127.0.0.1", 1234)
	onAccept(u)
	u.Nick = "alice"
	u.Info.User = "alice"
	require.False(t, tryRegister(u))
	require.True(t, u.pendingSignon)

	fire := completeHostResolution(u, "host.example.org")
	assert.True(t, fire)
	assert.False(t, u.pendingSignon)
	assert.Equal(t, "host.example.org", u.Info.Host)
	assert.Equal(t, stateHostKnown, u.state)
}

func TestCompleteHostResolutionWithoutPendingSignonDoesNotFire(t *testing.T) {
	u := NewUser(1, "127.0.0.1", 1234)
	onAccept(u)

	fire := completeHostResolution(u, "host.example.org")
	assert.False(t, fire)
}

func TestRegisterSendsWelcomeBurstAndJoinsDefaultChannel(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	u.Info.User = "alice"
	u.Info.Host = "host.example.org"
	dir.SaveUser(u)

	ctx := newTestContext(dir, u)
	ctx.Server.DefaultChannel = "#lobby"

	replies := register(ctx)

	assert.True(t, u.Registered)
	assert.False(t, u.Signon.IsZero())

	ch, ok := dir.ChannelByName("#lobby")
	require.True(t, ok)
	assert.Contains(t, ch.Users, u.Handle)
	assert.True(t, ch.IsOperator(u.Handle))

	foundJoin := false
	for _, msg := range replies {
		if msg.Command == "JOIN" {
			foundJoin = true
		}
	}
	assert.True(t, foundJoin)
}

func TestDisconnectRemovesUserFromChannelsAndReaps(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	u.Info.User = "alice"
	u.Info.Host = "host.example.org"
	dir.SaveUser(u)

	ch := NewChannel("#test")
	ch.Users[u.Handle] = u
	ch.Operators[u.Handle] = struct{}{}
	u.Channels[ch.Name] = ch
	dir.SaveChannel(ch)

	ctx := newTestContext(dir, u)
	disconnect(ctx, "Leaving")

	_, ok := dir.ChannelByName("#test")
	assert.False(t, ok, "channel should be reaped once empty")

	_, ok = dir.UserByHandle(u.Handle)
	assert.False(t, ok)
}

func TestDisconnectKeepsNonEmptyChannel(t *testing.T) {
	dir := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	u.Info.User = "alice"
	u.Info.Host = "host.example.org"
	dir.SaveUser(u)

	other := NewUser(2, "127.0.0.2", 1234)
	other.Nick = "bob"

	ch := NewChannel("#test")
	ch.Users[u.Handle] = u
	ch.Users[other.Handle] = other
	u.Channels[ch.Name] = ch
	other.Channels[ch.Name] = ch
	dir.SaveChannel(ch)

	ctx := newTestContext(dir, u)
	disconnect(ctx, "Leaving")

	got, ok := dir.ChannelByName("#test")
	require.True(t, ok)
	assert.NotContains(t, got.Users, u.Handle)
	assert.Contains(t, got.Users, other.Handle)
}
