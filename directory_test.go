package main

import "testing"

import "github.com/stretchr/testify/assert"
import "github.com/stretchr/testify/require"

func TestDirectoryUserByNickCaseInsensitive(t *testing.T) {
	d := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "Alice"
	d.SaveUser(u)

	got, ok := d.UserByNick("alice")
	require.True(t, ok)
	assert.Equal(t, u, got)

	assert.True(t, d.NickTaken("ALICE"))
}

func TestDirectoryRenameUserUpdatesIndex(t *testing.T) {
	d := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	d.SaveUser(u)

	d.RenameUser(u, "alice2")

	_, ok := d.UserByNick("alice")
	assert.False(t, ok)

	got, ok := d.UserByNick("alice2")
	require.True(t, ok)
	assert.Equal(t, u.Handle, got.Handle)
}

func TestDirectoryDeleteUserFreesNick(t *testing.T) {
	d := NewDirectory()
	u := NewUser(1, "127.0.0.1", 1234)
	u.Nick = "alice"
	d.SaveUser(u)

	d.DeleteUser(u)

	assert.False(t, d.NickTaken("alice"))
	_, ok := d.UserByHandle(1)
	assert.False(t, ok)
}

func TestDirectoryReapIfEmptyDeletesChannel(t *testing.T) {
	d := NewDirectory()
	ch := NewChannel("#test")
	d.SaveChannel(ch)

	d.ReapIfEmpty(ch)

	_, ok := d.ChannelByName("#test")
	assert.False(t, ok)
}

func TestDirectoryReapIfEmptyKeepsNonEmptyChannel(t *testing.T) {
	d := NewDirectory()
	ch := NewChannel("#test")
	u := NewUser(1, "127.0.0.1", 1234)
	ch.Users[u.Handle] = u
	d.SaveChannel(ch)

	d.ReapIfEmpty(ch)

	_, ok := d.ChannelByName("#test")
	assert.True(t, ok)
}

func TestDirectoryChannelByNameCaseInsensitive(t *testing.T) {
	d := NewDirectory()
	ch := NewChannel(CanonicalChannelName("#Test"))
	d.SaveChannel(ch)

	_, ok := d.ChannelByName("#TEST")
	assert.True(t, ok)
}
