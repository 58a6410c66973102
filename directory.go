package main

import "strings"

// Directory is the process-wide in-memory store of Users and Channels: the
// Object Directory from the design. It exclusively owns these objects;
// every other reference in this codebase is by handle, nick, or channel
// name rather than a live pointer held across event boundaries.
//
// Lookups by handle, nick, or channel name are O(1) via the maintained
// indices below, matching the design requirement. Full-collection
// iteration (AllUsers/AllChannels) stands in for the "other filters may be
// linear" allowance — callers needing an ad-hoc predicate scan AllUsers or
// AllChannels themselves rather than going through a generic filter DSL;
// see DESIGN.md for why a concrete indexed API was chosen over a
// reflection-based Entity.filter(field=value).first().
type Directory struct {
	usersByHandle map[Handle]*User
	usersByNick   map[string]Handle // canonical nick -> handle
	channels      map[string]*Channel
}

// NewDirectory returns an empty Directory.
func NewDirectory() *Directory {
	return &Directory{
		usersByHandle: map[Handle]*User{},
		usersByNick:   map[string]Handle{},
		channels:      map[string]*Channel{},
	}
}

func canonicalNick(nick string) string { return strings.ToLower(nick) }

// CanonicalChannelName lower-cases a channel name for indexing. Callers
// outside this file should always canonicalize before looking a channel
// up.
func CanonicalChannelName(name string) string { return strings.ToLower(name) }

// SaveUser inserts or replaces a User, maintaining the nick index. Call
// this any time User.Nick changes.
func (d *Directory) SaveUser(u *User) {
	d.usersByHandle[u.Handle] = u
	if u.Nick != "" {
		d.usersByNick[canonicalNick(u.Nick)] = u.Handle
	}
}

// RenameUser updates the nick index when a registered user changes nick.
// It expects u.Nick to still hold the *old* value so it can free that
// index entry, and sets u.Nick to newNick itself.
func (d *Directory) RenameUser(u *User, newNick string) {
	if u.Nick != "" {
		delete(d.usersByNick, canonicalNick(u.Nick))
	}
	u.Nick = newNick
	d.usersByNick[canonicalNick(newNick)] = u.Handle
}

// DeleteUser removes a User and its nick index entry.
func (d *Directory) DeleteUser(u *User) {
	delete(d.usersByHandle, u.Handle)
	if u.Nick != "" {
		delete(d.usersByNick, canonicalNick(u.Nick))
	}
}

// UserByHandle looks up a user by transport handle. O(1).
func (d *Directory) UserByHandle(h Handle) (*User, bool) {
	u, ok := d.usersByHandle[h]
	return u, ok
}

// UserByNick looks up a user by nickname, case-insensitively. O(1).
func (d *Directory) UserByNick(nick string) (*User, bool) {
	h, ok := d.usersByNick[canonicalNick(nick)]
	if !ok {
		return nil, false
	}
	return d.UserByHandle(h)
}

// NickTaken reports whether a nick is already claimed.
func (d *Directory) NickTaken(nick string) bool {
	_, ok := d.usersByNick[canonicalNick(nick)]
	return ok
}

// AllUsers returns every tracked user. Order is unspecified.
func (d *Directory) AllUsers() []*User {
	users := make([]*User, 0, len(d.usersByHandle))
	for _, u := range d.usersByHandle {
		users = append(users, u)
	}
	return users
}

// UserCount returns the number of tracked connections (registered or not).
func (d *Directory) UserCount() int { return len(d.usersByHandle) }

// RegisteredUserCount returns the number of fully registered users.
func (d *Directory) RegisteredUserCount() int {
	n := 0
	for _, u := range d.usersByHandle {
		if u.Registered {
			n++
		}
	}
	return n
}

// SaveChannel inserts or replaces a Channel.
func (d *Directory) SaveChannel(c *Channel) {
	d.channels[CanonicalChannelName(c.Name)] = c
}

// DeleteChannel removes a Channel.
func (d *Directory) DeleteChannel(c *Channel) {
	delete(d.channels, CanonicalChannelName(c.Name))
}

// ChannelByName looks up a channel by name, case-insensitively. O(1).
func (d *Directory) ChannelByName(name string) (*Channel, bool) {
	c, ok := d.channels[CanonicalChannelName(name)]
	return c, ok
}

// AllChannels returns every tracked channel. Order is unspecified.
func (d *Directory) AllChannels() []*Channel {
	channels := make([]*Channel, 0, len(d.channels))
	for _, c := range d.channels {
		channels = append(channels, c)
	}
	return channels
}

// ChannelCount returns the number of tracked channels.
func (d *Directory) ChannelCount() int { return len(d.channels) }

// ReapIfEmpty deletes the channel if it has no members left, enforcing
// data model invariant 5 (empty channels are garbage-collected
// immediately).
func (d *Directory) ReapIfEmpty(c *Channel) {
	if len(c.Users) == 0 {
		d.DeleteChannel(c)
	}
}
