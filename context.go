package main

import "github.com/charlad/ircd/ircmsg"

// Context is the per-command handler environment: the directory, the
// invoking user, the reply renderer, and server identity. It is
// constructed fresh by the event core for each dispatched command and
// never retained past that call.
type Context struct {
	Dir     *Directory
	Server  *ServerInfo
	Replies *replier
	User    *User
	Oper    *operTable
}

// ServerInfo is the slice of Config a handler needs, kept separate so
// handlers don't reach into the whole Config for three fields.
type ServerInfo struct {
	Name           string
	Version        string
	Created        string
	MOTD           string
	DefaultChannel string
	MaxNickLength  int
}

// Send queues msg for delivery to u. Use this for anything addressed to
// someone other than the invoking user (broadcasts, relays); replies to
// the invoking user should instead be returned from the handler so the
// event core can log/account for them uniformly.
func (c *Context) Send(u *User, msg ircmsg.Message) {
	u.send(msg)
}

// Broadcast sends msg to every member of ch except skip (pass nil to
// include everyone).
func (c *Context) Broadcast(ch *Channel, skip *User, msg ircmsg.Message) {
	for _, member := range ch.Users {
		if skip != nil && member.Handle == skip.Handle {
			continue
		}
		member.send(msg)
	}
}
