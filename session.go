package main

import (
	"time"

	"github.com/charlad/ircd/ircmsg"
)

// onAccept moves a freshly accepted connection into the resolving-host
// state and returns the notice to send immediately, grounded on
// checkhost.py's connect() firing the lookup and a "*** Looking up your
// hostname..." NOTICE as soon as a socket connects, before NICK/USER ever
// arrive.
func onAccept(u *User) ircmsg.Message {
	u.state = stateResolvingHost
	u.Info.Host = u.IP
	return ircmsg.Message{
		Prefix:  "*",
		Command: "NOTICE",
		Params:  []string{"*", "*** Looking up your hostname..."},
	}
}

// tryRegister is called after NICK or USER brings the session one step
// closer to registration. If both are now present and the hostname is
// already known, it returns true to tell the caller to complete
// registration immediately. Otherwise, if the hostname is still pending,
// it marks the signon as deferred (§5: "DNS-pending session state
// suppresses any signon before resolution; once resolved, the deferred
// signon is replayed").
func tryRegister(u *User) bool {
	if u.Registered || !u.readyForRegistration() {
		return false
	}
	if u.state == stateHostKnown {
		return true
	}
	u.pendingSignon = true
	return false
}

// completeHostResolution applies a finished reverse-DNS lookup. It returns
// true if registration should now be completed (NICK/USER had already
// arrived and were only waiting on the hostname).
func completeHostResolution(u *User, host string) bool {
	u.Info.Host = host
	u.state = stateHostKnown
	if u.pendingSignon && !u.Registered {
		u.pendingSignon = false
		return true
	}
	return false
}

// register marks u fully registered and returns the full welcome burst:
// RPL_WELCOME..RPL_ISUPPORT, LUSERS, and the MOTD (or ERR_NOMOTD). This is
// the one-time "signon" event from the source system, collapsed into a
// single synchronous call since nothing here can yield mid-sequence on
// this core's single-threaded loop.
func register(ctx *Context) []ircmsg.Message {
	u := ctx.User
	u.Registered = true
	u.state = stateRegistered
	u.Signon = time.Now()

	var out []ircmsg.Message
	out = append(out, ctx.Replies.Welcome(u.Nick, u.Info.User, u.Info.Host)...)

	users, opers, unknown, channels := 0, 0, 0, ctx.Dir.ChannelCount()
	for _, other := range ctx.Dir.AllUsers() {
		if other.Registered {
			users++
			if other.IsOperator() {
				opers++
			}
		} else {
			unknown++
		}
	}
	out = append(out, ctx.Replies.LUsers(users, opers, unknown, channels, 1)...)
	out = append(out, ctx.Replies.Motd(ctx.Server.MOTD)...)

	if ctx.Server.DefaultChannel != "" {
		out = append(out, performJoin(ctx, ctx.Server.DefaultChannel)...)
	}

	return out
}

// disconnect tears down a user's membership state: every channel they
// were on loses them (reaping channels left empty), then the directory
// forgets the user entirely. Scoped atomically with respect to broadcasts
// since the whole event loop is single-threaded (§5).
func disconnect(ctx *Context, reason string) {
	u := ctx.User
	u.state = stateTerminated
	quitMsg := fromSource(u.Source(), "QUIT", reason)

	for _, ch := range u.Channels {
		delete(ch.Users, u.Handle)
		delete(ch.Operators, u.Handle)
		delete(ch.Voiced, u.Handle)
		ctx.Broadcast(ch, u, quitMsg)
		ctx.Dir.ReapIfEmpty(ch)
	}

	ctx.Dir.DeleteUser(u)
}
