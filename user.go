package main

import (
	"fmt"
	"time"

	"github.com/charlad/ircd/ircmsg"
)

// sessionState is the registration state machine from the design: a
// connection moves connected -> resolvingHost -> hostKnown -> registered,
// and can move to terminated from any state.
type sessionState int

const (
	stateConnected sessionState = iota
	stateResolvingHost
	stateHostKnown
	stateRegistered
	stateTerminated
)

// Handle identifies a connection. It is immutable for the life of the User
// (data model invariant 7) and never reused.
type Handle = ircmsg.Handle

// UserInfo holds the USER-command fields for a User. Lifetime-bound to its
// owning User.
type UserInfo struct {
	// User is the ident/username the client supplied.
	User string
	// Host is the resolved hostname, or the numeric address until reverse
	// DNS completes (or fails).
	Host string
	// Name is the realname (gecos).
	Name string
	// Server is the server name the client claimed in USER. Kept for
	// protocol compatibility with WHOIS even though this core doesn't
	// participate in server linking.
	Server string
}

// Source is the 3-tuple identity used as sender identity in broadcasts.
type Source struct {
	Nick, User, Host string
}

// Prefix renders the source as a wire prefix: nick!ident@host.
func (s Source) Prefix() string {
	return fmt.Sprintf("%s!%s@%s", s.Nick, s.User, s.Host)
}

// User holds everything the directory tracks about one connection.
type User struct {
	Handle Handle
	IP     string
	Port   int

	// Nick may be empty until the NICK command arrives.
	Nick string

	// Modes holds user mode characters currently set (e.g. 'i', 'o').
	Modes map[byte]struct{}

	Registered bool
	Signon     time.Time

	Info *UserInfo

	// Channels this user currently belongs to, keyed by canonical name.
	// Membership symmetry with Channel.Users is a directory invariant.
	Channels map[string]*Channel

	state sessionState

	// pendingSignon is set when NICK+USER complete registration
	// preconditions while the session is still resolvingHost. The DNS
	// completion handler fires the deferred signon once the hostname is
	// known.
	pendingSignon bool

	// conn is the transport this user is attached to. Set once by the
	// event core when the connection is accepted; handlers send through
	// Context.Send, and the QUIT handler closes it directly.
	conn *Conn
}

// Send queues a message for delivery to this user, silently dropping it
// (and marking the connection for disconnection) if the send buffer is
// full. Handlers should go through Context.Send rather than calling this
// directly; Context.Broadcast uses it.
func (u *User) send(msg ircmsg.Message) {
	if u.conn == nil {
		return
	}
	if msg.AddNick {
		nick := u.Nick
		if nick == "" {
			nick = "*"
		}
		params := append([]string{nick}, msg.Params...)
		msg = ircmsg.Message{Prefix: msg.Prefix, Command: msg.Command, Params: params}
	}
	u.conn.Send(msg)
}

// NewUser creates a fresh, unregistered User for a newly accepted
// connection.
func NewUser(handle Handle, ip string, port int) *User {
	return &User{
		Handle:   handle,
		IP:       ip,
		Port:     port,
		Modes:    map[byte]struct{}{},
		Channels: map[string]*Channel{},
		Info:     &UserInfo{},
		state:    stateConnected,
	}
}

func (u *User) String() string {
	return fmt.Sprintf("%d %s", u.Handle, u.Prefix())
}

// Prefix is nick!ident@host, recomputed on demand per the data model.
func (u *User) Prefix() string {
	nick := u.Nick
	if nick == "" {
		nick = "*"
	}
	return fmt.Sprintf("%s!%s@%s", nick, u.Info.User, u.Info.Host)
}

// Source returns the 3-tuple sender identity for broadcasts.
func (u *User) Source() Source {
	return Source{Nick: u.Nick, User: u.Info.User, Host: u.Info.Host}
}

// IsOperator reports whether the user has the 'o' mode set.
func (u *User) IsOperator() bool {
	_, ok := u.Modes['o']
	return ok
}

// OnChannel reports whether the user is a member of the given channel.
func (u *User) OnChannel(c *Channel) bool {
	_, ok := u.Channels[c.Name]
	return ok
}

// ModeString renders the user's mode set as "+xyz".
func (u *User) ModeString() string {
	s := "+"
	for m := range u.Modes {
		s += string(m)
	}
	return s
}

// readyForRegistration reports whether NICK and USER have both been
// received, independent of hostname resolution (data model invariant 6
// additionally requires hostname resolution to complete).
func (u *User) readyForRegistration() bool {
	return u.Nick != "" && u.Info.User != ""
}
