package main

import "time"

// Channel holds everything to do with a channel. Identity is the
// case-insensitive name; we only ever store/look up channels by their
// canonical (lower-cased) form.
type Channel struct {
	Name  string
	Topic string
	Modes string

	// Users are current members, keyed by handle. If this becomes empty
	// the channel is garbage collected immediately (data model invariant
	// 5).
	Users map[Handle]*User

	// Operators/Voiced are subsets of Users (data model invariant 3).
	Operators map[Handle]struct{}
	Voiced    map[Handle]struct{}

	CreatedAt time.Time
}

// NewChannel creates an empty channel with the given canonical name.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:      name,
		Modes:     "n",
		Users:     map[Handle]*User{},
		Operators: map[Handle]struct{}{},
		Voiced:    map[Handle]struct{}{},
		CreatedAt: time.Now(),
	}
}

// UserPrefixes renders each member's nick prefixed with '@' if they're an
// operator, '+' if voiced.
func (c *Channel) UserPrefixes() []string {
	prefixes := make([]string, 0, len(c.Users))
	for handle, u := range c.Users {
		prefix := c.MemberRolePrefix(handle)
		prefixes = append(prefixes, prefix+u.Nick)
	}
	return prefixes
}

// MemberRolePrefix renders the role prefix ("@", "+", or "") for one
// member, used by WHOIS's per-channel listing.
func (c *Channel) MemberRolePrefix(handle Handle) string {
	prefix := ""
	if _, ok := c.Operators[handle]; ok {
		prefix += "@"
	}
	if _, ok := c.Voiced[handle]; ok {
		prefix += "+"
	}
	return prefix
}

// IsOperator reports whether the handle is a channel operator.
func (c *Channel) IsOperator(h Handle) bool {
	_, ok := c.Operators[h]
	return ok
}

// IsVoiced reports whether the handle holds voice.
func (c *Channel) IsVoiced(h Handle) bool {
	_, ok := c.Voiced[h]
	return ok
}
