package main

import "github.com/charlad/ircd/ircmsg"

// HandlerFunc handles one parsed command for one session. It returns the
// messages to send back to the invoking session (possibly none) and lets
// the event core know, via the Context methods it calls, about any
// broadcast to other sessions or directory mutation that should happen as
// a side effect.
//
// This stands in for the generator-based "yield zero or more replies"
// handlers of the system this core is grounded on: a Go handler can't
// suspend mid-computation, so it just builds and returns the full list of
// outgoing replies to the caller instead of yielding them one at a time.
type HandlerFunc func(ctx *Context, msg ircmsg.Message) []ircmsg.Message

// Plugin groups a related set of command handlers under one name, the way
// the source system's plugins (core, channel, user, mode, admin) each
// register a handful of verbs. A Plugin keeps no per-session state: beyond
// the Context it's given per call it holds at most the fixed references
// its constructor gave it (adminPlugin's registry and shutdown hook), so
// reloading one is just discarding the old instance and constructing a
// fresh one from its registered constructor.
type Plugin interface {
	// Name identifies the plugin for RELOAD and LUSERS-style introspection.
	Name() string
	// Handlers maps verb (upper-cased) to its handler.
	Handlers() map[string]HandlerFunc
}
