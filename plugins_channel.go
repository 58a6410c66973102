package main

import "github.com/charlad/ircd/ircmsg"

// channelPlugin owns JOIN, PART, and TOPIC, grounded on command.go's
// joinCommand/partCommand/topicCommand and channel.py's join/part/topic
// handlers, generalized to this core's operator/voice-aware Channel.
type channelPlugin struct{}

func newChannelPlugin() Plugin { return &channelPlugin{} }

func (p *channelPlugin) Name() string { return "channel" }

func (p *channelPlugin) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"JOIN":  p.join,
		"PART":  p.part,
		"TOPIC": p.topic,
	}
}

func (p *channelPlugin) join(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("JOIN"))
	}
	return performJoin(ctx, msg.Params[0])
}

// performJoin implements JOIN's semantics (§4.F) for a single channel. It
// is also used to auto-JOIN the configured default channel on signon.
func performJoin(ctx *Context, name string) []ircmsg.Message {
	u := ctx.User
	canon := CanonicalChannelName(name)
	if !isValidChannel(canon) {
		return one(ctx.Replies.ErrNoSuchChannel(name))
	}

	ch, exists := ctx.Dir.ChannelByName(canon)
	isNew := !exists
	if !exists {
		ch = NewChannel(canon)
		ctx.Dir.SaveChannel(ch)
	}

	if u.OnChannel(ch) {
		return nil
	}

	joinMsg := fromSource(u.Source(), "JOIN", ch.Name)
	ctx.Broadcast(ch, u, joinMsg)

	ch.Users[u.Handle] = u
	u.Channels[ch.Name] = ch

	out := []ircmsg.Message{joinMsg}

	if isNew {
		ch.Operators[u.Handle] = struct{}{}
		modeMsg := ctx.Replies.fromServer("MODE", ch.Name, "+o", u.Nick)
		out = append(out, modeMsg)
		ctx.Broadcast(ch, u, modeMsg)
	}

	out = append(out, ctx.Replies.Topic(ch))
	out = append(out, ctx.Replies.Names(u.Nick, ch)...)
	return out
}

func (p *channelPlugin) part(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("PART"))
	}

	u := ctx.User
	canon := CanonicalChannelName(msg.Params[0])
	ch, exists := ctx.Dir.ChannelByName(canon)
	if !exists || !u.OnChannel(ch) {
		return nil
	}

	reason := ""
	if len(msg.Params) >= 2 {
		reason = msg.Params[1]
	}

	partMsg := fromSource(u.Source(), "PART", ch.Name, reason)
	ctx.Broadcast(ch, nil, partMsg)

	delete(ch.Users, u.Handle)
	delete(ch.Operators, u.Handle)
	delete(ch.Voiced, u.Handle)
	delete(u.Channels, ch.Name)

	ctx.Dir.ReapIfEmpty(ch)
	return nil
}

func (p *channelPlugin) topic(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("TOPIC"))
	}

	u := ctx.User
	canon := CanonicalChannelName(msg.Params[0])
	ch, exists := ctx.Dir.ChannelByName(canon)
	if !exists {
		return one(ctx.Replies.ErrNoSuchChannel(msg.Params[0]))
	}

	if len(msg.Params) == 1 {
		return one(ctx.Replies.Topic(ch))
	}

	ch.Topic = truncateTopic(msg.Params[1])
	topicMsg := fromSource(u.Source(), "TOPIC", ch.Name, ch.Topic)
	ctx.Broadcast(ch, nil, topicMsg)
	return nil
}

// one wraps a single Message as a one-element slice, for handlers whose
// only output is one reply to the invoking session.
func one(msg ircmsg.Message) []ircmsg.Message {
	return []ircmsg.Message{msg}
}
