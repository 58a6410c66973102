package main

import "github.com/charlad/ircd/ircmsg"

// modePlugin owns MODE, split into channel-mode and user-mode handling
// the way command.go's modeCommand dispatches to
// userModeCommand/channelModeCommand based on the target. Unlike the
// teacher (which only tracked +n and punted all channel mode changes to
// ERR_CHANOPRIVSNEEDED), this core implements the channel operator/voice
// grant-revoke table the data model's Operators/Voiced sets require.
type modePlugin struct{}

func newModePlugin() Plugin { return &modePlugin{} }

func (p *modePlugin) Name() string { return "mode" }

func (p *modePlugin) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{"MODE": p.mode}
}

func (p *modePlugin) mode(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("MODE"))
	}

	target := msg.Params[0]
	modes := ""
	var rest []string
	if len(msg.Params) > 1 {
		modes = msg.Params[1]
		rest = msg.Params[2:]
	}

	if len(target) > 0 && target[0] == '#' {
		ch, exists := ctx.Dir.ChannelByName(CanonicalChannelName(target))
		if !exists {
			return one(ctx.Replies.ErrNoSuchChannel(target))
		}
		return channelMode(ctx, ch, modes, rest)
	}

	return userMode(ctx, target, modes)
}

func userMode(ctx *Context, targetNick, modes string) []ircmsg.Message {
	target, exists := ctx.Dir.UserByNick(targetNick)
	if !exists {
		return one(ctx.Replies.ErrNoSuchNick(targetNick))
	}

	if modes == "" {
		return one(ctx.Replies.UModeIs(target))
	}

	if target.Handle != ctx.User.Handle {
		return one(ctx.Replies.ErrUsersDontMatch())
	}

	var out []ircmsg.Message
	action := byte(0)
	for i := 0; i < len(modes); i++ {
		c := modes[i]
		if c == '+' || c == '-' {
			action = c
			continue
		}
		if action == 0 {
			out = append(out, ctx.Replies.ErrUnknownMode(string(c)))
			continue
		}
		if c != 'i' {
			out = append(out, ctx.Replies.ErrUnknownMode(string(c)))
			continue
		}

		_, has := target.Modes[c]
		if action == '+' && !has {
			target.Modes[c] = struct{}{}
		} else if action == '-' && has {
			delete(target.Modes, c)
		} else {
			continue
		}
		out = append(out, ctx.Replies.fromServer("MODE", target.Nick, string(action)+string(c)))
	}
	return out
}

func channelMode(ctx *Context, ch *Channel, modes string, params []string) []ircmsg.Message {
	u := ctx.User

	// A bare query (no mode argument) is answered regardless of membership,
	// per the MODE handler's no-arg case (RPL_CHANNELMODEIS).
	if modes == "" {
		return one(ctx.Replies.ChannelModeIs(ch))
	}

	if !u.OnChannel(ch) {
		return one(ctx.Replies.ErrNotOnChannel(ch.Name))
	}

	if modes == "b" || modes == "+b" {
		return one(ctx.Replies.numeric(rplEndOfBanList, ch.Name, "End of channel ban list"))
	}

	if !ch.IsOperator(u.Handle) {
		return one(ctx.Replies.ErrChanOPrivsNeeded(ch.Name))
	}

	var out []ircmsg.Message
	action := byte(0)
	argIdx := 0
	for i := 0; i < len(modes); i++ {
		c := modes[i]
		if c == '+' || c == '-' {
			action = c
			continue
		}
		if action == 0 || (c != 'o' && c != 'v') {
			out = append(out, ctx.Replies.ErrUnknownMode(string(c)))
			continue
		}

		if argIdx >= len(params) {
			continue
		}
		argNick := params[argIdx]
		argIdx++

		target, exists := ctx.Dir.UserByNick(argNick)
		if !exists || !target.OnChannel(ch) {
			out = append(out, ctx.Replies.numeric(errUserNotInChannel, argNick, ch.Name, "They aren't on that channel"))
			continue
		}

		set := ch.Operators
		if c == 'v' {
			set = ch.Voiced
		}

		_, has := set[target.Handle]
		if action == '+' && !has {
			set[target.Handle] = struct{}{}
		} else if action == '-' && has {
			delete(set, target.Handle)
		} else {
			continue
		}

		modeMsg := fromSource(u.Source(), "MODE", ch.Name, string(action)+string(c), target.Nick)
		ctx.Broadcast(ch, nil, modeMsg)
		out = append(out, modeMsg)
	}
	return out
}
