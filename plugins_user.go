package main

import "github.com/charlad/ircd/ircmsg"

// userPlugin owns PRIVMSG/NOTICE, WHOIS, WHO, LUSERS, and MOTD: queries
// and messaging that don't mutate membership. Grounded on command.go's
// privmsgCommand/whoisCommand/whoCommand/lusersCommand/motdCommand.
type userPlugin struct{}

func newUserPlugin() Plugin { return &userPlugin{} }

func (p *userPlugin) Name() string { return "user" }

func (p *userPlugin) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"PRIVMSG": p.privmsg,
		"NOTICE":  p.privmsg,
		"WHOIS":   p.whois,
		"WHO":     p.who,
		"LUSERS":  p.lusers,
		"MOTD":    p.motd,
	}
}

func (p *userPlugin) privmsg(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.numeric(errNoRecipient, "No recipient given ("+msg.Command+")"))
	}
	if len(msg.Params) == 1 {
		return one(ctx.Replies.numeric(errNoTextToSend, "No text to send"))
	}

	target, text := msg.Params[0], msg.Params[1]
	u := ctx.User
	relay := fromSource(u.Source(), msg.Command, target, text)

	if len(target) > 0 && target[0] == '#' {
		canon := CanonicalChannelName(target)
		if !isValidChannel(canon) {
			return one(ctx.Replies.numeric(errCannotSendToChan, canon, "Cannot send to channel"))
		}
		ch, exists := ctx.Dir.ChannelByName(canon)
		if !exists || !u.OnChannel(ch) {
			return one(ctx.Replies.numeric(errCannotSendToChan, canon, "Cannot send to channel"))
		}
		ctx.Broadcast(ch, u, relay)
		return nil
	}

	target2, exists := ctx.Dir.UserByNick(target)
	if !exists {
		return one(ctx.Replies.ErrNoSuchNick(target))
	}
	ctx.Send(target2, relay)
	return nil
}

func (p *userPlugin) whois(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNoNicknameGiven())
	}

	target, exists := ctx.Dir.UserByNick(msg.Params[0])
	if !exists {
		return one(ctx.Replies.ErrNoSuchNick(msg.Params[0]))
	}

	out := []ircmsg.Message{
		ctx.Replies.WhoisUser(target),
		ctx.Replies.WhoisChannels(target),
		ctx.Replies.WhoisServer(target),
	}
	if target.IsOperator() {
		out = append(out, ctx.Replies.WhoisOperator(target))
	}
	out = append(out, ctx.Replies.EndOfWhois(target.Nick))
	return out
}

func (p *userPlugin) who(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("WHO"))
	}

	mask := msg.Params[0]

	if len(mask) > 0 && mask[0] == '#' {
		canon := CanonicalChannelName(mask)
		ch, exists := ctx.Dir.ChannelByName(canon)
		if !exists {
			return one(ctx.Replies.ErrNoSuchChannel(mask))
		}

		out := make([]ircmsg.Message, 0, len(ch.Users)+1)
		for handle, member := range ch.Users {
			out = append(out, ctx.Replies.WhoReply(ch.Name, member, ch.MemberRolePrefix(handle)))
		}
		out = append(out, ctx.Replies.EndOfWho(ch.Name))
		return out
	}

	target, exists := ctx.Dir.UserByNick(mask)
	if !exists {
		return one(ctx.Replies.EndOfWho(mask))
	}
	return []ircmsg.Message{
		ctx.Replies.WhoReply("*", target, ""),
		ctx.Replies.EndOfWho(mask),
	}
}

func (p *userPlugin) lusers(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	users, opers, unknown := 0, 0, 0
	for _, u := range ctx.Dir.AllUsers() {
		if u.Registered {
			users++
			if u.IsOperator() {
				opers++
			}
		} else {
			unknown++
		}
	}
	return ctx.Replies.LUsers(users, opers, unknown, ctx.Dir.ChannelCount(), 1)
}

func (p *userPlugin) motd(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	return ctx.Replies.Motd(ctx.Server.MOTD)
}
