package main

import "github.com/charlad/ircd/ircmsg"

// corePlugin owns NICK, USER, QUIT, and PING: the registration and
// liveness verbs every session needs regardless of what else is loaded.
// Grounded on ircd.go's nickCommand/userCommand/quitCommand/pingCommand
// and charla/plugins/core.py.
type corePlugin struct{}

func newCorePlugin() Plugin { return &corePlugin{} }

func (p *corePlugin) Name() string { return "core" }

func (p *corePlugin) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"NICK": p.nick,
		"USER": p.user,
		"QUIT": p.quit,
		"PING": p.ping,
		"PONG": p.pong,
	}
}

func (p *corePlugin) nick(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNoNicknameGiven())
	}

	nick := msg.Params[0]
	if len(nick) > ctx.Server.MaxNickLength {
		nick = nick[:ctx.Server.MaxNickLength]
	}

	if !isValidNick(ctx.Server.MaxNickLength, nick) {
		return one(ctx.Replies.ErrErroneousNick(nick))
	}

	if existing, taken := ctx.Dir.UserByNick(nick); taken && existing.Handle != ctx.User.Handle {
		return one(ctx.Replies.ErrNicknameInUse(nick))
	}

	u := ctx.User
	oldPrefix := u.Prefix()
	wasRegistered := u.Registered
	ctx.Dir.RenameUser(u, nick)

	if !wasRegistered {
		if tryRegister(u) {
			return register(ctx)
		}
		return nil
	}

	nickMsg := ircmsg.Message{Prefix: oldPrefix, Command: "NICK", Params: []string{nick}}
	notified := map[Handle]struct{}{u.Handle: {}}
	for _, ch := range u.Channels {
		for _, member := range ch.Users {
			if _, done := notified[member.Handle]; done {
				continue
			}
			notified[member.Handle] = struct{}{}
			ctx.Send(member, nickMsg)
		}
	}
	return one(nickMsg)
}

func (p *corePlugin) user(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) < 4 {
		return one(ctx.Replies.ErrNeedMoreParams("USER"))
	}

	u := ctx.User
	if u.Registered {
		return one(ctx.Replies.ErrAlreadyRegistred())
	}

	ident := msg.Params[0]
	if len(ident) > ctx.Server.MaxNickLength {
		ident = ident[:ctx.Server.MaxNickLength]
	}
	if !isValidUser(ctx.Server.MaxNickLength, ident) {
		// No numeric in the RFC fits a malformed ident; ircd-ratbox (and this
		// core, following it) sends a plain ERROR and drops the attempt.
		return one(ircmsg.Message{Command: "ERROR", Params: []string{"Invalid username"}})
	}

	u.Info.User = ident
	u.Info.Server = msg.Params[2]
	u.Info.Name = msg.Params[3]

	if tryRegister(u) {
		return register(ctx)
	}
	return nil
}

func (p *corePlugin) quit(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	reason := "Leaving"
	if len(msg.Params) > 0 {
		reason = msg.Params[0]
	}
	disconnect(ctx, reason)
	ctx.User.conn.Close()
	return nil
}

func (p *corePlugin) ping(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	target := ctx.Server.Name
	if len(msg.Params) > 0 {
		target = msg.Params[0]
	}
	return one(ctx.Replies.fromServer("PONG", ctx.Server.Name, target))
}

func (p *corePlugin) pong(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	return nil
}
