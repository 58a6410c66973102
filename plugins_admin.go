package main

import "github.com/charlad/ircd/ircmsg"

// adminPlugin owns OPER, DIE, RESTART, and RELOAD: every operator-gated
// command. Grounded on command.go's operCommand/DIE handling and
// admin.py's Commands.oper/die/restart/reload, generalized from admin.py's
// single hardcoded O:line to the configured operTable (oper.go) and from
// circuits' dynamic plugin reload to the constructor-table Reload on
// Registry (see SPEC_FULL.md section 4.D).
type adminPlugin struct {
	registry *Registry
	shutdown func(code int)
}

func newAdminPlugin(registry *Registry, shutdown func(code int)) pluginConstructor {
	return func() Plugin {
		return &adminPlugin{registry: registry, shutdown: shutdown}
	}
}

func (p *adminPlugin) Name() string { return "admin" }

func (p *adminPlugin) Handlers() map[string]HandlerFunc {
	return map[string]HandlerFunc{
		"OPER":    p.oper,
		"DIE":     p.die,
		"RESTART": p.restart,
		"RELOAD":  p.reload,
	}
}

func (p *adminPlugin) oper(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if len(msg.Params) < 2 {
		return one(ctx.Replies.ErrNeedMoreParams("OPER"))
	}

	u := ctx.User
	if u.IsOperator() {
		return nil
	}

	line := ctx.Oper.Match(u.Prefix())
	if line == nil {
		return one(ctx.Replies.ErrNoOperHost())
	}
	if line.Name != msg.Params[0] || line.Password != msg.Params[1] {
		return one(ctx.Replies.ErrPasswdMismatch())
	}

	u.Modes['o'] = struct{}{}
	return []ircmsg.Message{
		fromSource(u.Source(), "MODE", u.Nick, "+o"),
		ctx.Replies.YoureOper(),
	}
}

func (p *adminPlugin) die(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if !ctx.User.IsOperator() {
		return one(ctx.Replies.ErrNoPrivileges())
	}
	p.shutdown(0)
	return nil
}

func (p *adminPlugin) restart(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if !ctx.User.IsOperator() {
		return one(ctx.Replies.ErrNoPrivileges())
	}
	p.shutdown(restartExitCode)
	return nil
}

func (p *adminPlugin) reload(ctx *Context, msg ircmsg.Message) []ircmsg.Message {
	if !ctx.User.IsOperator() {
		return one(ctx.Replies.ErrNoPrivileges())
	}
	if len(msg.Params) == 0 {
		return one(ctx.Replies.ErrNeedMoreParams("RELOAD"))
	}

	name := msg.Params[0]
	if !p.registry.HasPlugin(name) {
		return one(notice("No such plugin: " + name))
	}

	// Two phases, two NOTICEs, mirroring admin.py's reload(): unload the
	// live instance, then load a fresh one from its remembered constructor.
	var out []ircmsg.Message
	if err := p.registry.Unregister(name); err != nil {
		return one(notice(err.Error()))
	}
	out = append(out, notice("Unloaded "+name))

	if err := p.registry.Load(name); err != nil {
		out = append(out, notice(err.Error()))
		return out
	}
	out = append(out, notice("Loaded "+name))
	return out
}

func notice(text string) ircmsg.Message {
	return ircmsg.Message{Command: "NOTICE", Params: []string{"*", text}}
}
