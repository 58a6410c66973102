package main

import (
	"strings"
	"sync"

	"github.com/charlad/ircd/ircmsg"
	"github.com/pkg/errors"
)

// pluginConstructor builds a fresh, stateless Plugin instance. The
// registry keeps one of these per registered plugin name so RELOAD can
// discard a live instance and rebuild from scratch without a dynamic code
// loader, which Go doesn't have. See SPEC_FULL.md section 4.D for why this
// replaces the source system's actual hot code reload.
type pluginConstructor func() Plugin

// Registry is the Command Registry: it maps each verb to the plugin that
// currently owns it, tracks which verbs belong to which plugin, and keeps
// each plugin's constructor around so it can be rebuilt on RELOAD. It
// mirrors the (command, commands, plugins) triple the source server
// keeps, built off circuits' registered/unregistered component events.
type Registry struct {
	mu sync.RWMutex

	command     map[string]string // verb (upper) -> plugin name
	verbs       map[string]map[string]struct{}
	plugins     map[string]Plugin
	constructor map[string]pluginConstructor
	order       []string // registration order, for stable LUSERS-style listing
}

func NewRegistry() *Registry {
	return &Registry{
		command:     map[string]string{},
		verbs:       map[string]map[string]struct{}{},
		plugins:     map[string]Plugin{},
		constructor: map[string]pluginConstructor{},
	}
}

// Register installs a plugin under name, remembering how to rebuild it,
// and claims every verb it handles. A verb already owned by another
// plugin is left with its current owner: the first registration wins, the
// same rule circuits' registered-event handler applies (`if event not in
// self.command`).
func (r *Registry) Register(name string, ctor pluginConstructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[name]; exists {
		return errors.Errorf("registry: plugin already registered: %s", name)
	}

	p := ctor()
	verbs := map[string]struct{}{}
	for verb := range p.Handlers() {
		verb = strings.ToUpper(verb)
		if _, taken := r.command[verb]; !taken {
			r.command[verb] = name
		}
		verbs[verb] = struct{}{}
	}

	r.plugins[name] = p
	r.verbs[name] = verbs
	r.constructor[name] = ctor
	r.order = append(r.order, name)
	return nil
}

// Unregister removes a plugin and frees every verb it owned.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterLocked(name)
}

func (r *Registry) unregisterLocked(name string) error {
	if _, exists := r.plugins[name]; !exists {
		return errors.Errorf("registry: no such plugin: %s", name)
	}
	for verb := range r.verbs[name] {
		if r.command[verb] == name {
			delete(r.command, verb)
		}
	}
	delete(r.verbs, name)
	delete(r.plugins, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Reload discards the live instance of name and constructs a fresh one
// from its remembered constructor, re-claiming its verbs. Dispatch looks
// the plugin up under the registry's read lock and releases it before
// invoking the handler, so a handler call already holding the old Plugin
// runs to completion against the old instance; everything dispatched
// after Reload returns sees the new one. No verb is ever owned by two
// plugins at once.
func (r *Registry) Reload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.constructor[name]; !ok {
		return errors.Errorf("registry: no such plugin: %s", name)
	}
	if err := r.unregisterLocked(name); err != nil {
		return err
	}
	return r.loadLocked(name)
}

// Load reconstructs name's plugin from its remembered constructor and
// re-registers it, claiming its verbs unconditionally (the same plugin
// always owns the same verb set, so there's no first-registration-wins
// contention to resolve here as there is in Register). This is RELOAD's
// second phase, called after Unregister has dropped the live instance, so
// the two phases each produce their own observable result.
func (r *Registry) Load(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(name)
}

func (r *Registry) loadLocked(name string) error {
	ctor, ok := r.constructor[name]
	if !ok {
		return errors.Errorf("registry: no such plugin: %s", name)
	}

	p := ctor()
	verbs := map[string]struct{}{}
	for verb := range p.Handlers() {
		verb = strings.ToUpper(verb)
		r.command[verb] = name
		verbs[verb] = struct{}{}
	}
	r.plugins[name] = p
	r.verbs[name] = verbs
	r.constructor[name] = ctor
	r.order = append(r.order, name)
	return nil
}

// HasPlugin reports whether name is currently registered.
func (r *Registry) HasPlugin(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.plugins[name]
	return ok
}

// Dispatch looks up the handler owning verb and invokes it. The bool is
// false when no plugin currently claims verb (caller should reply
// ERR_UNKNOWNCOMMAND).
func (r *Registry) Dispatch(ctx *Context, verb string, msg ircmsg.Message) ([]ircmsg.Message, bool) {
	r.mu.RLock()
	verb = strings.ToUpper(verb)
	pluginName, ok := r.command[verb]
	if !ok {
		r.mu.RUnlock()
		return nil, false
	}
	plugin := r.plugins[pluginName]
	r.mu.RUnlock()

	handler := plugin.Handlers()[verb]
	return handler(ctx, msg), true
}

// PluginNames returns the registered plugin names in registration order.
func (r *Registry) PluginNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
