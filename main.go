package main

import (
	"log"
	"net"
	"os"
	"syscall"

	"github.com/pkg/errors"
)

func main() {
	args, done := getArgs()
	if done {
		return
	}

	cfg, err := LoadConfig(args.ConfigFile)
	if err != nil {
		log.Fatalf("%+v", errors.Wrap(err, "loading configuration"))
	}
	if args.Bind != "" {
		cfg.Bind = args.Bind
	}
	if args.Debug {
		cfg.Debug = true
	}

	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}

	ln, err := net.Listen("tcp", cfg.Bind)
	if err != nil {
		log.Fatalf("%+v", errors.Wrapf(err, "binding to %s", cfg.Bind))
	}

	registry := NewRegistry()
	core := NewEventCore(cfg, registry)
	registerPlugins(registry, core)

	log.Printf("listening on %s", cfg.Bind)
	code := core.Serve(ln)

	if code == restartExitCode {
		restart()
	}
	os.Exit(code)
}

// restart re-execs the current program image with its original
// arguments, grounded on admin.py's restart() (os.execv(sys.executable,
// args)). If the exec call fails we fall back to a plain non-zero exit
// rather than leaving the process in limbo.
func restart() {
	self, err := os.Executable()
	if err != nil {
		log.Printf("restart: %s", err)
		os.Exit(1)
	}
	if err := syscall.Exec(self, os.Args, os.Environ()); err != nil {
		log.Printf("restart: exec failed: %s", err)
		os.Exit(1)
	}
}

// registerPlugins installs every built-in plugin into registry. Each
// constructor is remembered so RELOAD can rebuild a fresh instance later
// (see Registry.Reload and SPEC_FULL.md section 4.D).
func registerPlugins(registry *Registry, core *EventCore) {
	must(registry.Register("core", newCorePlugin))
	must(registry.Register("channel", newChannelPlugin))
	must(registry.Register("user", newUserPlugin))
	must(registry.Register("mode", newModePlugin))
	must(registry.Register("admin", newAdminPlugin(registry, core.Shutdown)))
}

func must(err error) {
	if err != nil {
		log.Fatalf("%+v", err)
	}
}
