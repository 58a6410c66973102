package main

import (
	"flag"
	"fmt"
	"os"
)

// version is the version string reported in RPL_YOURHOST and -v/--version.
const version = "circuitsd-0.1"

// Args are the parsed command line arguments (spec.md §6: -b/--bind,
// --debug, -v/--version).
type Args struct {
	ConfigFile string
	Bind       string
	Debug      bool
}

// getArgs parses os.Args. It returns (nil, true) when a flag (like
// --version) has already produced all the output the process needs, so
// main should exit 0 immediately.
func getArgs() (*Args, bool) {
	var bind string
	flag.StringVar(&bind, "b", "", "Address:port to bind to. Overrides bind from config.")
	flag.StringVar(&bind, "bind", "", "Address:port to bind to. Overrides bind from config.")

	var debug bool
	flag.BoolVar(&debug, "debug", false, "Add microseconds to log timestamps. No additional events are logged.")

	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "Print version and exit.")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit.")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [arguments] <config-file>\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if showVersion {
		fmt.Println(version)
		return nil, true
	}

	if flag.NArg() != 1 {
		flag.Usage()
		return nil, true
	}

	return &Args{
		ConfigFile: flag.Arg(0),
		Bind:       bind,
		Debug:      debug,
	}, false
}
