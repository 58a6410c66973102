package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config holds a server's configuration, populated from a key=value file
// (see readKeyValueFile) plus a nested YAML block for olines.
type Config struct {
	Bind string

	Network string
	Host    string
	MOTD    string

	Debug bool

	MaxNickLength int

	// DefaultChannel is auto-joined on signon (spec's "auto-JOIN #circuits
	// (configurable default channel)").
	DefaultChannel string

	Olines []oline
}

const defaultMaxNickLength = 9
const defaultBindPort = "6667"

// defaultConfig returns a Config with every spec-mandated default applied,
// so a near-empty config file is still a valid server.
func defaultConfig() Config {
	return Config{
		Bind:           "0.0.0.0:" + defaultBindPort,
		Network:        "circuitsd",
		Host:           "localhost",
		MaxNickLength:  defaultMaxNickLength,
		DefaultChannel: "#circuits",
	}
}

// LoadConfig reads path as key=value lines and returns a populated Config.
// Recognized keys match spec.md §6: bind, debug, network, host, motd_path,
// olines (the last pointing at a YAML file of mask -> {name, password}),
// plus default_channel and max_nick_length.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	raw, err := readKeyValueFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	if v, ok := raw["bind"]; ok && v != "" {
		cfg.Bind = v
		if !strings.Contains(cfg.Bind, ":") {
			cfg.Bind = cfg.Bind + ":" + defaultBindPort
		}
	}

	if v, ok := raw["debug"]; ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parsing debug value %q", v)
		}
		cfg.Debug = b
	}

	if v, ok := raw["network"]; ok && v != "" {
		cfg.Network = v
	}
	if v, ok := raw["host"]; ok && v != "" {
		cfg.Host = v
	}
	if v, ok := raw["default_channel"]; ok && v != "" {
		cfg.DefaultChannel = v
	}

	if v, ok := raw["max_nick_length"]; ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "parsing max_nick_length value %q", v)
		}
		cfg.MaxNickLength = n
	}

	if v, ok := raw["motd_path"]; ok && v != "" {
		motd, err := os.ReadFile(v)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading motd_path %q", v)
		}
		cfg.MOTD = strings.TrimRight(string(motd), "\n")
	}

	if v, ok := raw["olines"]; ok && v != "" {
		lines, err := loadOlines(v)
		if err != nil {
			return cfg, errors.Wrap(err, "loading olines")
		}
		cfg.Olines = lines
	}

	return cfg, nil
}

// readKeyValueFile parses path as key=value lines, one per line, '#' in
// column 1 (after trimming whitespace) marking a comment, grounded on the
// teacher's ReadStringMap.
func readKeyValueFile(path string) (map[string]string, error) {
	fi, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fi.Close() }()

	values := map[string]string{}
	scanner := bufio.NewScanner(fi)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if key == "" {
			return nil, errors.New("config: empty key")
		}

		if _, exists := values[key]; exists {
			return nil, errors.Errorf("config: key defined twice: %s", key)
		}
		values[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "scanning config")
	}
	return values, nil
}

// olineYAML is the on-disk shape of one olines entry: a mask keyed map of
// name/password pairs. A glob->(name,password) table is naturally nested
// data, which is why this block is YAML rather than flat key=value.
type olineYAML struct {
	Name     string `yaml:"name"`
	Password string `yaml:"password"`
}

func loadOlines(path string) ([]oline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]olineYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "parsing olines yaml")
	}

	lines := make([]oline, 0, len(raw))
	for mask, v := range raw {
		lines = append(lines, oline{Mask: mask, Name: v.Name, Password: v.Password})
	}
	return lines, nil
}
