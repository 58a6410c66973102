package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "ircd.conf", "host = irc.example.org\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "irc.example.org", cfg.Host)
	assert.Equal(t, "0.0.0.0:6667", cfg.Bind)
	assert.Equal(t, "#circuits", cfg.DefaultChannel)
}

func TestLoadConfigBindWithoutPort(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "ircd.conf", "bind = 10.0.0.1\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1:6667", cfg.Bind)
}

func TestLoadConfigOlinesYAML(t *testing.T) {
	dir := t.TempDir()
	olinesPath := writeTempFile(t, dir, "olines.yaml", "\"*!*@localhost\":\n  name: root\n  password: hunter2\n")
	confPath := writeTempFile(t, dir, "ircd.conf", "olines = "+olinesPath+"\n")

	cfg, err := LoadConfig(confPath)
	require.NoError(t, err)
	require.Len(t, cfg.Olines, 1)
	assert.Equal(t, "root", cfg.Olines[0].Name)
	assert.Equal(t, "*!*@localhost", cfg.Olines[0].Mask)
}

func TestLoadConfigDuplicateKeyErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "ircd.conf", "host = a\nhost = b\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigCommentsAndBlankLinesIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeTempFile(t, dir, "ircd.conf", "# a comment\n\nhost = irc.example.org\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "irc.example.org", cfg.Host)
}
