package main

import (
	"path/filepath"
	"strings"
)

// oline is one configured O:line: a glob matched against a connecting
// user's nick!user@host, mapped to the name/password OPER must supply.
type oline struct {
	Mask     string
	Name     string
	Password string
}

// operTable holds the configured O:lines, grounded on the source system's
// Admin.olines dict matched with fnmatch. Go's path/filepath.Match
// implements the same glob semantics (*, ?, [...]) we need here; it
// treats "\" as an escape character (rejecting a bare trailing "\" as a
// syntax error) where fnmatch would treat it literally, which no
// realistic O:line mask exercises.
type operTable struct {
	lines []oline
}

func newOperTable(lines []oline) *operTable {
	return &operTable{lines: lines}
}

// Match returns the oline whose mask matches prefix (nick!user@host), or
// nil if none do. The first match in the table's order wins; loadOlines
// builds the table from a YAML mapping and does not keep the file's entry
// order. Matching is
// case-insensitive on the host portion (hostnames aren't case-sensitive),
// so an O:line mask and a resolved hostname differing only in case still
// match.
func (t *operTable) Match(prefix string) *oline {
	prefix = foldHost(prefix)
	for i := range t.lines {
		ok, err := filepath.Match(foldHost(t.lines[i].Mask), prefix)
		if err == nil && ok {
			return &t.lines[i]
		}
	}
	return nil
}

// foldHost lowercases the host portion of a nick!user@host (or mask of the
// same shape), leaving everything up to and including the last '@' alone.
func foldHost(s string) string {
	idx := strings.LastIndexByte(s, '@')
	if idx == -1 {
		return s
	}
	return s[:idx+1] + strings.ToLower(s[idx+1:])
}
