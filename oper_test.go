package main

import "testing"

import "github.com/stretchr/testify/assert"

func TestOperTableMatch(t *testing.T) {
	table := newOperTable([]oline{
		{Mask: "*!*@localhost", Name: "prologic", Password: "test"},
	})

	line := table.Match("alice!alice@localhost")
	if assert.NotNil(t, line) {
		assert.Equal(t, "prologic", line.Name)
	}

	assert.Nil(t, table.Match("alice!alice@example.org"))
}

func TestOperTableMatchIsCaseInsensitiveOnHost(t *testing.T) {
	table := newOperTable([]oline{
		{Mask: "*!*@Example.ORG", Name: "prologic", Password: "test"},
	})

	line := table.Match("alice!alice@example.org")
	if assert.NotNil(t, line) {
		assert.Equal(t, "prologic", line.Name)
	}

	line = table.Match("alice!alice@EXAMPLE.org")
	assert.NotNil(t, line)
}

func TestOperTableFirstMatchWins(t *testing.T) {
	table := newOperTable([]oline{
		{Mask: "*!*@*", Name: "first", Password: "a"},
		{Mask: "*!*@localhost", Name: "second", Password: "b"},
	})

	line := table.Match("alice!alice@localhost")
	if assert.NotNil(t, line) {
		assert.Equal(t, "first", line.Name)
	}
}
