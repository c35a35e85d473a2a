package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetThemeFallsBackToFirst(t *testing.T) {
	assert.Equal(t, "Ember", GetTheme("no-such-theme").Name)
	assert.Equal(t, "Phosphor", GetTheme("Phosphor").Name)
}

func TestNextThemeWraps(t *testing.T) {
	name := themes[0].Name
	seen := map[string]bool{}
	for range themes {
		seen[name] = true
		name = NextTheme(name)
	}
	assert.Equal(t, themes[0].Name, name)
	assert.Len(t, seen, len(themes))
}
