package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

func (m *Model) renderHelp() string {
	groups := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Views", []key.Binding{m.keys.ViewMemories, m.keys.ViewStock, m.keys.ViewFreezer, m.keys.ViewTodos, m.keys.ViewChat, m.keys.Tab}},
		{"Lists", []key.Binding{m.keys.Up, m.keys.Down, m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Toggle, m.keys.Filter, m.keys.Search, m.keys.Undo, m.keys.Refresh}},
		{"Session", []key.Binding{m.keys.CycleClient, m.keys.CycleGating, m.keys.StopGating}},
		{"General", []key.Binding{m.keys.Help, m.keys.CycleTheme, m.keys.Quit}},
	}

	var b strings.Builder
	for _, group := range groups {
		b.WriteString(m.styles.Accent.Render(group.title) + "\n")
		for _, binding := range group.bindings {
			help := binding.Help()
			b.WriteString("  " + m.styles.Text.Render(padRight(help.Key, 8)) + m.styles.Muted.Render(help.Desc) + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
