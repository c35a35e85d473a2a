package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	Refresh    key.Binding
	Undo       key.Binding

	// View switching
	ViewMemories key.Binding
	ViewStock    key.Binding
	ViewFreezer  key.Binding
	ViewTodos    key.Binding
	ViewChat     key.Binding

	// List actions
	Add     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Toggle  key.Binding
	Filter  key.Binding
	Search  key.Binding
	Up      key.Binding
	Down    key.Binding
	Confirm key.Binding
	Cancel  key.Binding

	// Session actions
	CycleClient key.Binding
	CycleGating key.Binding
	StopGating  key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next view"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh view"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Undo last change"),
		),

		ViewMemories: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "Memories"),
		),
		ViewStock: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "Stock"),
		),
		ViewFreezer: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "Freezer"),
		),
		ViewTodos: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "To-dos"),
		),
		ViewChat: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "Chat"),
		),

		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "Toggle done"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Toggle completed"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k", "Up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j", "Down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),

		CycleClient: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "Cycle client"),
		),
		CycleGating: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "Cycle gating mode"),
		),
		StopGating: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "Stop gating"),
		),
	}
}
