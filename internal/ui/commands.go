package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearthd/hearth/internal/botapi"
	"github.com/hearthd/hearth/internal/events"
)

// View identifies one of the main panes.
type View int

const (
	ViewMemories View = iota
	ViewStock
	ViewFreezer
	ViewTodos
	ViewChat
)

func (v View) String() string {
	switch v {
	case ViewMemories:
		return "memories"
	case ViewStock:
		return "stock"
	case ViewFreezer:
		return "freezer"
	case ViewTodos:
		return "todos"
	case ViewChat:
		return "chat"
	default:
		return "unknown"
	}
}

type tickMsg time.Time

// storeChangedMsg reports that a resource store mutated, either from a
// local operation or a pushed event. The model re-reads the snapshot.
type storeChangedMsg struct {
	view View
}

// opDoneMsg reports completion of a backend mutation started from the UI.
type opDoneMsg struct {
	view   View
	action string
	err    error
}

type undoneMsg struct {
	label string
	err   error
}

type sessionChangedMsg struct{}

type connStateMsg events.State

type clientsLoadedMsg struct {
	clients []botapi.ClientProfile
	err     error
}

type gatingModesMsg struct {
	modes []botapi.GatingMode
	err   error
}

type versionsMsg struct {
	server string
	client string
	err    error
}

type chatOpenedMsg struct {
	session *botapi.ChatSession
	err     error
}

type chatReplyMsg struct {
	reply *botapi.ChatReply
	err   error
}

// botTextMsg carries an assistant utterance pushed over the event stream.
type botTextMsg struct {
	text string
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) loadView(v View) tea.Cmd {
	return func() tea.Msg {
		switch v {
		case ViewMemories:
			m.memories.EnsureLoaded(m.ctx)
		case ViewStock:
			m.stock.EnsureLoaded(m.ctx)
		case ViewFreezer:
			m.freezer.EnsureLoaded(m.ctx)
		case ViewTodos:
			m.todos.EnsureLoaded(m.ctx)
		}
		return storeChangedMsg{view: v}
	}
}

func (m *Model) refreshView(v View) tea.Cmd {
	return func() tea.Msg {
		var err error
		switch v {
		case ViewMemories:
			err = m.memories.Load(m.ctx)
		case ViewStock:
			err = m.stock.Load(m.ctx)
		case ViewFreezer:
			err = m.freezer.Load(m.ctx)
		case ViewTodos:
			err = m.todos.Load(m.ctx)
		}
		return opDoneMsg{view: v, action: "refresh", err: err}
	}
}

func (m *Model) loadClients() tea.Cmd {
	return func() tea.Msg {
		clients, err := m.client.ListClients(m.ctx)
		return clientsLoadedMsg{clients: clients, err: err}
	}
}

func (m *Model) loadGatingModes() tea.Cmd {
	return func() tea.Msg {
		modes, err := m.client.GatingModes(m.ctx)
		return gatingModesMsg{modes: modes, err: err}
	}
}

func (m *Model) loadVersions() tea.Cmd {
	return func() tea.Msg {
		info, err := m.client.Version(m.ctx)
		if err != nil {
			return versionsMsg{err: err}
		}
		return versionsMsg{server: info.Version, client: m.clientVersion}
	}
}

func (m *Model) openChat() tea.Cmd {
	return func() tea.Msg {
		session, err := m.client.OpenChatSession(m.ctx)
		return chatOpenedMsg{session: session, err: err}
	}
}

func (m *Model) sendChat(sessionID, text string) tea.Cmd {
	return func() tea.Msg {
		reply, err := m.client.SendChatMessage(m.ctx, sessionID, text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m *Model) applyUndo() tea.Cmd {
	view := m.currentView
	buf := m.undos[view]
	if buf == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, 10*time.Second)
		defer cancel()
		entry, err := buf.PopAndApply(ctx)
		if entry == nil && err == nil {
			return undoneMsg{}
		}
		if entry != nil {
			return undoneMsg{label: entry.Label, err: err}
		}
		return undoneMsg{err: err}
	}
}
