package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hearthd/hearth/internal/botapi"
	"github.com/hearthd/hearth/internal/undo"
)

// Backend mutations started from the UI. Each successful op pushes an
// inverse onto the view's undo buffer.

func (m *Model) createCmd(v View, raw string) tea.Cmd {
	return func() tea.Msg {
		switch v {
		case ViewMemories:
			draft, err := parseMemoryInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "add", err: err}
			}
			created, err := m.memories.Create(m.ctx, draft)
			if err == nil {
				m.pushCreateUndo(v, created.ID, "memory "+created.Item, func(ctx context.Context) error {
					_, err := m.memories.Delete(ctx, created.ID)
					return err
				})
			}
			return opDoneMsg{view: v, action: "add", err: err}
		case ViewStock:
			draft, err := parseStockInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "add", err: err}
			}
			created, err := m.stock.Create(m.ctx, draft)
			if err == nil {
				m.pushCreateUndo(v, created.ID, "stock "+created.Item, func(ctx context.Context) error {
					_, err := m.stock.Delete(ctx, created.ID)
					return err
				})
			}
			return opDoneMsg{view: v, action: "add", err: err}
		case ViewFreezer:
			draft, err := parseFreezerInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "add", err: err}
			}
			created, err := m.freezer.Create(m.ctx, draft)
			if err == nil {
				m.pushCreateUndo(v, created.Code, "freezer "+created.Code, func(ctx context.Context) error {
					_, err := m.freezer.Delete(ctx, created.Code)
					return err
				})
			}
			return opDoneMsg{view: v, action: "add", err: err}
		case ViewTodos:
			draft, err := parseTodoInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "add", err: err}
			}
			created, err := m.todos.Create(m.ctx, draft)
			if err == nil {
				m.pushCreateUndo(v, created.ID, "to-do", func(ctx context.Context) error {
					_, err := m.todos.Delete(ctx, created.ID)
					return err
				})
			}
			return opDoneMsg{view: v, action: "add", err: err}
		}
		return nil
	}
}

func (m *Model) deleteCmd(v View, key string) tea.Cmd {
	return func() tea.Msg {
		switch v {
		case ViewMemories:
			removed, err := m.memories.Delete(m.ctx, key)
			if err == nil {
				m.pushDeleteUndo(v, key, "memory "+removed.Item, func(ctx context.Context) error {
					_, err := m.memories.Create(ctx, botapi.Memory{Item: removed.Item, Location: removed.Location})
					return err
				})
			}
			return opDoneMsg{view: v, action: "delete", err: err}
		case ViewStock:
			removed, err := m.stock.Delete(m.ctx, key)
			if err == nil {
				m.pushDeleteUndo(v, key, "stock "+removed.Item, func(ctx context.Context) error {
					_, err := m.stock.Create(ctx, botapi.StockItem{
						Item: removed.Item, Quantity: removed.Quantity, StockLevel: removed.StockLevel,
					})
					return err
				})
			}
			return opDoneMsg{view: v, action: "delete", err: err}
		case ViewFreezer:
			removed, err := m.freezer.Delete(m.ctx, key)
			if err == nil {
				m.pushDeleteUndo(v, key, "freezer "+removed.Code, func(ctx context.Context) error {
					_, err := m.freezer.Create(ctx, botapi.FreezerItem{Code: removed.Code, Description: removed.Description})
					return err
				})
			}
			return opDoneMsg{view: v, action: "delete", err: err}
		case ViewTodos:
			removed, err := m.todos.Delete(m.ctx, key)
			if err == nil {
				m.pushDeleteUndo(v, key, "to-do", func(ctx context.Context) error {
					_, err := m.todos.Create(ctx, botapi.Todo{Content: removed.Content})
					return err
				})
			}
			return opDoneMsg{view: v, action: "delete", err: err}
		}
		return nil
	}
}

func (m *Model) editCmd(v View, key, raw string) tea.Cmd {
	return func() tea.Msg {
		switch v {
		case ViewMemories:
			draft, err := parseMemoryInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "edit", err: err}
			}
			prior, ok := m.memories.Get(key)
			if !ok {
				return opDoneMsg{view: v, action: "edit", err: fmt.Errorf("memory no longer exists")}
			}
			_, err = m.memories.Update(m.ctx, key, map[string]any{"item": draft.Item, "location": draft.Location})
			if err == nil {
				m.pushUpdateUndo(v, key, "memory "+prior.Item, func(ctx context.Context) error {
					_, err := m.memories.Update(ctx, key, map[string]any{"item": prior.Item, "location": prior.Location})
					return err
				})
			}
			return opDoneMsg{view: v, action: "edit", err: err}
		case ViewStock:
			draft, err := parseStockInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "edit", err: err}
			}
			prior, ok := m.stock.Get(key)
			if !ok {
				return opDoneMsg{view: v, action: "edit", err: fmt.Errorf("stock item no longer exists")}
			}
			_, err = m.stock.Update(m.ctx, key, map[string]any{
				"item": draft.Item, "quantity": draft.Quantity, "stock_level": draft.StockLevel,
			})
			if err == nil {
				m.pushUpdateUndo(v, key, "stock "+prior.Item, func(ctx context.Context) error {
					_, err := m.stock.Update(ctx, key, map[string]any{
						"item": prior.Item, "quantity": prior.Quantity, "stock_level": prior.StockLevel,
					})
					return err
				})
			}
			return opDoneMsg{view: v, action: "edit", err: err}
		case ViewFreezer:
			description := strings.TrimSpace(raw)
			if description == "" {
				return opDoneMsg{view: v, action: "edit", err: fmt.Errorf("description is empty")}
			}
			prior, ok := m.freezer.Get(key)
			if !ok {
				return opDoneMsg{view: v, action: "edit", err: fmt.Errorf("freezer item no longer exists")}
			}
			_, err := m.freezer.Update(m.ctx, key, map[string]any{"description": description})
			if err == nil {
				m.pushUpdateUndo(v, key, "freezer "+key, func(ctx context.Context) error {
					_, err := m.freezer.Update(ctx, key, map[string]any{"description": prior.Description})
					return err
				})
			}
			return opDoneMsg{view: v, action: "edit", err: err}
		case ViewTodos:
			draft, err := parseTodoInput(raw)
			if err != nil {
				return opDoneMsg{view: v, action: "edit", err: err}
			}
			prior, ok := m.todos.Get(key)
			if !ok {
				return opDoneMsg{view: v, action: "edit", err: fmt.Errorf("to-do no longer exists")}
			}
			_, err = m.todos.Update(m.ctx, key, map[string]any{"content": draft.Content})
			if err == nil {
				m.pushUpdateUndo(v, key, "to-do", func(ctx context.Context) error {
					_, err := m.todos.Update(ctx, key, map[string]any{"content": prior.Content})
					return err
				})
			}
			return opDoneMsg{view: v, action: "edit", err: err}
		}
		return nil
	}
}

func (m *Model) toggleTodoCmd(key string) tea.Cmd {
	return func() tea.Msg {
		prior, ok := m.todos.Get(key)
		if !ok {
			return opDoneMsg{view: ViewTodos, action: "toggle", err: fmt.Errorf("to-do no longer exists")}
		}
		_, err := m.todos.Update(m.ctx, key, map[string]any{"completed": !prior.Completed})
		if err == nil {
			m.pushUpdateUndo(ViewTodos, key, "to-do", func(ctx context.Context) error {
				_, err := m.todos.Update(ctx, key, map[string]any{"completed": prior.Completed})
				return err
			})
		}
		return opDoneMsg{view: ViewTodos, action: "toggle", err: err}
	}
}

func (m *Model) pushCreateUndo(v View, key, label string, invert func(context.Context) error) {
	m.undos[v].Push(undo.Entry{Op: undo.OpCreate, Key: key, Label: label, Invert: invert})
}

func (m *Model) pushUpdateUndo(v View, key, label string, invert func(context.Context) error) {
	m.undos[v].Push(undo.Entry{Op: undo.OpUpdate, Key: key, Label: label, Invert: invert})
}

func (m *Model) pushDeleteUndo(v View, key, label string, invert func(context.Context) error) {
	m.undos[v].Push(undo.Entry{Op: undo.OpDelete, Key: key, Label: label, Invert: invert})
}

func (m *Model) selectClientCmd(id, name string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.SelectClient(m.ctx, id)
		if err == nil {
			m.sessionState.SetClient(id, name)
		}
		return opDoneMsg{action: "select client", err: err}
	}
}

func (m *Model) gatingStartCmd(mode string) tea.Cmd {
	return func() tea.Msg {
		err := m.client.GatingStart(m.ctx, mode)
		if err == nil {
			m.sessionState.SetGating(mode, true)
		}
		return opDoneMsg{action: "gating start", err: err}
	}
}

func (m *Model) gatingStopCmd() tea.Cmd {
	return func() tea.Msg {
		err := m.client.GatingStop(m.ctx)
		if err == nil {
			snap := m.sessionState.Snapshot()
			m.sessionState.SetGating(snap.GatingMode, false)
		}
		return opDoneMsg{action: "gating stop", err: err}
	}
}
