package ui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hearthd/hearth/internal/botapi"
	"github.com/hearthd/hearth/internal/session"
	"github.com/hearthd/hearth/internal/store"
)

func newTestModel() *Model {
	m := New(context.Background(), Deps{
		Memories: store.Memories(nil),
		Stock:    store.Stock(nil),
		Freezer:  store.Freezer(nil),
		Todos:    store.Todos(nil),
		Session:  &session.Store{},
	})
	m.width = 80
	m.height = 24
	m.ready = true
	return m
}

func TestTodoRowsFilterCompleted(t *testing.T) {
	m := newTestModel()
	m.todos.Restore(botapi.Todo{ID: "1", Content: "pending", CreatedAt: "2026-01-02 10:00:00"})
	m.todos.Restore(botapi.Todo{ID: "2", Content: "done", Completed: true, CreatedAt: "2026-01-01 10:00:00"})

	rows := m.todoRows()
	assert.Len(t, rows, 1)
	assert.Equal(t, "1", rows[0].key)

	m.includeCompleted = true
	rows = m.todoRows()
	assert.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].key, "pending sorts before completed")
}

func TestFreezerRowsSearchFilter(t *testing.T) {
	m := newTestModel()
	m.freezer.Restore(botapi.FreezerItem{Code: "ABC", Description: "beef stew"})
	m.freezer.Restore(botapi.FreezerItem{Code: "XYZ", Description: "chicken soup"})

	m.searchQuery = "stew"
	rows := m.freezerRows()
	assert.Len(t, rows, 1)
	assert.Equal(t, "ABC", rows[0].key)

	m.searchQuery = "xyz"
	rows = m.freezerRows()
	assert.Len(t, rows, 1)
	assert.Equal(t, "XYZ", rows[0].key, "search matches codes case-insensitively")
}

func TestMoveSelectionClamps(t *testing.T) {
	m := newTestModel()
	m.currentView = ViewMemories
	m.memories.Restore(botapi.Memory{ID: "a", Item: "keys", Location: "bowl"})
	m.memories.Restore(botapi.Memory{ID: "b", Item: "passport", Location: "drawer"})

	m.moveSelection(-1)
	assert.Equal(t, 0, m.selected[ViewMemories])
	m.moveSelection(5)
	assert.Equal(t, 1, m.selected[ViewMemories])
}

func TestEditSeedUsesSlashSyntax(t *testing.T) {
	m := newTestModel()
	m.stock.Restore(botapi.StockItem{ID: "s1", Item: "milk", Quantity: "2 gallons", StockLevel: botapi.StockLow})
	assert.Equal(t, "milk / 2 gallons / low", m.editSeed(ViewStock, "s1"))

	m.freezer.Restore(botapi.FreezerItem{Code: "ABC", Description: "beef stew"})
	assert.Equal(t, "beef stew", m.editSeed(ViewFreezer, "ABC"))
}
