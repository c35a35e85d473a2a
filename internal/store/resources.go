package store

import (
	"context"

	"github.com/hearthd/hearth/internal/botapi"
)

// Memories builds the store for memory records.
func Memories(c *botapi.Client) *Store[botapi.Memory] {
	return New(func(m botapi.Memory) string { return m.ID }, Remote[botapi.Memory]{
		List: c.ListMemories,
		Create: func(ctx context.Context, draft botapi.Memory) (*botapi.Memory, error) {
			return c.CreateMemory(ctx, draft.Item, draft.Location)
		},
		Update: c.UpdateMemory,
		Delete: c.DeleteMemory,
	})
}

// Stock builds the store for stock records.
func Stock(c *botapi.Client) *Store[botapi.StockItem] {
	return New(func(s botapi.StockItem) string { return s.ID }, Remote[botapi.StockItem]{
		List: c.ListStock,
		Create: func(ctx context.Context, draft botapi.StockItem) (*botapi.StockItem, error) {
			return c.CreateStock(ctx, draft.Item, draft.Quantity, draft.StockLevel)
		},
		Update: c.UpdateStock,
		Delete: c.DeleteStock,
	})
}

// Freezer builds the store for freezer items, keyed by their natural code.
// The full collection is loaded; search narrowing happens at render time.
func Freezer(c *botapi.Client) *Store[botapi.FreezerItem] {
	return New(func(f botapi.FreezerItem) string { return f.Code }, Remote[botapi.FreezerItem]{
		List: func(ctx context.Context) ([]botapi.FreezerItem, error) {
			return c.ListFreezer(ctx, "")
		},
		Create: func(ctx context.Context, draft botapi.FreezerItem) (*botapi.FreezerItem, error) {
			return c.CreateFreezerItem(ctx, draft.Code, draft.Description)
		},
		Update: c.PatchFreezerItem,
		Delete: c.DeleteFreezerItem,
	})
}

// Todos builds the store for todos. Completed todos are loaded too; the
// include-completed toggle filters at render time.
func Todos(c *botapi.Client) *Store[botapi.Todo] {
	return New(func(t botapi.Todo) string { return t.ID }, Remote[botapi.Todo]{
		List: func(ctx context.Context) ([]botapi.Todo, error) {
			return c.ListTodos(ctx, true)
		},
		Create: func(ctx context.Context, draft botapi.Todo) (*botapi.Todo, error) {
			return c.CreateTodo(ctx, draft.Content)
		},
		Update: c.PatchTodo,
		Delete: c.DeleteTodo,
	})
}
