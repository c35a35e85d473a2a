package ui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hearthd/hearth/internal/botapi"
)

// listRow is one selectable line in a list view.
type listRow struct {
	key  string
	text string
}

// rows returns the visible rows for a list view, already sorted and
// filtered. Chat has no rows.
func (m *Model) rows(v View) []listRow {
	switch v {
	case ViewMemories:
		return m.memoryRows()
	case ViewStock:
		return m.stockRows()
	case ViewFreezer:
		return m.freezerRows()
	case ViewTodos:
		return m.todoRows()
	default:
		return nil
	}
}

func (m *Model) memoryRows() []listRow {
	snap := m.memories.Snapshot()
	records := snap.Records
	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].Item) < strings.ToLower(records[j].Item)
	})
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		text := fmt.Sprintf("%-24s %s", rec.Item, rec.Location)
		if ts := botapi.ParsedTime(rec.Timestamp); !ts.IsZero() {
			text += m.styles.Muted.Render("  (" + ts.Format("Jan 2 15:04") + ")")
		}
		rows = append(rows, listRow{key: rec.ID, text: text})
	}
	return rows
}

func (m *Model) stockRows() []listRow {
	snap := m.stock.Snapshot()
	records := snap.Records
	sort.Slice(records, func(i, j int) bool {
		return strings.ToLower(records[i].Item) < strings.ToLower(records[j].Item)
	})
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		marker := m.styles.Success.Render("●")
		switch rec.StockLevel {
		case botapi.StockLow:
			marker = m.styles.Warning.Render("◐")
		case botapi.StockOut:
			marker = m.styles.Danger.Render("○")
		}
		text := fmt.Sprintf("%s %-24s %s", marker, rec.Item, rec.Quantity)
		rows = append(rows, listRow{key: rec.ID, text: text})
	}
	return rows
}

func (m *Model) freezerRows() []listRow {
	snap := m.freezer.Snapshot()
	query := strings.ToLower(strings.TrimSpace(m.searchQuery))
	records := make([]botapi.FreezerItem, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Code), query) &&
			!strings.Contains(strings.ToLower(rec.Description), query) {
			continue
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Code < records[j].Code
	})
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		text := fmt.Sprintf("%s  %s", m.styles.Accent.Render(fmt.Sprintf("%-6s", rec.Code)), rec.Description)
		if ts := botapi.ParsedTime(rec.AddedAt); !ts.IsZero() {
			text += m.styles.Muted.Render("  frozen " + ts.Format("Jan 2"))
		}
		rows = append(rows, listRow{key: rec.Code, text: text})
	}
	return rows
}

func (m *Model) todoRows() []listRow {
	snap := m.todos.Snapshot()
	records := make([]botapi.Todo, 0, len(snap.Records))
	for _, rec := range snap.Records {
		if rec.Completed && !m.includeCompleted {
			continue
		}
		records = append(records, rec)
	}
	// Pending first, then newest first within each group.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Completed != records[j].Completed {
			return !records[i].Completed
		}
		return records[i].CreatedAt > records[j].CreatedAt
	})
	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		box := "[ ]"
		content := rec.Content
		if rec.Completed {
			box = "[x]"
			content = m.styles.Muted.Render(content)
		}
		rows = append(rows, listRow{key: rec.ID, text: box + " " + content})
	}
	return rows
}

// selectedKey returns the key of the highlighted row, or "".
func (m *Model) selectedKey(v View) string {
	rows := m.rows(v)
	idx := m.selected[v]
	if idx < 0 || idx >= len(rows) {
		return ""
	}
	return rows[idx].key
}

func (m *Model) moveSelection(delta int) {
	rows := m.rows(m.currentView)
	if len(rows) == 0 {
		m.selected[m.currentView] = 0
		return
	}
	idx := m.selected[m.currentView] + delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(rows) {
		idx = len(rows) - 1
	}
	m.selected[m.currentView] = idx
}

func (m *Model) renderList(v View) string {
	snap := m.listMeta(v)
	var b strings.Builder

	if snap.lastError != nil {
		b.WriteString(m.styles.Danger.Render("! "+snap.lastError.Error()) + "\n")
		if !snap.lastUpdated.IsZero() {
			b.WriteString(m.styles.Muted.Render("showing data from "+snap.lastUpdated.Format("15:04:05")) + "\n")
		}
		b.WriteString("\n")
	}

	rows := m.rows(v)
	switch {
	case !snap.loaded && snap.loading:
		b.WriteString(m.spin.View() + m.styles.Muted.Render("loading"))
	case len(rows) == 0:
		b.WriteString(m.styles.Muted.Render(m.emptyText(v)))
	default:
		sel := m.selected[v]
		if sel >= len(rows) {
			sel = len(rows) - 1
			m.selected[v] = sel
		}
		for i, row := range rows {
			line := "  " + row.text
			if i == sel {
				line = m.styles.Selection.Render("> " + row.text)
			}
			b.WriteString(line + "\n")
		}
	}

	if m.inputMode != inputNone && m.inputView == v {
		b.WriteString("\n" + m.inputPrompt() + " " + m.input.View())
	}
	return b.String()
}

func (m *Model) emptyText(v View) string {
	switch v {
	case ViewMemories:
		return "no memories yet; press a to add one"
	case ViewStock:
		return "stock list is empty; press a to add an item"
	case ViewFreezer:
		if strings.TrimSpace(m.searchQuery) != "" {
			return "no freezer items match " + m.searchQuery
		}
		return "freezer is empty; press a to add a container"
	case ViewTodos:
		return "nothing to do"
	default:
		return ""
	}
}

type listMeta struct {
	loaded      bool
	loading     bool
	lastError   error
	lastUpdated time.Time
}

func (m *Model) listMeta(v View) listMeta {
	switch v {
	case ViewMemories:
		s := m.memories.Snapshot()
		return listMeta{s.Loaded, s.Loading, s.LastError, s.LastUpdated}
	case ViewStock:
		s := m.stock.Snapshot()
		return listMeta{s.Loaded, s.Loading, s.LastError, s.LastUpdated}
	case ViewFreezer:
		s := m.freezer.Snapshot()
		return listMeta{s.Loaded, s.Loading, s.LastError, s.LastUpdated}
	case ViewTodos:
		s := m.todos.Snapshot()
		return listMeta{s.Loaded, s.Loading, s.LastError, s.LastUpdated}
	default:
		return listMeta{}
	}
}

func (m *Model) inputPrompt() string {
	switch m.inputMode {
	case inputAdd:
		switch m.inputView {
		case ViewMemories:
			return m.styles.Accent.Render("add (item / location):")
		case ViewStock:
			return m.styles.Accent.Render("add (item / quantity / level):")
		case ViewFreezer:
			return m.styles.Accent.Render("add (CODE / description):")
		case ViewTodos:
			return m.styles.Accent.Render("add to-do:")
		}
	case inputEdit:
		return m.styles.Accent.Render("edit:")
	case inputSearch:
		return m.styles.Accent.Render("search:")
	}
	return ">"
}
