package ui

import (
	"fmt"
	"strings"

	"github.com/hearthd/hearth/internal/botapi"
)

// Slash-separated add-item syntaxes. Validation failures stay local: they
// surface as a toast and are never sent to the backend.

// parseStockInput parses "item / quantity / level". The level accepts the
// shorthand symbols + (sufficient), - (low) and 0 (out of stock) as well as
// the spelled-out names. Quantity and level are optional; level defaults to
// sufficient.
func parseStockInput(raw string) (botapi.StockItem, error) {
	parts := splitFields(raw)
	if len(parts) == 0 || parts[0] == "" {
		return botapi.StockItem{}, fmt.Errorf("usage: item / quantity / level")
	}
	if len(parts) > 3 {
		return botapi.StockItem{}, fmt.Errorf("too many fields; usage: item / quantity / level")
	}

	item := botapi.StockItem{Item: parts[0], StockLevel: botapi.StockSufficient}
	if len(parts) > 1 {
		item.Quantity = parts[1]
	}
	if len(parts) > 2 {
		level, err := parseStockLevel(parts[2])
		if err != nil {
			return botapi.StockItem{}, err
		}
		item.StockLevel = level
	}
	return item, nil
}

func parseStockLevel(raw string) (string, error) {
	switch strings.ToLower(raw) {
	case "+", "sufficient", "ok":
		return botapi.StockSufficient, nil
	case "-", "low":
		return botapi.StockLow, nil
	case "0", "out", "out_of_stock":
		return botapi.StockOut, nil
	default:
		return "", fmt.Errorf("unknown stock level %q (use +, - or 0)", raw)
	}
}

// parseFreezerInput parses "CODE / description".
func parseFreezerInput(raw string) (botapi.FreezerItem, error) {
	parts := splitFields(raw)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return botapi.FreezerItem{}, fmt.Errorf("usage: CODE / description")
	}
	return botapi.FreezerItem{Code: parts[0], Description: parts[1]}, nil
}

// parseMemoryInput parses "item / location".
func parseMemoryInput(raw string) (botapi.Memory, error) {
	parts := splitFields(raw)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return botapi.Memory{}, fmt.Errorf("usage: item / location")
	}
	return botapi.Memory{Item: parts[0], Location: parts[1]}, nil
}

// parseTodoInput accepts any non-blank content.
func parseTodoInput(raw string) (botapi.Todo, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return botapi.Todo{}, fmt.Errorf("to-do content is empty")
	}
	return botapi.Todo{Content: content}, nil
}

func splitFields(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	pieces := strings.Split(raw, "/")
	fields := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		fields = append(fields, strings.TrimSpace(piece))
	}
	return fields
}
