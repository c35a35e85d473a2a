package botapi

import "time"

const timestampLayout = "2006-01-02 15:04:05"

// Memory is a remembered fact about where something lives.
type Memory struct {
	ID        string `json:"id"`
	Item      string `json:"item"`
	Location  string `json:"location"`
	Timestamp string `json:"timestamp"`
}

// StockItem tracks a pantry item and how much of it remains.
type StockItem struct {
	ID         string `json:"id"`
	Item       string `json:"item"`
	Quantity   string `json:"quantity"`
	StockLevel string `json:"stock_level"`
}

// Stock levels reported by the backend.
const (
	StockSufficient = "sufficient"
	StockLow        = "low"
	StockOut        = "out_of_stock"
)

// FreezerItem is a frozen container identified by its label code.
// The code is a natural key and immutable once created.
type FreezerItem struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	AddedAt     string `json:"added_at"`
}

// Todo is a task item.
type Todo struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// ClientProfile identifies a person the assistant is serving.
type ClientProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GatingMode describes one of the backend's response-gating modes.
type GatingMode struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// ChatSession identifies an open chat session on the backend.
type ChatSession struct {
	ID string `json:"id"`
}

// ChatReply is the backend's response to a chat message.
type ChatReply struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// VersionInfo reports the backend's version string.
type VersionInfo struct {
	Version string `json:"version"`
}

// ParsedTime returns a record timestamp as time.Time when possible.
func ParsedTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed
	}
	if parsed, err := time.Parse(timestampLayout, value); err == nil {
		return parsed
	}
	return time.Time{}
}
