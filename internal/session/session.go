package session

import (
	"encoding/json"
	"sync"
	"time"
)

// Snapshot is the session-level state shown in the status bar: which client
// profile is active, the gating mode, whether the assistant is listening,
// and the conversation turn counter.
type Snapshot struct {
	ClientID      string
	ClientName    string
	GatingMode    string
	GatingActive  bool
	Listening     bool
	TurnCount     int
	ServerVersion string
	ClientVersion string
	LastUpdated   time.Time
}

// Store coordinates concurrent updates to the session snapshot. REST
// confirmations and push events both land here; all appliers are idempotent
// and drop malformed payloads silently.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// SetClient records the active client profile.
func (s *Store) SetClient(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ClientID = id
	s.snapshot.ClientName = name
	s.snapshot.LastUpdated = time.Now()
}

// SetGating records the gating mode and whether it is active.
func (s *Store) SetGating(mode string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.GatingMode = mode
	s.snapshot.GatingActive = active
	s.snapshot.LastUpdated = time.Now()
}

// SetVersions records the backend and front-end version strings.
func (s *Store) SetVersions(server, client string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.ServerVersion = server
	s.snapshot.ClientVersion = client
	s.snapshot.LastUpdated = time.Now()
}

// SetListening flips the listening indicator.
func (s *Store) SetListening(listening bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Listening = listening
	s.snapshot.LastUpdated = time.Now()
}

// ApplyClientSelected handles a client_selected broadcast.
func (s *Store) ApplyClientSelected(payload []byte) bool {
	var body struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.ID == "" {
		return false
	}
	s.SetClient(body.ID, body.Name)
	return true
}

// ApplyGatingChanged handles a gating_mode_changed broadcast.
func (s *Store) ApplyGatingChanged(payload []byte) bool {
	var body struct {
		Mode   string `json:"mode"`
		Active *bool  `json:"active"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Mode == "" {
		return false
	}
	active := true
	if body.Active != nil {
		active = *body.Active
	}
	s.SetGating(body.Mode, active)
	return true
}

// ApplyTurnCounter handles a turn_counter_updated broadcast.
func (s *Store) ApplyTurnCounter(payload []byte) bool {
	var body struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Count == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.TurnCount = *body.Count
	s.snapshot.LastUpdated = time.Now()
	return true
}
