package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Remote supplies the backend operations for one resource type. The store
// never builds requests itself; it reconciles local state around these calls.
type Remote[T any] struct {
	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, draft T) (*T, error)
	Update func(ctx context.Context, key string, patch map[string]any) (*T, error)
	Delete func(ctx context.Context, key string) error
}

// Store keeps one resource collection consistent under three independent
// sources of truth: user-initiated REST calls, backend push events, and
// local optimistic edits. All mutations converge on the same final state
// regardless of the order in which a call's confirmation and the backend's
// broadcast of that same mutation arrive.
type Store[T any] struct {
	mu      sync.RWMutex
	keyOf   func(T) string
	remote  Remote[T]
	records map[string]T
	loaded  bool
	loading bool
	lastErr error
	updated time.Time
}

// Snapshot is a point-in-time copy of the collection and its flags. Records
// carry no semantic order; callers sort for display.
type Snapshot[T any] struct {
	Records     []T
	Loaded      bool
	Loading     bool
	LastError   error
	LastUpdated time.Time
}

// New builds a store for one resource type. keyOf must return the identity
// key of a record; the key is immutable for the record's lifetime.
func New[T any](keyOf func(T) string, remote Remote[T]) *Store[T] {
	return &Store[T]{
		keyOf:   keyOf,
		remote:  remote,
		records: make(map[string]T),
	}
}

// Snapshot returns a copy of the current collection state.
func (s *Store[T]) Snapshot() Snapshot[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		records = append(records, rec)
	}
	return Snapshot[T]{
		Records:     records,
		Loaded:      s.loaded,
		Loading:     s.loading,
		LastError:   s.lastErr,
		LastUpdated: s.updated,
	}
}

// Get returns the record for key, if present.
func (s *Store[T]) Get(key string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	return rec, ok
}

// Len reports the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Load fetches the full collection and replaces local state. On failure the
// previous collection is left untouched and the error is recorded.
func (s *Store[T]) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	items, err := s.remote.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.updated = time.Now()
	if err != nil {
		s.lastErr = err
		return err
	}

	replaced := make(map[string]T, len(items))
	for _, item := range items {
		replaced[s.keyOf(item)] = item
	}
	s.records = replaced
	s.loaded = true
	s.lastErr = nil
	return nil
}

// EnsureLoaded runs Load once; later calls are no-ops. Manual refreshes go
// through Load directly.
func (s *Store[T]) EnsureLoaded(ctx context.Context) error {
	s.mu.RLock()
	done := s.loaded
	s.mu.RUnlock()
	if done {
		return nil
	}
	return s.Load(ctx)
}

// Create sends a creation request and applies the backend's confirmed record
// to the collection immediately. The later *_created broadcast for the same
// key dedups to a no-op. Local state is untouched on failure.
func (s *Store[T]) Create(ctx context.Context, draft T) (*T, error) {
	created, err := s.remote.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.keyOf(*created)] = *created
	s.updated = time.Now()
	return created, nil
}

// Update applies patch optimistically, then sends the partial-update request.
// The confirmed response is merged into the existing record field by field;
// on failure the captured pre-image is restored.
func (s *Store[T]) Update(ctx context.Context, key string, patch map[string]any) (*T, error) {
	s.mu.Lock()
	previous, existed := s.records[key]
	if existed {
		if merged, err := mergePatch(previous, patch); err == nil {
			s.records[key] = merged
		}
	}
	s.mu.Unlock()

	confirmed, err := s.remote.Update(ctx, key, patch)
	if err != nil {
		if existed {
			s.mu.Lock()
			s.records[key] = previous
			s.mu.Unlock()
		}
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = *confirmed
	s.updated = time.Now()
	return confirmed, nil
}

// Delete sends a delete request and removes the record on success, without
// waiting for the *_deleted broadcast. The removed record's snapshot is
// returned so callers can place it on an undo buffer.
func (s *Store[T]) Delete(ctx context.Context, key string) (T, error) {
	var zero T

	if err := s.remote.Delete(ctx, key); err != nil {
		return zero, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	removed, ok := s.records[key]
	if !ok {
		return zero, nil
	}
	delete(s.records, key)
	s.updated = time.Now()
	return removed, nil
}

// ApplyCreated handles a *_created broadcast. A payload whose key is already
// present (the echo of a local create) is dropped. Malformed payloads are
// dropped silently. Returns true when the collection changed.
func (s *Store[T]) ApplyCreated(payload []byte) bool {
	var record T
	if err := json.Unmarshal(payload, &record); err != nil {
		return false
	}
	key := s.keyOf(record)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[key]; exists {
		return false
	}
	s.records[key] = record
	s.updated = time.Now()
	return true
}

// ApplyUpdated handles a *_updated broadcast by merging the payload's fields
// into the existing record. Updates for unknown keys and malformed payloads
// are dropped silently. Returns true when the collection changed.
func (s *Store[T]) ApplyUpdated(payload []byte) bool {
	var probe T
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	key := s.keyOf(probe)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.records[key]
	if !ok {
		return false
	}
	merged := existing
	if err := json.Unmarshal(payload, &merged); err != nil {
		return false
	}
	s.records[key] = merged
	s.updated = time.Now()
	return true
}

// ApplyDeleted handles a *_deleted broadcast. Removal of an absent key (the
// echo of a local delete) is a no-op. Returns true when the collection changed.
func (s *Store[T]) ApplyDeleted(payload []byte) bool {
	var probe T
	if err := json.Unmarshal(payload, &probe); err != nil {
		return false
	}
	key := s.keyOf(probe)
	if key == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return false
	}
	delete(s.records, key)
	s.updated = time.Now()
	return true
}

// Restore inserts a record directly, bypassing the backend. Used when an
// undo recreates a record whose confirmation already arrived elsewhere.
func (s *Store[T]) Restore(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[s.keyOf(record)] = record
	s.updated = time.Now()
}

// mergePatch applies a partial-update map onto a record by JSON round trip:
// only fields present in the patch change.
func mergePatch[T any](record T, patch map[string]any) (T, error) {
	merged := record
	encoded, err := json.Marshal(patch)
	if err != nil {
		return record, fmt.Errorf("encode patch: %w", err)
	}
	if err := json.Unmarshal(encoded, &merged); err != nil {
		return record, fmt.Errorf("apply patch: %w", err)
	}
	return merged, nil
}
