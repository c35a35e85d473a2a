// Package undo implements a per-view buffer of reversible mutations.
//
// The buffer is a strict LIFO stack with a bounded lifetime per entry:
// entries older than the expiry window are evicted lazily on each undo
// attempt. Reversal issues the inverse backend operation (recreate a
// deleted record, delete a created one, restore a previous value) and only
// removes the entry once the backend confirms, so a failed undo can be
// retried. At most one undo is in flight per buffer; attempts made while
// one is pending are ignored.
package undo

import (
	"context"
	"sync"
	"time"
)

// Op identifies the original mutation an entry can reverse.
type Op int

const (
	OpCreate Op = iota
	OpUpdate
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	default:
		return "delete"
	}
}

// Entry is one reversible mutation. Invert issues the inverse backend
// operation; it is built by the component that owns the mutation, which
// knows the captured pre-image.
type Entry struct {
	Op     Op
	Key    string
	Label  string // human-readable description for the toast
	Invert func(ctx context.Context) error
}

// DefaultExpiry is the window within which an entry can be undone.
const DefaultExpiry = 30 * time.Second

type stackedEntry struct {
	Entry
	id       int64
	pushedAt time.Time
}

// Buffer is a LIFO undo stack with per-entry expiry.
type Buffer struct {
	mu       sync.Mutex
	entries  []stackedEntry
	expiry   time.Duration
	nextID   int64
	inflight bool
	now      func() time.Time
}

// NewBuffer builds a buffer with the default 30s entry expiry.
func NewBuffer() *Buffer {
	return &Buffer{expiry: DefaultExpiry, now: time.Now}
}

// Push appends an entry. It never fails.
func (b *Buffer) Push(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.entries = append(b.entries, stackedEntry{Entry: e, id: b.nextID, pushedAt: b.now()})
}

// Len reports the number of live (unexpired) entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.evictLocked()
	return len(b.entries)
}

// PopAndApply reverses the most recent live entry. It returns the undone
// entry on success, or nil when there was nothing to undo (empty buffer,
// all entries expired, or an undo already in flight). On failure the entry
// stays on the stack so the user may retry.
func (b *Buffer) PopAndApply(ctx context.Context) (*Entry, error) {
	b.mu.Lock()
	b.evictLocked()
	if b.inflight || len(b.entries) == 0 {
		b.mu.Unlock()
		return nil, nil
	}
	top := b.entries[len(b.entries)-1]
	b.inflight = true
	b.mu.Unlock()

	err := top.Invert(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.inflight = false
	if err != nil {
		return nil, err
	}
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].id == top.id {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			break
		}
	}
	entry := top.Entry
	return &entry, nil
}

// evictLocked drops entries older than the expiry window. Callers hold b.mu.
func (b *Buffer) evictLocked() {
	if b.expiry <= 0 {
		return
	}
	cutoff := b.now().Add(-b.expiry)
	live := b.entries[:0]
	for _, e := range b.entries {
		if e.pushedAt.After(cutoff) {
			live = append(live, e)
		}
	}
	b.entries = live
}
