package undo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopAndApply_StrictLIFO(t *testing.T) {
	b := NewBuffer()

	var undone []string
	record := func(name string) func(context.Context) error {
		return func(context.Context) error {
			undone = append(undone, name)
			return nil
		}
	}

	b.Push(Entry{Op: OpDelete, Key: "a", Invert: record("a")})
	b.Push(Entry{Op: OpDelete, Key: "b", Invert: record("b")})

	entry, err := b.PopAndApply(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "b", entry.Key, "most recent entry must be undone first")
	assert.Equal(t, []string{"b"}, undone)
	assert.Equal(t, 1, b.Len(), "only the undone entry is removed")

	entry, err = b.PopAndApply(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a", entry.Key)
	assert.Equal(t, 0, b.Len())
}

func TestPopAndApply_EmptyIsNoop(t *testing.T) {
	b := NewBuffer()
	entry, err := b.PopAndApply(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestPopAndApply_FailureKeepsEntryForRetry(t *testing.T) {
	b := NewBuffer()

	attempts := 0
	b.Push(Entry{Op: OpDelete, Key: "a", Invert: func(context.Context) error {
		attempts++
		if attempts == 1 {
			return errors.New("backend unreachable")
		}
		return nil
	}})

	_, err := b.PopAndApply(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, b.Len(), "failed undo must keep the entry")

	entry, err := b.PopAndApply(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 0, b.Len())
}

func TestPopAndApply_SingleInFlight(t *testing.T) {
	b := NewBuffer()

	started := make(chan struct{})
	release := make(chan struct{})
	b.Push(Entry{Op: OpDelete, Key: "slow", Invert: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})
	b.Push(Entry{Op: OpDelete, Key: "fast", Invert: func(context.Context) error {
		t.Error("second undo ran while first was in flight")
		return nil
	}})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = b.PopAndApply(context.Background())
	}()

	<-started
	entry, err := b.PopAndApply(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, entry, "concurrent undo must be ignored while one is pending")

	close(release)
	wg.Wait()
}

func TestExpiry_LazyEviction(t *testing.T) {
	b := NewBuffer()
	current := time.Now()
	b.now = func() time.Time { return current }

	b.Push(Entry{Op: OpDelete, Key: "old", Invert: func(context.Context) error {
		t.Error("expired entry must not be undone")
		return nil
	}})

	current = current.Add(DefaultExpiry + time.Second)

	fresh := false
	b.Push(Entry{Op: OpDelete, Key: "fresh", Invert: func(context.Context) error {
		fresh = true
		return nil
	}})

	entry, err := b.PopAndApply(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "fresh", entry.Key)
	assert.True(t, fresh)
	assert.Equal(t, 0, b.Len(), "expired entry is evicted, not undone")
}

func TestPushDuringFlight_RemovesOnlyUndoneEntry(t *testing.T) {
	b := NewBuffer()

	started := make(chan struct{})
	release := make(chan struct{})
	b.Push(Entry{Op: OpDelete, Key: "first", Invert: func(context.Context) error {
		close(started)
		<-release
		return nil
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		entry, err := b.PopAndApply(context.Background())
		assert.NoError(t, err)
		if assert.NotNil(t, entry) {
			assert.Equal(t, "first", entry.Key)
		}
	}()

	<-started
	b.Push(Entry{Op: OpDelete, Key: "second", Invert: func(context.Context) error { return nil }})
	close(release)
	<-done

	require.Equal(t, 1, b.Len())
	entry, err := b.PopAndApply(context.Background())
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "second", entry.Key)
}
