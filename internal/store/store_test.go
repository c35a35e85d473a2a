package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID       string `json:"id"`
	Item     string `json:"item"`
	Location string `json:"location"`
}

func noteKey(n note) string { return n.ID }

// fakeRemote is an in-memory backend with per-call failure injection.
type fakeRemote struct {
	items   map[string]note
	nextID  int
	failAll bool
}

func newFakeRemote(seed ...note) *fakeRemote {
	f := &fakeRemote{items: make(map[string]note), nextID: 1}
	for _, n := range seed {
		f.items[n.ID] = n
	}
	return f
}

func (f *fakeRemote) remote() Remote[note] {
	return Remote[note]{
		List: func(ctx context.Context) ([]note, error) {
			if f.failAll {
				return nil, errors.New("backend unreachable")
			}
			out := make([]note, 0, len(f.items))
			for _, n := range f.items {
				out = append(out, n)
			}
			return out, nil
		},
		Create: func(ctx context.Context, draft note) (*note, error) {
			if f.failAll {
				return nil, errors.New("backend unreachable")
			}
			draft.ID = string(rune('a' + f.nextID))
			f.nextID++
			f.items[draft.ID] = draft
			return &draft, nil
		},
		Update: func(ctx context.Context, key string, patch map[string]any) (*note, error) {
			if f.failAll {
				return nil, errors.New("backend unreachable")
			}
			existing, ok := f.items[key]
			if !ok {
				return nil, errors.New("not found")
			}
			if v, ok := patch["item"].(string); ok {
				existing.Item = v
			}
			if v, ok := patch["location"].(string); ok {
				existing.Location = v
			}
			f.items[key] = existing
			return &existing, nil
		},
		Delete: func(ctx context.Context, key string) error {
			if f.failAll {
				return errors.New("backend unreachable")
			}
			delete(f.items, key)
			return nil
		},
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	encoded, err := json.Marshal(v)
	require.NoError(t, err)
	return encoded
}

func TestLoad_ReplacesCollection(t *testing.T) {
	remote := newFakeRemote(note{ID: "x", Item: "keys", Location: "bowl"})
	s := New(noteKey, remote.remote())

	require.NoError(t, s.Load(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Loaded)
	assert.False(t, snap.Loading)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "keys", snap.Records[0].Item)
}

func TestLoad_FailureKeepsPriorCollection(t *testing.T) {
	remote := newFakeRemote(note{ID: "x", Item: "keys"})
	s := New(noteKey, remote.remote())
	require.NoError(t, s.Load(context.Background()))

	remote.failAll = true
	err := s.Load(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	require.Len(t, snap.Records, 1, "failed load must not clear the collection")
	assert.Equal(t, "x", snap.Records[0].ID)
	assert.Error(t, snap.LastError)
}

func TestEnsureLoaded_RunsOnce(t *testing.T) {
	remote := newFakeRemote(note{ID: "x"})
	s := New(noteKey, remote.remote())

	require.NoError(t, s.EnsureLoaded(context.Background()))
	remote.items["y"] = note{ID: "y"}

	// Second call is a no-op; the new backend record stays invisible until a
	// manual Load or a push event.
	require.NoError(t, s.EnsureLoaded(context.Background()))
	assert.Equal(t, 1, s.Len())
}

func TestCreate_ThenEchoIsDeduped(t *testing.T) {
	remote := newFakeRemote()
	s := New(noteKey, remote.remote())

	created, err := s.Create(context.Background(), note{Item: "meds", Location: "shelf"})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	// The backend's broadcast of the same create arrives later.
	changed := s.ApplyCreated(mustJSON(t, created))
	assert.False(t, changed, "echo of a local create must be a no-op")
	assert.Equal(t, 1, s.Len())
}

func TestEchoBeforeResponse_SingleRecordEitherOrder(t *testing.T) {
	// Broadcast first, REST response second: same final state.
	s := New(noteKey, Remote[note]{})

	record := note{ID: "b", Item: "meds"}
	assert.True(t, s.ApplyCreated(mustJSON(t, record)))

	// Applying the REST response over the broadcast keeps exactly one record.
	s.Restore(record)
	assert.Equal(t, 1, s.Len())
}

func TestCreate_FailureLeavesStateUntouched(t *testing.T) {
	remote := newFakeRemote()
	remote.failAll = true
	s := New(noteKey, remote.remote())

	_, err := s.Create(context.Background(), note{Item: "meds"})
	require.Error(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestUpdate_MergesOnlyPatchedFields(t *testing.T) {
	remote := newFakeRemote(note{ID: "x", Item: "keys", Location: "bowl"})
	s := New(noteKey, remote.remote())
	require.NoError(t, s.Load(context.Background()))

	_, err := s.Update(context.Background(), "x", map[string]any{"location": "hook"})
	require.NoError(t, err)

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "keys", got.Item, "unpatched field must survive")
	assert.Equal(t, "hook", got.Location)
}

func TestUpdate_FailureRollsBackOptimisticApply(t *testing.T) {
	remote := newFakeRemote(note{ID: "x", Item: "keys", Location: "bowl"})
	s := New(noteKey, remote.remote())
	require.NoError(t, s.Load(context.Background()))

	remote.failAll = true
	_, err := s.Update(context.Background(), "x", map[string]any{"location": "hook"})
	require.Error(t, err)

	got, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, "bowl", got.Location, "failed update must restore the pre-image")
}

func TestDelete_ReturnsSnapshotAndToleratesLateEvent(t *testing.T) {
	remote := newFakeRemote(note{ID: "x", Item: "keys", Location: "bowl"})
	s := New(noteKey, remote.remote())
	require.NoError(t, s.Load(context.Background()))

	removed, err := s.Delete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "keys", removed.Item)
	assert.Equal(t, 0, s.Len())

	// The backend's *_deleted broadcast for the same key is a no-op.
	changed := s.ApplyDeleted(mustJSON(t, map[string]string{"id": "x"}))
	assert.False(t, changed)
	assert.Equal(t, 0, s.Len())
}

func TestApplyUpdated_UnknownKeyIsNoop(t *testing.T) {
	s := New(noteKey, Remote[note]{})
	changed := s.ApplyUpdated(mustJSON(t, map[string]string{"id": "ghost", "item": "keys"}))
	assert.False(t, changed)
	assert.Equal(t, 0, s.Len())
}

func TestApplyUpdated_MergesFields(t *testing.T) {
	s := New(noteKey, Remote[note]{})
	require.True(t, s.ApplyCreated(mustJSON(t, note{ID: "x", Item: "keys", Location: "bowl"})))

	changed := s.ApplyUpdated(mustJSON(t, map[string]string{"id": "x", "location": "hook"}))
	assert.True(t, changed)

	got, _ := s.Get("x")
	assert.Equal(t, "keys", got.Item)
	assert.Equal(t, "hook", got.Location)
}

func TestApply_MalformedPayloadsDropped(t *testing.T) {
	s := New(noteKey, Remote[note]{})
	require.True(t, s.ApplyCreated(mustJSON(t, note{ID: "x", Item: "keys"})))

	for _, payload := range [][]byte{
		[]byte("not json"),
		[]byte("{truncated"),
		[]byte(`{"id": 42}`),
		nil,
	} {
		assert.False(t, s.ApplyCreated(payload))
		assert.False(t, s.ApplyUpdated(payload))
		assert.False(t, s.ApplyDeleted(payload))
	}
	assert.Equal(t, 1, s.Len(), "malformed payloads must leave the collection unaffected")
}

func TestApplyCreated_RepetitionIsIdempotent(t *testing.T) {
	s := New(noteKey, Remote[note]{})
	payload := mustJSON(t, note{ID: "x", Item: "keys"})

	assert.True(t, s.ApplyCreated(payload))
	assert.False(t, s.ApplyCreated(payload))
	assert.False(t, s.ApplyCreated(payload))
	assert.Equal(t, 1, s.Len())
}

func TestApply_KeylessPayloadDropped(t *testing.T) {
	s := New(noteKey, Remote[note]{})
	assert.False(t, s.ApplyCreated(mustJSON(t, map[string]string{"item": "keys"})))
	assert.Equal(t, 0, s.Len())
}
