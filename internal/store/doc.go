// Package store implements the client-side synchronization engine.
//
// Each resource collection (memories, stock, freezer items, todos) is held
// by one generic Store that reconciles three independent sources of truth:
//
//   - user-initiated REST calls (create/update/delete with their responses)
//   - backend push events fanned out from the shared SSE stream
//   - local optimistic edits awaiting confirmation
//
// No global sequence number exists, so correctness rests on idempotence:
// applying a created event for a present key, a deleted event for an absent
// key, or an updated event for an unknown key is a no-op. This makes the
// pair {local mutation's confirmation, server's broadcast of that mutation}
// commute — either order yields the same collection.
//
// Create policy: the REST response is applied to the collection immediately
// and the later broadcast echo dedups by key presence. This is uniform for
// every resource.
//
// Partial updates merge by JSON round trip: unmarshalling a patch into a
// copy of the existing record touches only the fields present in the patch,
// so concurrent partial updates from other sessions are not clobbered.
package store
