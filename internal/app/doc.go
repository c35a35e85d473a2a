// Package app is the composition root for the Hearth application.
//
// # Overview
//
// Run wires together configuration, the backend HTTP client, the embedded
// REST proxy, the shared event subscription, the resource stores, and the
// UI, then blocks until the user exits or the context cancels.
//
// # Startup sequence
//
//  1. Load configuration from ~/.config/hearth/config.toml
//  2. Initialize the hearthd HTTP client
//  3. Start the embedded /api proxy in a goroutine
//  4. Load preferences and close chat sessions orphaned by a prior run
//  5. Build the resource stores and the shared event subscriber
//  6. Start the TUI (blocks)
//
// # Error handling
//
// Fatal errors returned from Run: invalid configuration, an unparseable
// backend address, or a UI failure. A backend that is merely down is not
// fatal; the stores record fetch errors and keep serving prior data, and
// the event subscriber retries in the background.
//
// On shutdown the open chat session is closed best-effort; if that fails,
// its id is saved to preferences so the next run can retry the cleanup.
package app
