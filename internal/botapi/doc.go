// Package botapi is the typed HTTP client for the hearthd backend.
//
// One method per backend operation, context on every call, and a shared
// do() helper for request plumbing. Backend-reported failures decode the
// {"error": "..."} body into *APIError so callers can distinguish
// validation errors (4xx, surfaced to the user) from transport failures.
package botapi
