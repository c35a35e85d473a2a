// Package proxy serves the local /api surface in front of hearthd.
//
// It is pass-through by contract: one verb/path pair per backend
// verb/path pair, params URL-encoded before forwarding, no caching and no
// retries. Its only translations are error normalization (backend status
// preserved, body reshaped to {"error": string}, unreachable backend
// mapped to 503) and the SSE relay on /api/events, which flushes per chunk
// and wires the inbound request's context into the backend fetch so a
// dropped client closes the upstream stream.
package proxy
