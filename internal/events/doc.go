// Package events maintains the shared SSE subscription to hearthd.
//
// One reference-counted connection serves every consumer: stores subscribe
// to the event names they care about and the subscriber fans each event out
// by name. Handlers receive raw payload bytes; interpreting (and dropping
// malformed) JSON is the consumer's job, so a bad payload can never take
// down the stream. Reconnection honors the stream's retry: hint.
package events
