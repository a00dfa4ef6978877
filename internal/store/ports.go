// Package store implements the per-user record synchronization layer: a
// generic optimistic store over an opaque document backend that delivers
// full-collection snapshots on every change.
package store

import "context"

// Document is one JSON-serializable record as held by the backend.
type Document map[string]any

// CancelFunc stops a live subscription. Implementations must be idempotent:
// calling it more than once is safe and no callbacks arrive after the first
// call returns.
type CancelFunc func()

// DocumentStore is the port for the cloud document backend. Collections are
// keyed by (userID, kind); documents within a collection are keyed by id.
type DocumentStore interface {
	Add(ctx context.Context, userID, kind, id string, doc Document) error
	Update(ctx context.Context, userID, kind, id string, doc Document) error
	Delete(ctx context.Context, userID, kind, id string) error

	// SubscribeAll registers a listener receiving the entire current
	// collection whenever it changes, including once immediately with the
	// current state. Each delivery is authoritative and complete; callers
	// replace, never merge.
	SubscribeAll(ctx context.Context, userID, kind string, fn func([]Document)) (CancelFunc, error)
}
