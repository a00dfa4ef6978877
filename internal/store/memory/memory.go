// Package memory provides an in-process DocumentStore used as the offline
// backend and as the test double for persistence paths.
package memory

import (
	"context"
	"fmt"
	"sync"

	"bizhub/internal/store"
)

type collectionKey struct {
	userID string
	kind   string
}

type collection struct {
	order []string
	docs  map[string]store.Document
}

// Store keeps every user's collections in memory and fans full snapshots
// out to subscribers on each mutation, mirroring the delivery model of the
// cloud backend.
type Store struct {
	// deliverMu serializes mutation plus fan-out, so subscribers always
	// receive snapshots in mutation order and cancel returns only after
	// any delivery in flight has finished. Callbacks must not call back
	// into the store.
	deliverMu sync.Mutex

	mu          sync.Mutex
	collections map[collectionKey]*collection
	subscribers map[collectionKey]map[int]func([]store.Document)
	nextSubID   int

	// failing makes every write return an error, for exercising the
	// no-rollback path in tests.
	failing bool
}

func New() *Store {
	return &Store{
		collections: make(map[collectionKey]*collection),
		subscribers: make(map[collectionKey]map[int]func([]store.Document)),
	}
}

// SetFailing toggles simulated write failures.
func (s *Store) SetFailing(fail bool) {
	s.mu.Lock()
	s.failing = fail
	s.mu.Unlock()
}

func (s *Store) Add(_ context.Context, userID, kind, id string, doc store.Document) error {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.failing {
		s.mu.Unlock()
		return fmt.Errorf("memory store: simulated write failure")
	}
	key := collectionKey{userID, kind}
	col := s.collections[key]
	if col == nil {
		col = &collection{docs: make(map[string]store.Document)}
		s.collections[key] = col
	}
	if _, exists := col.docs[id]; !exists {
		col.order = append(col.order, id)
	}
	col.docs[id] = cloneDoc(doc)
	snapshot, fns := s.snapshotLocked(key)
	s.mu.Unlock()

	notify(fns, snapshot)
	return nil
}

func (s *Store) Update(ctx context.Context, userID, kind, id string, doc store.Document) error {
	// Same upsert semantics as Add; kept separate to match the port.
	return s.Add(ctx, userID, kind, id, doc)
}

func (s *Store) Delete(_ context.Context, userID, kind, id string) error {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.failing {
		s.mu.Unlock()
		return fmt.Errorf("memory store: simulated write failure")
	}
	key := collectionKey{userID, kind}
	if col := s.collections[key]; col != nil {
		if _, exists := col.docs[id]; exists {
			delete(col.docs, id)
			for i, oid := range col.order {
				if oid == id {
					col.order = append(col.order[:i], col.order[i+1:]...)
					break
				}
			}
		}
	}
	snapshot, fns := s.snapshotLocked(key)
	s.mu.Unlock()

	notify(fns, snapshot)
	return nil
}

func (s *Store) SubscribeAll(_ context.Context, userID, kind string, fn func([]store.Document)) (store.CancelFunc, error) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	key := collectionKey{userID, kind}
	subs := s.subscribers[key]
	if subs == nil {
		subs = make(map[int]func([]store.Document))
		s.subscribers[key] = subs
	}
	subID := s.nextSubID
	s.nextSubID++
	subs[subID] = fn
	snapshot, _ := s.snapshotLocked(key)
	s.mu.Unlock()

	// Initial delivery with the current state.
	fn(snapshot)

	return func() {
		// Taking deliverMu lets any in-flight delivery finish first, so no
		// callback runs after cancel returns.
		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()
		s.mu.Lock()
		delete(s.subscribers[key], subID)
		s.mu.Unlock()
	}, nil
}

// Snapshot returns the current documents of a collection, in insertion
// order.
func (s *Store) Snapshot(userID, kind string) []store.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, _ := s.snapshotLocked(collectionKey{userID, kind})
	return snapshot
}

func (s *Store) snapshotLocked(key collectionKey) ([]store.Document, []func([]store.Document)) {
	var docs []store.Document
	if col := s.collections[key]; col != nil {
		docs = make([]store.Document, 0, len(col.order))
		for _, id := range col.order {
			docs = append(docs, cloneDoc(col.docs[id]))
		}
	} else {
		docs = []store.Document{}
	}
	fns := make([]func([]store.Document), 0, len(s.subscribers[key]))
	for _, fn := range s.subscribers[key] {
		fns = append(fns, fn)
	}
	return docs, fns
}

func notify(fns []func([]store.Document), docs []store.Document) {
	for _, fn := range fns {
		fn(docs)
	}
}

func cloneDoc(doc store.Document) store.Document {
	out := make(store.Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
