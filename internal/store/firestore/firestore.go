// Package firestore adapts Cloud Firestore to the store.DocumentStore
// port. Each user's data lives under users/{uid}/{kind}; document ids are
// the record ids, so writes are straight upserts.
package firestore

import (
	"context"
	"fmt"
	"sync"

	fs "cloud.google.com/go/firestore"

	"bizhub/internal/log"
	"bizhub/internal/store"
)

const usersCollection = "users"

type Store struct {
	client *fs.Client
	logger *log.Logger
}

var _ store.DocumentStore = (*Store)(nil)

func New(client *fs.Client, logger *log.Logger) *Store {
	return &Store{
		client: client,
		logger: logger.WithComponent(log.ComponentFirestore),
	}
}

func (s *Store) collection(userID, kind string) *fs.CollectionRef {
	return s.client.Collection(usersCollection).Doc(userID).Collection(kind)
}

func (s *Store) Add(ctx context.Context, userID, kind, id string, doc store.Document) error {
	if _, err := s.collection(userID, kind).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return fmt.Errorf("firestore add %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, userID, kind, id string, doc store.Document) error {
	// Full replacement by id, matching the sync store's update contract.
	if _, err := s.collection(userID, kind).Doc(id).Set(ctx, map[string]any(doc)); err != nil {
		return fmt.Errorf("firestore update %s/%s: %w", kind, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, userID, kind, id string) error {
	if _, err := s.collection(userID, kind).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", kind, id, err)
	}
	return nil
}

// SubscribeAll watches the collection with a Firestore snapshot listener.
// Every delivery carries the complete collection ordered by creation time.
// The returned cancel stops the listener and waits out any delivery in
// flight, so no callback runs after it returns.
func (s *Store) SubscribeAll(ctx context.Context, userID, kind string, fn func([]store.Document)) (store.CancelFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snaps := s.collection(userID, kind).OrderBy("createdAt", fs.Asc).Snapshots(watchCtx)

	var deliverMu sync.Mutex
	stopped := false

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if watchCtx.Err() == nil {
					s.logger.Error("snapshot listener stopped",
						log.FieldUserID, userID,
						log.FieldRecordKind, kind,
						log.FieldError, err)
				}
				return
			}
			docs, err := collectDocuments(snap)
			if err != nil {
				s.logger.Error("reading snapshot documents",
					log.FieldRecordKind, kind, log.FieldError, err)
				continue
			}
			// A snapshot already past Next can race cancel; drop it once
			// the subscription is stopped.
			deliverMu.Lock()
			if !stopped {
				fn(docs)
			}
			deliverMu.Unlock()
		}
	}()

	return func() {
		cancel()
		deliverMu.Lock()
		stopped = true
		deliverMu.Unlock()
	}, nil
}

func collectDocuments(snap *fs.QuerySnapshot) ([]store.Document, error) {
	refs, err := snap.Documents.GetAll()
	if err != nil {
		return nil, err
	}
	docs := make([]store.Document, 0, len(refs))
	for _, ref := range refs {
		doc := store.Document(ref.Data())
		if _, ok := doc["id"]; !ok {
			doc["id"] = ref.Ref.ID
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
