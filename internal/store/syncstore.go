package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"bizhub/internal/log"
)

// Record is implemented by every entity the sync store manages (via
// core.Meta embedding).
type Record interface {
	RecordID() string
	SetRecordID(string)
	Stamp(time.Time)
	Touch(time.Time)
}

// recordPtr constrains T to a pointer to the entity struct so the store can
// allocate and mutate records generically.
type recordPtr[U any] interface {
	*U
	Record
}

// SyncStore holds the live in-memory list of one user-scoped entity
// collection and keeps it synchronized with the document backend.
//
// The list belongs to exactly one user at a time, the one bound by the
// latest Subscribe call. Reads and optimistic local mutations for any
// other user bypass the list; backend writes are always scoped by the
// userID argument regardless of binding.
//
// Mutations are optimistic: the in-memory list is updated first and the
// backend write happens after. A failed write is logged and counted but the
// local mutation is not rolled back; the next backend snapshot is the
// authority and will resolve any divergence. Listener snapshots and
// optimistic writes share the list with last-write-wins semantics: an
// in-flight add can briefly vanish when a pre-write snapshot lands, and
// reappears once the backend catches up.
type SyncStore[U any, T recordPtr[U]] struct {
	kind    string
	backend DocumentStore
	logger  *log.Logger

	mu      sync.Mutex
	records []T
	userID  string
	// gen identifies the current subscription. Snapshot deliveries carry
	// the gen they were subscribed under; a mismatch means the delivery
	// belongs to a cancelled or superseded subscription and is dropped.
	gen uint64

	// failedWrites counts persistence failures since startup, for a
	// "sync failed" indicator surface.
	failedWrites atomic.Int64

	now func() time.Time
}

// NewSyncStore creates a store for one entity kind (e.g. "expenseTracker",
// "clientCRM") backed by the given document store.
func NewSyncStore[U any, T recordPtr[U]](kind string, backend DocumentStore, logger *log.Logger) *SyncStore[U, T] {
	return &SyncStore[U, T]{
		kind:    kind,
		backend: backend,
		logger:  logger.WithComponent(log.ComponentStore),
		now:     time.Now,
	}
}

// Kind returns the entity-type key this store is scoped to.
func (s *SyncStore[U, T]) Kind() string { return s.kind }

// Subscribe binds the store to the given user and maintains a live
// subscription to their collection, invoking onChange with the full decoded
// list on every backend change. Binding clears the previous user's list
// synchronously, so a read racing a user switch never sees it; snapshots
// still in flight for a superseded subscription are dropped on arrival. An
// empty userID (signed out) just clears the binding and returns a no-op
// cancel. The returned cancel is idempotent.
func (s *SyncStore[U, T]) Subscribe(ctx context.Context, userID string, onChange func([]T)) (CancelFunc, error) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.userID = userID
	s.records = nil
	s.mu.Unlock()

	if userID == "" {
		return func() {}, nil
	}

	cancel, err := s.backend.SubscribeAll(ctx, userID, s.kind, func(docs []Document) {
		records := make([]T, 0, len(docs))
		for _, doc := range docs {
			rec, err := decodeRecord[U, T](doc)
			if err != nil {
				s.logger.Warn("dropping undecodable document",
					log.FieldRecordKind, s.kind, log.FieldError, err)
				continue
			}
			records = append(records, rec)
		}
		s.mu.Lock()
		if s.gen != gen {
			// Late delivery for a cancelled or superseded subscription.
			s.mu.Unlock()
			return
		}
		// Latest snapshot wins outright.
		s.records = records
		s.mu.Unlock()
		if onChange != nil {
			onChange(records)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", s.kind, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.gen == gen {
				s.gen++
				s.userID = ""
				s.records = nil
			}
			s.mu.Unlock()
			cancel()
		})
	}, nil
}

// Add assigns a client-generated id and timestamps when absent, inserts the
// record into the live list immediately and then persists it. The error
// reports persistence failure only; the optimistic insert stands either way.
func (s *SyncStore[U, T]) Add(ctx context.Context, userID string, rec T) error {
	if rec.RecordID() == "" {
		rec.SetRecordID(uuid.NewString())
	}
	rec.Stamp(s.now())

	s.mu.Lock()
	if s.userID == userID {
		s.records = append(s.records, rec)
	}
	s.mu.Unlock()

	doc, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", s.kind, err)
	}
	if err := s.backend.Add(ctx, userID, s.kind, rec.RecordID(), doc); err != nil {
		s.noteWriteFailure(ctx, log.OpAdd, userID, rec.RecordID(), err)
		return fmt.Errorf("persist %s record: %w", s.kind, err)
	}
	return nil
}

// Update replaces the stored record with the same id, refreshing its update
// timestamp. Unknown ids are persisted anyway; the backend snapshot settles
// the outcome.
func (s *SyncStore[U, T]) Update(ctx context.Context, userID string, rec T) error {
	rec.Touch(s.now())

	s.mu.Lock()
	if s.userID == userID {
		for i, existing := range s.records {
			if existing.RecordID() == rec.RecordID() {
				s.records[i] = rec
				break
			}
		}
	}
	s.mu.Unlock()

	doc, err := encodeRecord(rec)
	if err != nil {
		return fmt.Errorf("encode %s record: %w", s.kind, err)
	}
	if err := s.backend.Update(ctx, userID, s.kind, rec.RecordID(), doc); err != nil {
		s.noteWriteFailure(ctx, log.OpUpdate, userID, rec.RecordID(), err)
		return fmt.Errorf("persist %s record: %w", s.kind, err)
	}
	return nil
}

// Remove deletes the record by id, locally first and then from the backend.
func (s *SyncStore[U, T]) Remove(ctx context.Context, userID string, rec T) error {
	id := rec.RecordID()

	s.mu.Lock()
	if s.userID == userID {
		for i, existing := range s.records {
			if existing.RecordID() == id {
				s.records = append(s.records[:i], s.records[i+1:]...)
				break
			}
		}
	}
	s.mu.Unlock()

	if err := s.backend.Delete(ctx, userID, s.kind, id); err != nil {
		s.noteWriteFailure(ctx, log.OpDelete, userID, id, err)
		return fmt.Errorf("delete %s record: %w", s.kind, err)
	}
	return nil
}

// Records returns a copy of the live list when userID is the bound user,
// nil for anyone else. A signed-out or unsubscribed store serves nobody.
func (s *SyncStore[U, T]) Records(userID string) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	if userID == "" || userID != s.userID {
		return nil
	}
	return append([]T(nil), s.records...)
}

// FailedWrites returns the number of persistence failures observed since
// startup. Local state may have diverged from the backend that many times.
func (s *SyncStore[U, T]) FailedWrites() int64 {
	return s.failedWrites.Load()
}

func (s *SyncStore[U, T]) noteWriteFailure(ctx context.Context, op, userID, id string, err error) {
	s.failedWrites.Add(1)
	s.logger.ErrorContext(ctx, "persistence failed, local state diverged",
		log.FieldOperation, op,
		log.FieldRecordKind, s.kind,
		log.FieldUserID, userID,
		log.FieldRecordID, id,
		log.FieldError, err)
}

func encodeRecord(rec any) (Document, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decodeRecord[U any, T recordPtr[U]](doc Document) (T, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var u U
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return T(&u), nil
}
