package worker

import (
	"context"
	"errors"
	"testing"

	"bizhub/internal/amqp"
	"bizhub/internal/log"
)

type fakeStore struct {
	saved map[string][]byte
	err   error
}

func (f *fakeStore) SaveSnapshot(_ context.Context, userID, kind string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = make(map[string][]byte)
	}
	f.saved[userID+"/"+kind] = payload
	return nil
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestHandleSavesSnapshot(t *testing.T) {
	store := &fakeStore{}
	w := NewSnapshotWorker(store, testLogger())

	msg := amqp.NewSnapshotMessage("alice", "expenseTracker", []byte(`[{"id":"e1"}]`))
	if err := w.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if got := string(store.saved["alice/expenseTracker"]); got != `[{"id":"e1"}]` {
		t.Errorf("saved payload = %s", got)
	}
}

func TestHandleOverwritesEarlierSnapshot(t *testing.T) {
	store := &fakeStore{}
	w := NewSnapshotWorker(store, testLogger())
	ctx := context.Background()

	_ = w.Handle(ctx, amqp.NewSnapshotMessage("alice", "goalTracker", []byte(`[]`)))
	_ = w.Handle(ctx, amqp.NewSnapshotMessage("alice", "goalTracker", []byte(`[{"id":"g1"}]`)))

	if got := string(store.saved["alice/goalTracker"]); got != `[{"id":"g1"}]` {
		t.Errorf("saved payload = %s", got)
	}
}

func TestHandleDropsAnonymousMessages(t *testing.T) {
	store := &fakeStore{}
	w := NewSnapshotWorker(store, testLogger())
	ctx := context.Background()

	if err := w.Handle(ctx, amqp.NewSnapshotMessage("", "expenseTracker", []byte(`[]`))); err != nil {
		t.Errorf("missing user must be dropped, not requeued: %v", err)
	}
	if err := w.Handle(ctx, amqp.NewSnapshotMessage("alice", "", []byte(`[]`))); err != nil {
		t.Errorf("missing kind must be dropped, not requeued: %v", err)
	}
	if len(store.saved) != 0 {
		t.Errorf("anonymous messages were saved: %v", store.saved)
	}
}

func TestHandleReturnsStoreErrorForRedelivery(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	w := NewSnapshotWorker(store, testLogger())

	err := w.Handle(context.Background(), amqp.NewSnapshotMessage("alice", "expenseTracker", []byte(`[]`)))
	if err == nil {
		t.Fatal("expected error so the message is redelivered")
	}
}
