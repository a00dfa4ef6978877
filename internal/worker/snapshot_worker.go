// Package worker mirrors published collection snapshots into the local
// SQLite fallback cache.
package worker

import (
	"context"
	"fmt"

	"bizhub/internal/amqp"
	"bizhub/internal/log"
)

// SnapshotStore is the persistence side of the worker. Implemented by
// storage.SnapshotRepository.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, userID, kind string, payload []byte) error
}

// SnapshotWorker consumes snapshot messages and writes each one through
// to the store. Later messages for the same (user, kind) overwrite
// earlier ones, so replays and duplicates are harmless.
type SnapshotWorker struct {
	store  SnapshotStore
	logger *log.Logger
}

func NewSnapshotWorker(store SnapshotStore, logger *log.Logger) *SnapshotWorker {
	return &SnapshotWorker{
		store:  store,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// Handle persists one snapshot message. Messages missing an identity are
// dropped: requeueing them can never succeed. Store errors are returned
// so the message is redelivered.
func (w *SnapshotWorker) Handle(ctx context.Context, msg *amqp.SnapshotMessage) error {
	if msg.UserID == "" || msg.Kind == "" {
		w.logger.WarnContext(ctx, "dropping snapshot without identity",
			log.FieldUserID, msg.UserID,
			log.FieldRecordKind, msg.Kind)
		return nil
	}

	if err := w.store.SaveSnapshot(ctx, msg.UserID, msg.Kind, msg.Payload); err != nil {
		return fmt.Errorf("save snapshot %s/%s: %w", msg.UserID, msg.Kind, err)
	}

	w.logger.InfoContext(ctx, "snapshot mirrored",
		log.FieldOperation, log.OpSnapshot,
		log.FieldUserID, msg.UserID,
		log.FieldRecordKind, msg.Kind,
		"payload_bytes", len(msg.Payload))
	return nil
}

// Run consumes from the client until the context is cancelled.
func (w *SnapshotWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeSnapshots(ctx, func(msg *amqp.SnapshotMessage) error {
		return w.Handle(ctx, msg)
	})
}
