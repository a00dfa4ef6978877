// Package storage persists per-user snapshot payloads in a local SQLite
// database. The snapshot cache is a same-device fallback copy of form
// state, never the source of truth; the document backend is.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNoSnapshot is returned when no snapshot exists for (user, kind).
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotRepository stores the most recent snapshot per (user, kind).
type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(dbPath string) (*SnapshotRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SnapshotRepository{db: db}, nil
}

func (r *SnapshotRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveSnapshot upserts the snapshot payload, replacing any older one.
func (r *SnapshotRepository) SaveSnapshot(ctx context.Context, userID, kind string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (user_id, kind, payload, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, kind) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, userID, kind, string(payload), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %s/%s: %w", userID, kind, err)
	}
	return nil
}

// LoadSnapshot returns the stored payload, or ErrNoSnapshot.
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, userID, kind string) ([]byte, error) {
	var payload string
	err := r.db.QueryRowContext(ctx, `
		SELECT payload FROM snapshots WHERE user_id = ? AND kind = ?
	`, userID, kind).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s/%s: %w", userID, kind, err)
	}
	return []byte(payload), nil
}

// DeleteSnapshots removes every snapshot belonging to a user, used on
// sign-out.
func (r *SnapshotRepository) DeleteSnapshots(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete snapshots for %s: %w", userID, err)
	}
	return nil
}
