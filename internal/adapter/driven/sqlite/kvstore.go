package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*KVStore)(nil)

// KVStore is the SQLite implementation of the KeyValueStore port interface.
// Each slot is one row of the kv_store table.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new KVStore backed by the given DB.
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the value stored under key. Returns ("", false, nil) if the
// slot has never been written.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT value FROM kv_store WHERE key = ?`

	var value string
	err := s.db.Reader.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get slot %s: %w", key, err)
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	const query = `
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	updatedAt := time.Now().UTC().Format(time.RFC3339)

	if _, err := s.db.Writer.ExecContext(ctx, query, key, value, updatedAt); err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}

	return nil
}
