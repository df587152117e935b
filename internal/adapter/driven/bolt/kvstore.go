// Package bolt implements the KeyValueStore port on a bbolt database file.
package bolt

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// bucketSlots holds one key per slot; the value is the slot text.
const bucketSlots = "slots"

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*KVStore)(nil)

// KVStore is the bbolt implementation of the KeyValueStore port interface.
type KVStore struct {
	storage *bbolt.DB
}

// Open opens (or creates) the bbolt file at path and ensures the slots bucket exists.
func Open(path string) (*KVStore, error) {
	instance, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	if err := instance.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSlots))
		return err
	}); err != nil {
		_ = instance.Close()
		return nil, fmt.Errorf("create bucket %s: %w", bucketSlots, err)
	}

	return &KVStore{storage: instance}, nil
}

// Close closes the database file.
func (s *KVStore) Close() error {
	return s.storage.Close()
}

// Get returns the value stored under key. Returns ("", false, nil) if the
// slot has never been written.
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var (
		value string
		ok    bool
	)

	err := s.storage.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(bucketSlots)).Get([]byte(key))
		if raw == nil {
			return nil
		}
		// raw is only valid inside the transaction; string() copies it.
		value, ok = string(raw), true
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("get slot %s: %w", key, err)
	}

	return value, ok, nil
}

// Set stores value under key, replacing any previous value.
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.storage.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSlots)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set slot %s: %w", key, err)
	}

	return nil
}
