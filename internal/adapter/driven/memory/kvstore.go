// Package memory implements the KeyValueStore port in process memory. Nothing
// survives a restart; it backs the "memory" storage driver and tests.
package memory

import (
	"context"
	"sync"

	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.KeyValueStore = (*KVStore)(nil)

// KVStore is a mutex-protected map of slots.
type KVStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewKVStore creates an empty KVStore.
func NewKVStore() *KVStore {
	return &KVStore{slots: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]
	return value, ok, nil
}

// Set stores value under key.
func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[key] = value
	return nil
}
