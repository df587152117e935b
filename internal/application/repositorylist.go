package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/githubexplorer/internal/domain/model"
	"github.com/ericfisherdev/githubexplorer/internal/domain/port/driven"
)

// StorageKey is the slot the repository list is persisted under.
const StorageKey = "@GithubExplorer"

// storedRepository is the persisted form of a RepositoryRecord. Field names
// follow the GitHub API response the record was mapped from.
type storedRepository struct {
	FullName    string      `json:"full_name"`
	Description string      `json:"description"`
	Owner       storedOwner `json:"owner"`
}

type storedOwner struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url"`
}

// RepositoryList is the ordered, append-only list of found repositories,
// mirrored to a single KeyValueStore slot. The slot always holds the JSON
// serialization of the in-memory sequence.
type RepositoryList struct {
	mu      sync.RWMutex
	store   driven.KeyValueStore
	records []model.RepositoryRecord
	logger  *slog.Logger
}

// LoadRepositoryList reads the StorageKey slot once and returns the list it
// holds. An empty slot yields an empty list. A slot that cannot be decoded is
// logged and treated as empty; the next Append overwrites it. Only a failure
// to read the store is returned.
func LoadRepositoryList(ctx context.Context, store driven.KeyValueStore, logger *slog.Logger) (*RepositoryList, error) {
	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load repository list: %w", err)
	}

	list := &RepositoryList{
		store:   store,
		records: []model.RepositoryRecord{},
		logger:  logger,
	}

	if !ok {
		return list, nil
	}

	records, err := decodeRecords(raw)
	if err != nil {
		logger.Warn("discarding unreadable repository list",
			"key", StorageKey,
			"error", err,
		)
		return list, nil
	}

	list.records = records
	logger.Debug("repository list loaded", "count", len(records))

	return list, nil
}

// All returns a copy of the current sequence in insertion order.
func (l *RepositoryList) All() []model.RepositoryRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.records)
}

// Len returns the number of records in the list.
func (l *RepositoryList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.records)
}

// Append adds record at the end of the list and rewrites the storage slot.
// Duplicates are allowed. The in-memory list only changes once the write has
// succeeded; on failure it returns an error wrapping ErrPersistFailed.
func (l *RepositoryList) Append(ctx context.Context, record model.RepositoryRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]model.RepositoryRecord, len(l.records), len(l.records)+1)
	copy(next, l.records)
	next = append(next, record)

	raw, err := encodeRecords(next)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	if err := l.store.Set(ctx, StorageKey, raw); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}

	l.records = next
	return nil
}

func encodeRecords(records []model.RepositoryRecord) (string, error) {
	stored := make([]storedRepository, 0, len(records))
	for _, r := range records {
		stored = append(stored, storedRepository{
			FullName:    r.FullName,
			Description: r.Description,
			Owner: storedOwner{
				Login:     r.Owner.Login,
				AvatarURL: r.Owner.AvatarURL,
			},
		})
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return "", fmt.Errorf("encode repository list: %w", err)
	}

	return string(data), nil
}

func decodeRecords(raw string) ([]model.RepositoryRecord, error) {
	var stored []storedRepository
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode repository list: %w", err)
	}

	records := make([]model.RepositoryRecord, 0, len(stored))
	for _, s := range stored {
		records = append(records, model.RepositoryRecord{
			FullName:    s.FullName,
			Description: s.Description,
			Owner: model.RepositoryOwner{
				Login:     s.Owner.Login,
				AvatarURL: s.Owner.AvatarURL,
			},
		})
	}

	return records, nil
}
