package driven

import "context"

// KeyValueStore defines the driven port for durable text slots addressed by a
// fixed key. Set replaces the whole value of the slot.
type KeyValueStore interface {
	// Get returns the value stored under key. ok is false if the slot is empty.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}
