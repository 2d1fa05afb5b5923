package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates the requested key has no stored value. Callers must
// distinguish an absent key from an empty value.
var ErrNotFound = errors.New("key not found")

// Store is a string-keyed persistence adapter. Backends are swappable so
// anything built on top can run against Redis in production and the in-memory
// implementation in tests.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes a value. A zero ttl means the value does not expire.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}
