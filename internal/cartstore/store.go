package cartstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no value in the store.
var ErrNotFound = errors.New("cartstore: key not found")

// Store is the persistence contract for guest cart state. The durable copy
// is a key→JSON-string map; local and remote implementations share the same
// asynchronous contract so engine code is agnostic to where the data lives.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Del(ctx context.Context, keys ...string) error
}
