package ports

import (
	"context"
	"time"
)

// ResultCache stores transformed text keyed by a digest of the input and
// rule string.
type ResultCache interface {
	// Get returns the cached value.
	// Returns domain.ErrCacheMiss if the key is absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value. A zero ttl uses the backend default.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
