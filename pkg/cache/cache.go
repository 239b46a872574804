// Package cache stores rendered deck artifacts between runs.
//
// Keys are derived from content hashes (see [Keyer]), so an entry never goes
// stale: a changed gesture script or configuration produces a new key. The
// CLI uses [FileCache] under the XDG cache directory; [NullCache] disables
// caching (--no-cache) and backs the tests.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs.
const (
	TTLFrames   = 7 * 24 * time.Hour
	TTLArtifact = 30 * 24 * time.Hour
)

// keyType returns the namespace of a key ("frames", "artifact", ...) for
// metrics, skipping any scope prefix.
func keyType(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) < 2 {
		return "unknown"
	}
	return parts[len(parts)-2]
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
