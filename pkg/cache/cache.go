// Package cache stores rendered network diagrams keyed by plan content.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// All backends implement [Cache]. Keys are built by a [Keyer]; the value is
// opaque bytes. Analysis results themselves are never cached: they are cheap
// to recompute and a schedule is not persisted between runs.
package cache

import (
	"context"
	"time"
)

// TTLArtifact is how long rendered diagrams stay cached.
const TTLArtifact = 7 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
