// Package cache stores computed layouts and rendered artifacts.
//
// Entries are opaque byte slices under string keys. Keys come from a
// [Keyer], which hashes everything that influences the cached value, so
// callers never invalidate entries explicitly: a changed block, constant
// set or render option simply produces a different key.
//
// Backends:
//   - [FileCache]: one file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP server
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a key-value store with per-entry expiry.
type Cache interface {
	// Get returns the entry under key. Misses and expired entries report
	// ok == false without an error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default lifetimes. Layouts depend only on their key, so they live long;
// artifacts are cheap to rebuild from a cached layout.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// DefaultDir returns ~/.cache/blockrender, honouring XDG_CACHE_HOME.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "blockrender"), nil
}
