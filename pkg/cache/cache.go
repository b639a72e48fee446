// Package cache stores rendered artifacts between CLI runs.
//
// Converting SVG to PNG or PDF shells out to rsvg-convert and laying out a
// nodelink export runs Graphviz; both are deterministic in their input, so
// the CLI keys results by a content hash and skips the work on a hit.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.Key("artifact", "png", 2.0, cache.Hash(svg))
//	if data, ok, _ := c.Get(ctx, key); ok { ... }
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key. Missing and expired entries are a
	// miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Key builds a cache key from a prefix and the JSON encoding of parts.
// The format is prefix:sha256hex.
func Key(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}

// Hash computes a SHA-256 hash of data as 64 hex characters.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
