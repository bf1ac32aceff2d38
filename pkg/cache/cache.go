// Package cache provides content-addressed caching for generation responses
// and rendered diagram artifacts.
//
// Two implementations are provided:
//   - MemoryCache: in-process storage for development, tests, and the CLI
//   - RedisCache: Redis-backed storage for multi-instance deployments
//
// Keys are built from content fingerprints (see [Hash], [GenerationKey],
// [ArtifactKey]) so identical inputs always resolve to the same entry,
// regardless of which instance computed them.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface shared by all implementations.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Implementations must treat corrupt or expired entries as misses rather
// than errors so that callers can always recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
