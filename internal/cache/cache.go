// Package cache provides a typed, invalidation-aware cache in front of the
// repository layer. Two backends satisfy the same interface: Redis for
// production and an in-process map for local development and tests,
// selected by config.Config.CacheBackend.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"
)

// Cache is the storage-agnostic surface the rest of the service depends on.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// InvalidatePattern deletes every key matching a "prefix:*" glob. Used
	// whenever a write needs to drop a whole family of derived keys, e.g.
	// every cached page of one employee's assignments.
	InvalidatePattern(ctx context.Context, pattern string) error

	Stats() Stats
	Health(ctx context.Context) error
	Close() error
}

// Stats tracks cumulative hit/miss counts for the metrics collector.
type Stats struct {
	Hits   int64
	Misses int64
}

type counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

func (c *counters) hit()  { c.hits.Add(1) }
func (c *counters) miss() { c.misses.Add(1) }

func (c *counters) snapshot() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func encode(value any) ([]byte, error) { return json.Marshal(value) }

func decode(data []byte, dest any) error { return json.Unmarshal(data, dest) }

// Get is a generic convenience wrapper around Cache.Get that avoids the
// caller having to declare a destination variable up front.
func Get[T any](ctx context.Context, c Cache, key string) (T, bool, error) {
	var v T
	found, err := c.Get(ctx, key, &v)
	return v, found, err
}
