// Package cache provides a small typed cache with in-memory and Redis
// backends. The Throttle role keeps per-client request counters in it and the
// health package uses it to dedupe readiness probes; anything else that needs
// a TTL'd key/value store can reuse the same interface.
//
// TTL semantics are shared by all backends: a positive ttl expires the entry
// after that duration, ttl == 0 falls back to the store's default, and a
// negative ttl pins the entry until it is deleted or evicted.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrNotFound is returned by Get when the key is absent or expired.
var ErrNotFound = errors.New("cache: key not found")

// Cache is a typed key/value store with per-entry TTLs.
type Cache[V any] interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (V, error)

	// Set stores value under key. See the package doc for ttl semantics.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources. The cache must not be used after.
	Close() error
}

// loaders collapses concurrent GetOrSet calls for the same key into a single
// loader invocation. Keys are shared process-wide, so two caches using the
// same key string dedupe against each other as well; callers that need
// isolation should prefix their keys.
var loaders singleflight.Group

// GetOrSet returns the cached value for key, loading and storing it on a
// miss. Concurrent callers missing on the same key share one loader call.
// Failing to store the loaded value is not fatal: the value is still
// returned, the next miss just loads again.
func GetOrSet[V any](ctx context.Context, c Cache[V], key string, ttl time.Duration, load func(ctx context.Context) (V, error)) (V, error) {
	if v, err := c.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		var zero V
		return zero, err
	}

	res, err, _ := loaders.Do(key, func() (any, error) {
		if v, err := c.Get(ctx, key); err == nil {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, key, v, ttl)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	v, ok := res.(V)
	if !ok {
		var zero V
		return zero, fmt.Errorf("cache: unexpected value type %T for key %q", res, key)
	}
	return v, nil
}
