package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Cache backed by a Redis client. Values are stored as JSON, so V
// must round-trip through encoding/json. The client is shared with the
// caller; Close does not close it.
type Redis[V any] struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

// RedisOption configures NewRedis.
type RedisOption func(*Redis[any])

// WithPrefix namespaces all keys with prefix + ":". Use it when several
// caches share one Redis database.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis[any]) {
		r.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the TTL applied when Set is called with ttl == 0.
// The initial default is one hour.
func WithRedisDefaultTTL(ttl time.Duration) RedisOption {
	return func(r *Redis[any]) {
		if ttl > 0 {
			r.defaultTTL = ttl
		}
	}
}

// NewRedis creates a Redis-backed cache on top of an existing client.
func NewRedis[V any](client redis.UniversalClient, opts ...RedisOption) *Redis[V] {
	cfg := Redis[any]{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Redis[V]{
		client:     client,
		prefix:     cfg.prefix,
		defaultTTL: cfg.defaultTTL,
	}
}

func (r *Redis[V]) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

// Get implements Cache.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, ErrNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("cache: redis get %q: %w", key, err)
	}

	var v V
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return v, nil
}

// Set implements Cache.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %q: %w", key, err)
	}

	if ttl == 0 {
		ttl = r.defaultTTL
	}
	if ttl < 0 {
		// redis treats 0 as "no expiration".
		ttl = 0
	}
	if err := r.client.Set(ctx, r.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("cache: redis set %q: %w", key, err)
	}
	return nil
}

// Delete implements Cache.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("cache: redis del %q: %w", key, err)
	}
	return nil
}

// Close implements Cache. The underlying client stays open: it belongs to
// the caller, who may share it with other components.
func (r *Redis[V]) Close() error {
	return nil
}
