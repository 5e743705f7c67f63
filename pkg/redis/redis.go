// Package redis opens go-redis clients from a connection URL and plugs them
// into an application's readiness checks and shutdown hooks. It exists so a
// service wiring a Redis-backed throttle cache does not repeat the same
// ParseURL / retry / ping boilerplate in every main.
//
//	client, err := redis.Open(ctx, os.Getenv("REDIS_URL"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = app.Run(":8080",
//	    troupe.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	    troupe.ShutdownHook(redis.Shutdown(client)),
//	)
package redis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrConnectionFailed wraps the last ping error after all attempts.
	ErrConnectionFailed = errors.New("redis: connect failed")

	// ErrHealthcheckFailed wraps ping errors from Healthcheck.
	ErrHealthcheckFailed = errors.New("redis: healthcheck failed")
)

type config struct {
	poolSize int
	minIdle  int
	attempts int
	backoff  time.Duration
}

// Option configures Open.
type Option func(*config)

// WithPoolSize caps the connection pool. Default 10.
func WithPoolSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.poolSize = n
		}
	}
}

// WithMinIdleConns keeps at least n idle connections warm. Default 5.
func WithMinIdleConns(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minIdle = n
		}
	}
}

// WithRetry sets how many connection attempts Open makes and the base
// backoff between them. The backoff grows linearly per attempt.
// Default 3 attempts, 5s base.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *config) {
		if attempts > 0 {
			c.attempts = attempts
		}
		if backoff > 0 {
			c.backoff = backoff
		}
	}
}

// Open connects to the Redis instance described by url (redis:// or
// rediss://) and verifies the connection with a ping, retrying per the
// configured attempts. The returned client is ready for use.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	cfg := config{
		poolSize: 10,
		minIdle:  5,
		attempts: 3,
		backoff:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	parsed, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: parse url: %w", err)
	}
	parsed.PoolSize = cfg.poolSize
	parsed.MinIdleConns = cfg.minIdle

	var lastErr error
	for attempt := 1; attempt <= cfg.attempts; attempt++ {
		client := redis.NewClient(parsed)
		if err := client.Ping(ctx).Err(); err == nil {
			return client, nil
		} else {
			lastErr = err
		}
		_ = client.Close()

		if attempt == cfg.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrConnectionFailed, ctx.Err())
		case <-time.After(time.Duration(attempt) * cfg.backoff):
		}
	}

	return nil, errors.Join(ErrConnectionFailed, lastErr)
}

// Healthcheck adapts a client into a readiness check function.
func Healthcheck(client redis.UniversalClient) func(context.Context) error {
	return func(ctx context.Context) error {
		if client == nil {
			return ErrHealthcheckFailed
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}

// Shutdown adapts a client into a shutdown hook for troupe.ShutdownHook.
func Shutdown(client io.Closer) func(context.Context) error {
	return func(context.Context) error {
		return client.Close()
	}
}
