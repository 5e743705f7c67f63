package roles

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/troupehq/troupe/internal"
	"github.com/troupehq/troupe/pkg/cache"
)

// Default fixed-window throttle settings.
const (
	DefaultThrottleLimit  = 100
	DefaultThrottleWindow = time.Minute
)

// ThrottleKeyFunc derives the throttle bucket key for a request.
type ThrottleKeyFunc func(c internal.Context) string

// ThrottleConfig configures the Throttle role.
type ThrottleConfig struct {
	// Counters holds per-window request counts. Defaults to an in-memory
	// cache; pass a Redis-backed cache to share limits across instances.
	Counters cache.Cache[int64]

	// KeyFunc identifies the client. Defaults to the remote IP.
	KeyFunc ThrottleKeyFunc
}

// ThrottleOption configures ThrottleConfig.
type ThrottleOption func(*ThrottleConfig)

// WithThrottleCache sets the counter store.
// Use cache.NewRedis to enforce limits across multiple instances.
func WithThrottleCache(c cache.Cache[int64]) ThrottleOption {
	return func(cfg *ThrottleConfig) {
		if c != nil {
			cfg.Counters = c
		}
	}
}

// WithThrottleKeyFunc sets a custom client key function
// (e.g., keyed by authenticated user instead of remote IP).
func WithThrottleKeyFunc(fn ThrottleKeyFunc) ThrottleOption {
	return func(cfg *ThrottleConfig) {
		if fn != nil {
			cfg.KeyFunc = fn
		}
	}
}

// Throttle returns a role enforcing a fixed-window rate limit of limit
// requests per window per client key. Exhausting the window yields a
// ThrottleError, which the default error handler renders as 429.
//
// The count-then-set sequence is not atomic across instances; a burst
// racing the window boundary can exceed the limit by a few requests.
// Fixed-window throttling is a pressure valve, not an exact quota.
func Throttle(limit int64, window time.Duration, opts ...ThrottleOption) internal.Role {
	if limit <= 0 {
		limit = DefaultThrottleLimit
	}
	if window <= 0 {
		window = DefaultThrottleWindow
	}

	cfg := &ThrottleConfig{
		KeyFunc: remoteIPKey,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Counters == nil {
		cfg.Counters = cache.NewMemory[int64](
			cache.WithDefaultTTL(window),
			cache.WithCleanupInterval(window),
		)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			bucket := fmt.Sprintf("%s:%d", cfg.KeyFunc(c), time.Now().UnixNano()/int64(window))

			count, err := cfg.Counters.Get(c.Context(), bucket)
			if err != nil && !errors.Is(err, cache.ErrNotFound) {
				// Counter store failure must not take the route down.
				c.LogWarn("throttle counter unavailable", "error", err.Error())
				return next(c)
			}

			if count >= limit {
				return &ThrottleError{Limit: limit, Window: window}
			}

			if err := cfg.Counters.Set(c.Context(), bucket, count+1, window); err != nil {
				c.LogWarn("throttle counter unavailable", "error", err.Error())
			}

			return next(c)
		}
	}
}

// remoteIPKey extracts the client IP from the request's RemoteAddr.
func remoteIPKey(c internal.Context) string {
	host, _, err := net.SplitHostPort(c.Request().RemoteAddr)
	if err != nil {
		return c.Request().RemoteAddr
	}
	return host
}
