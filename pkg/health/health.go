// Package health serves liveness and readiness endpoints as plain
// http.HandlerFunc values, so they work with chi or any other router.
//
// Liveness answers 200 as long as the process can serve HTTP. Readiness runs
// a set of named dependency checks (any func(context.Context) error, such as
// redis.Healthcheck) and answers 503 when one fails. Probes get plain text by
// default; an Accept: application/json header or ?format=json switches the
// body to a per-check breakdown:
//
//	{"status":"unhealthy","checks":{"redis":{"status":"unhealthy","error":"connection refused"}}}
//
// Aggressive probe intervals can hammer dependencies; WithCacheTTL serves a
// cached verdict for a short window and collapses concurrent probes into a
// single check run.
package health

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/troupehq/troupe/pkg/cache"
)

// Check statuses as reported in JSON responses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc reports whether a single dependency is usable. A nil error means
// healthy. The context carries the readiness deadline.
type CheckFunc func(ctx context.Context) error

// Checks maps dependency names to their check functions.
type Checks map[string]CheckFunc

// Response is the JSON body of a readiness (or liveness) endpoint.
type Response struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is one dependency's verdict inside a Response.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type config struct {
	timeout  time.Duration
	logger   *slog.Logger
	cacheTTL time.Duration
}

// Option configures ReadinessHandler.
type Option func(*config)

// WithTimeout bounds one readiness pass across all checks. Default 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks at warn level. Failures are silent without it.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithCacheTTL reuses a readiness verdict for ttl instead of re-running the
// checks on every probe. Concurrent probes during a miss share a single run.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *config) {
		if ttl > 0 {
			c.cacheTTL = ttl
		}
	}
}

// LivenessHandler responds 200 unconditionally.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeVerdict(w, r, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler runs checks on every request (or per cache window, with
// WithCacheTTL) and responds 200 when all pass, 503 otherwise.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	cfg := config{
		timeout: 5 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	run := func(ctx context.Context) *Response {
		return runChecks(ctx, checks, &cfg)
	}
	if cfg.cacheTTL > 0 {
		verdicts := cache.NewMemory[*Response](
			cache.WithDefaultTTL(cfg.cacheTTL),
			cache.WithCleanupInterval(cfg.cacheTTL),
		)
		run = func(ctx context.Context) *Response {
			resp, err := cache.GetOrSet(ctx, verdicts, "readiness", cfg.cacheTTL,
				func(ctx context.Context) (*Response, error) {
					return runChecks(ctx, checks, &cfg), nil
				})
			if err != nil {
				// Memory cache never errors here; fall back to a direct run.
				return runChecks(ctx, checks, &cfg)
			}
			return resp
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeVerdict(w, r, run(r.Context()))
	}
}

func runChecks(ctx context.Context, checks Checks, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	type verdict struct {
		name  string
		check Check
	}

	results := make(chan verdict, len(checks))
	var wg sync.WaitGroup
	for name, fn := range checks {
		name, fn := name, fn
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := verdict{name: name, check: Check{Status: StatusHealthy}}
			if err := fn(ctx); err != nil {
				v.check = Check{Status: StatusUnhealthy, Error: err.Error()}
				cfg.logger.WarnContext(ctx, "readiness check failed",
					slog.String("check", name),
					slog.Any("error", err),
				)
			}
			results <- v
		}()
	}
	wg.Wait()
	close(results)

	resp := &Response{
		Status: StatusHealthy,
		Checks: make(map[string]Check, len(checks)),
	}
	for v := range results {
		resp.Checks[v.name] = v.check
		if v.check.Status == StatusUnhealthy {
			resp.Status = StatusUnhealthy
		}
	}
	return resp
}

func writeVerdict(w http.ResponseWriter, r *http.Request, resp *Response) {
	status := http.StatusOK
	if resp.Status == StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte("OK"))
	} else {
		_, _ = w.Write([]byte("Service Unavailable"))
	}
}

// Probes default to plain text; humans and dashboards opt into JSON.
func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
