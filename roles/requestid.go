package roles

import (
	"context"
	"log/slog"

	"github.com/troupehq/troupe/internal"
	"github.com/troupehq/troupe/pkg/id"
	"github.com/troupehq/troupe/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are tried in order for an ID set by an upstream
// proxy or gateway before a fresh one is generated.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestIDConfig configures the RequestID role.
type RequestIDConfig struct {
	Generator      func() string
	ResponseHeader string
	Headers        []string
}

// RequestIDOption configures RequestIDConfig.
type RequestIDOption func(*RequestIDConfig)

// WithRequestIDHeaders replaces the inbound headers checked for an
// existing ID.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Headers = headers
	}
}

// WithRequestIDGenerator replaces the ULID generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.Generator = gen
	}
}

// WithRequestIDResponseHeader renames the response header carrying the ID.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *RequestIDConfig) {
		cfg.ResponseHeader = header
	}
}

// RequestID tags every request with a correlation ID: reused from an inbound
// header when present so distributed traces stay connected, generated as a
// ULID otherwise. The ID goes into the request stash (GetRequestID) and onto
// the response as X-Request-ID.
func RequestID(opts ...RequestIDOption) internal.Role {
	cfg := &RequestIDConfig{
		Headers:        DefaultRequestIDHeaders,
		Generator:      id.NewULID,
		ResponseHeader: "X-Request-ID",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			reqID := inboundID(c, cfg.Headers)
			if reqID == "" {
				reqID = cfg.Generator()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader(cfg.ResponseHeader, reqID)
			return next(c)
		}
	}
}

func inboundID(c internal.Context, headers []string) string {
	for _, h := range headers {
		if v := c.Header(h); v != "" {
			return v
		}
	}
	return ""
}

// GetRequestID reads the tagged ID back out of the stash, "" when the
// RequestID role did not run.
func GetRequestID(c internal.Context) string {
	v, _ := c.Get(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor adapts the stashed ID for logger.New, adding a
// request_id attribute to every log line written under the request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
