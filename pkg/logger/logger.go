// Package logger builds slog loggers for troupe applications.
//
// Loggers produced here inject request-scoped attributes at log time via
// [ContextExtractor] functions, so values stashed by action roles (request
// IDs, tenant IDs) show up on every log line without threading them
// through call sites:
//
//	log := logger.New(roles.RequestIDExtractor())
//	log.InfoContext(ctx, "order created") // carries request_id
//
// [NewWithSentry] layers a Sentry handler on top for error reporting.
package logger

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
)

// ContextExtractor pulls one attribute out of a context at log time.
// Returning false skips the attribute for that record.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New returns a JSON logger writing to stdout at info level.
// Extractors run once per record against the record's context.
func New(extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(withExtractors(h, extractors))
}

// NewNope returns a logger that discards everything. It is the App's
// default so that logging is opt-in.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
}

// withExtractors wraps h so every record passes through the extractors.
// Nil extractors are dropped here rather than checked per record.
func withExtractors(h slog.Handler, extractors []ContextExtractor) slog.Handler {
	kept := make([]ContextExtractor, 0, len(extractors))
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return h
	}
	return &contextHandler{next: h, extractors: kept}
}

// contextHandler injects context-derived attributes into each record
// before delegating. Extraction happens per call: the same logger sees
// different request IDs on different requests.
type contextHandler struct {
	next       slog.Handler
	extractors []ContextExtractor
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, ex := range h.extractors {
		if attr, ok := ex(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.next.Handle(ctx, rec)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{next: h.next.WithAttrs(attrs), extractors: h.extractors}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{next: h.next.WithGroup(name), extractors: h.extractors}
}
