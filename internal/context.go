package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Context is what handlers and roles receive for each request. It bundles
// request access, response helpers, a per-request value stash, and logging.
// It also satisfies context.Context by delegating to the request context, so
// it can be handed straight to database calls and other stdlib-context APIs.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the response writer. Prefer the JSON/String/
	// NoContent helpers; use this for streaming or custom encodings.
	Response() http.ResponseWriter

	// ResponseWriter returns the decorated writer, exposing status, size,
	// and pre-write hooks to roles.
	ResponseWriter() *ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns a chi URL parameter, or "" when absent.
	Param(name string) string

	// Query returns a query parameter, or "" when absent.
	Query(name string) string

	// QueryDefault returns a query parameter, or fallback when absent.
	QueryDefault(name, fallback string) string

	// Form returns a form field, or "" when absent.
	Form(name string) string

	// Header returns a request header value.
	Header(name string) string

	// SetHeader sets a response header. It must be called before the
	// response is committed.
	SetHeader(name, value string)

	// JSON encodes v as the response body with the given status.
	JSON(code int, v any) error

	// String sends a plain-text body with the given status.
	String(code int, s string) error

	// NoContent sends only the status, no body.
	NoContent(code int) error

	// Redirect sends an HTTP redirect to url.
	Redirect(code int, url string) error

	// Error builds an HTTPError for the handler to return. It does not
	// write anything itself; the app's error handler renders it.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Written reports whether a response has been committed.
	Written() bool

	// Set stashes a request-scoped value. Roles use the stash to hand
	// values to later roles and the base handler; Get and
	// c.Context().Value(key) both see it.
	Set(key any, value any)

	// Get reads a stashed value, nil when absent.
	Get(key any) any

	// Logger returns the app logger.
	Logger() *slog.Logger

	// LogDebug, LogInfo, LogWarn, and LogError log through the app logger
	// with the request context attached.
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

type requestContext struct {
	req    *http.Request
	writer *ResponseWriter
	logger *slog.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	return &requestContext{
		req:    r,
		writer: NewResponseWriter(w),
		logger: app.logger,
	}
}

// context.Context delegation.

func (c *requestContext) Deadline() (time.Time, bool) { return c.req.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{} { return c.req.Context().Done() }
func (c *requestContext) Err() error { return c.req.Context().Err() }
func (c *requestContext) Value(key any) any { return c.req.Context().Value(key) }

// Request side.

func (c *requestContext) Request() *http.Request { return c.req }
func (c *requestContext) Context() context.Context { return c.req.Context() }
func (c *requestContext) Param(name string) string { return chi.URLParam(c.req, name) }
func (c *requestContext) Query(name string) string { return c.req.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string { return c.req.FormValue(name) }
func (c *requestContext) Header(name string) string { return c.req.Header.Get(name) }

func (c *requestContext) QueryDefault(name, fallback string) string {
	if v := c.req.URL.Query().Get(name); v != "" {
		return v
	}
	return fallback
}

// Response side.

func (c *requestContext) Response() http.ResponseWriter { return c.writer }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.writer }
func (c *requestContext) Written() bool { return c.writer.Written() }

func (c *requestContext) SetHeader(name, value string) {
	c.writer.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.writer.WriteHeader(code)
	return json.NewEncoder(c.writer).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.writer.WriteHeader(code)
	_, err := c.writer.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.writer.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.writer, c.req, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	err := NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

// Stash.

func (c *requestContext) Set(key, value any) {
	c.req = c.req.WithContext(context.WithValue(c.req.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.req.Context().Value(key)
}

// Logging.

func (c *requestContext) Logger() *slog.Logger { return c.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.req.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.req.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.req.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.req.Context(), msg, attrs...)
}
