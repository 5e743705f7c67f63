package roles_test

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/troupehq/troupe/internal"
	"github.com/troupehq/troupe/pkg/logger"
)

// testContext is a minimal internal.Context for exercising roles without
// a full app. The stash also lands in the request context so extractors
// see it.
type testContext struct {
	writer *internal.ResponseWriter
	req    *http.Request
	logger *slog.Logger
	values map[any]any
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{
		writer: internal.NewResponseWriter(w),
		req:    r,
		logger: logger.NewNope(),
		values: make(map[any]any),
	}
}

func (c *testContext) Request() *http.Request { return c.req }
func (c *testContext) Response() http.ResponseWriter { return c.writer }
func (c *testContext) Context() context.Context { return c.req.Context() }

func (c *testContext) Deadline() (time.Time, bool) { return c.req.Context().Deadline() }
func (c *testContext) Done() <-chan struct{} { return c.req.Context().Done() }
func (c *testContext) Err() error { return c.req.Context().Err() }
func (c *testContext) Value(key any) any { return c.req.Context().Value(key) }

func (c *testContext) Param(name string) string { return "" }

func (c *testContext) Query(name string) string {
	return c.req.URL.Query().Get(name)
}

func (c *testContext) QueryDefault(name, defaultValue string) string {
	v := c.req.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *testContext) Form(name string) string { return c.req.FormValue(name) }
func (c *testContext) Header(name string) string { return c.req.Header.Get(name) }
func (c *testContext) SetHeader(name, value string) { c.writer.Header().Set(name, value) }

func (c *testContext) JSON(code int, v any) error { c.writer.WriteHeader(code); return nil }

func (c *testContext) String(code int, s string) error {
	c.writer.WriteHeader(code)
	_, err := c.writer.Write([]byte(s))
	return err
}

func (c *testContext) NoContent(code int) error { c.writer.WriteHeader(code); return nil }

func (c *testContext) Redirect(code int, url string) error {
	http.Redirect(c.writer, c.req, url, code)
	return nil
}

func (c *testContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	err := internal.NewHTTPError(code, message)
	for _, opt := range opts {
		opt(err)
	}
	return err
}

func (c *testContext) Written() bool { return c.writer.Written() }
func (c *testContext) Logger() *slog.Logger { return c.logger }
func (c *testContext) LogDebug(msg string, attrs ...any) {}
func (c *testContext) LogInfo(msg string, attrs ...any) {}
func (c *testContext) LogWarn(msg string, attrs ...any) {}
func (c *testContext) LogError(msg string, attrs ...any) {}

func (c *testContext) Set(key, value any) {
	c.values[key] = value
	ctx := context.WithValue(c.req.Context(), key, value)
	c.req = c.req.WithContext(ctx)
}

func (c *testContext) Get(key any) any {
	return c.values[key]
}

func (c *testContext) ResponseWriter() *internal.ResponseWriter { return c.writer }
