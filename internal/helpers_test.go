package internal_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/troupehq/troupe/internal"
)

type paramContext struct {
	params  map[string]string
	request *http.Request
	values  map[any]any
}

func newParamContext(params map[string]string, queryString string) *paramContext {
	url := "/"
	if queryString != "" {
		url = "/?" + queryString
	}
	return &paramContext{
		params:  params,
		request: httptest.NewRequest(http.MethodGet, url, nil),
		values:  make(map[any]any),
	}
}

func (c *paramContext) Param(name string) string             { return c.params[name] }
func (c *paramContext) Query(name string) string             { return c.request.URL.Query().Get(name) }
func (c *paramContext) QueryDefault(name, def string) string { return "" }
func (c *paramContext) Form(name string) string              { return c.request.FormValue(name) }
func (c *paramContext) Request() *http.Request               { return c.request }
func (c *paramContext) Response() http.ResponseWriter        { return httptest.NewRecorder() }
func (c *paramContext) Context() context.Context             { return c.request.Context() }
func (c *paramContext) Deadline() (time.Time, bool)          { return c.request.Context().Deadline() }
func (c *paramContext) Done() <-chan struct{}                { return c.request.Context().Done() }
func (c *paramContext) Err() error                           { return c.request.Context().Err() }
func (c *paramContext) Value(key any) any                    { return c.request.Context().Value(key) }
func (c *paramContext) Header(name string) string            { return "" }
func (c *paramContext) SetHeader(name, value string)         {}
func (c *paramContext) JSON(code int, v any) error           { return nil }
func (c *paramContext) String(code int, s string) error      { return nil }
func (c *paramContext) NoContent(code int) error             { return nil }
func (c *paramContext) Redirect(code int, url string) error  { return nil }
func (c *paramContext) Written() bool                        { return false }
func (c *paramContext) Logger() *slog.Logger                 { return slog.Default() }
func (c *paramContext) LogDebug(msg string, attrs ...any)    {}
func (c *paramContext) LogInfo(msg string, attrs ...any)     {}
func (c *paramContext) LogWarn(msg string, attrs ...any)     {}
func (c *paramContext) LogError(msg string, attrs ...any)    {}
func (c *paramContext) Set(key, value any)                   { c.values[key] = value }
func (c *paramContext) Get(key any) any                      { return c.values[key] }
func (c *paramContext) ResponseWriter() *internal.ResponseWriter {
	return internal.NewResponseWriter(httptest.NewRecorder())
}

func (c *paramContext) Error(code int, message string, opts ...internal.HTTPErrorOption) *internal.HTTPError {
	return internal.NewHTTPError(code, message)
}

func TestContextValue(t *testing.T) {
	t.Parallel()

	type key struct{}

	t.Run("returns stored value", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "")
		c.Set(key{}, "stored")
		require.Equal(t, "stored", internal.ContextValue[string](c, key{}))
	})

	t.Run("returns zero value on miss", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "")
		require.Empty(t, internal.ContextValue[string](c, key{}))
		require.Zero(t, internal.ContextValue[int](c, key{}))
	})

	t.Run("returns zero value on type mismatch", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "")
		c.Set(key{}, 42)
		require.Empty(t, internal.ContextValue[string](c, key{}))
	})
}

func TestParam(t *testing.T) {
	t.Parallel()

	t.Run("typed conversions", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(map[string]string{
			"id":     "42",
			"name":   "alice",
			"ratio":  "1.5",
			"active": "true",
		}, "")

		require.Equal(t, 42, internal.Param[int](c, "id"))
		require.Equal(t, int64(42), internal.Param[int64](c, "id"))
		require.Equal(t, "alice", internal.Param[string](c, "name"))
		require.Equal(t, 1.5, internal.Param[float64](c, "ratio"))
		require.True(t, internal.Param[bool](c, "active"))
	})

	t.Run("invalid value yields zero", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(map[string]string{"id": "not-a-number"}, "")
		require.Zero(t, internal.Param[int](c, "id"))
	})

	t.Run("missing param yields zero", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "")
		require.Zero(t, internal.Param[int](c, "id"))
		require.Empty(t, internal.Param[string](c, "id"))
	})
}

func TestQuery(t *testing.T) {
	t.Parallel()

	c := newParamContext(nil, "page=3&sort=desc&exact=false")
	require.Equal(t, 3, internal.Query[int](c, "page"))
	require.Equal(t, "desc", internal.Query[string](c, "sort"))
	require.False(t, internal.Query[bool](c, "exact"))
	require.Zero(t, internal.Query[int](c, "missing"))
}

func TestQueryDefault(t *testing.T) {
	t.Parallel()

	t.Run("present value wins", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "limit=25")
		require.Equal(t, 25, internal.QueryDefault(c, "limit", 10))
	})

	t.Run("missing value falls back", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "")
		require.Equal(t, 10, internal.QueryDefault(c, "limit", 10))
	})

	t.Run("unparsable value falls back", func(t *testing.T) {
		t.Parallel()
		c := newParamContext(nil, "limit=lots")
		require.Equal(t, 10, internal.QueryDefault(c, "limit", 10))
	})
}
