package troupe_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/troupehq/troupe"
	"github.com/troupehq/troupe/roles"
)

type userKey struct{}

// apiController is a small controller exercising the public surface:
// controller-level roles, route-level role names in all three forms, and
// the request stash.
type apiController struct {
	trace *[]string
}

func (ct *apiController) ActionRoles() []string {
	return []string{"+troupe.role.Recover"}
}

func (ct *apiController) Routes(r troupe.Router) {
	r.Route("/api", func(r troupe.Router) {
		r.GET("/me", ct.me, "~Auth")
		r.GET("/ping", ct.ping)
		r.GET("/panic", ct.boom)
	})
}

func (ct *apiController) me(c troupe.Context) error {
	user, _ := c.Get(userKey{}).(string)
	return c.String(http.StatusOK, "hello "+user)
}

func (ct *apiController) ping(c troupe.Context) error {
	*ct.trace = append(*ct.trace, "ping")
	return c.String(http.StatusOK, "pong")
}

func (ct *apiController) boom(c troupe.Context) error {
	panic("kaboom")
}

func newTestApp(t *testing.T, trace *[]string) *troupe.App {
	t.Helper()

	reg := troupe.NewRoleRegistry()
	roles.MustRegister(reg)
	reg.MustRegister("testapp.role.Auth", func(next troupe.HandlerFunc) troupe.HandlerFunc {
		return func(c troupe.Context) error {
			if c.Header("Authorization") == "" {
				return troupe.ErrUnauthorized("credentials required")
			}
			c.Set(userKey{}, c.Header("Authorization"))
			return next(c)
		}
	})

	return troupe.New(
		troupe.WithNamespace("testapp"),
		troupe.WithRoleRegistry(reg),
		troupe.WithControllers(&apiController{trace: trace}),
	)
}

func TestAppEndToEnd(t *testing.T) {
	t.Parallel()

	var trace []string
	srv := httptest.NewServer(newTestApp(t, &trace).Router())
	t.Cleanup(srv.Close)

	client := srv.Client()
	client.Timeout = 5 * time.Second

	t.Run("role rejects unauthenticated request", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/me")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("role stashes values for the handler", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "alice")

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := make([]byte, 64)
		n, _ := resp.Body.Read(body)
		require.Equal(t, "hello alice", string(body[:n]))
	})

	t.Run("controller role turns a panic into a 500", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/panic")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})

	t.Run("routes without role names serve unchanged", func(t *testing.T) {
		resp, err := client.Get(srv.URL + "/api/ping")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Equal(t, []string{"ping"}, trace)
	})
}

func TestNewPanicsOnUnknownRole(t *testing.T) {
	t.Parallel()

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		require.True(t, troupe.IsResolutionError(err))
		require.Contains(t, err.Error(), "testapp.role.Moo")
	}()

	troupe.New(
		troupe.WithNamespace("testapp"),
		troupe.WithControllers(badController{}),
	)
}

type badController struct{}

func (badController) Routes(r troupe.Router) {
	r.GET("/broken", func(c troupe.Context) error { return nil }, "~Moo")
}

func TestStockRolesViaFacade(t *testing.T) {
	t.Parallel()

	reg := troupe.NewRoleRegistry()
	roles.MustRegister(reg)

	resolver := troupe.NewRoleResolver(reg, "")
	resolved, err := resolver.Resolve([]string{"RequestID", "Throttle"})
	require.NoError(t, err)
	require.Equal(t, troupe.DefaultRolePrefix+"RequestID", resolved[0].Name)
	require.Equal(t, troupe.DefaultRolePrefix+"Throttle", resolved[1].Name)
}
