package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/troupehq/troupe/pkg/health"
	"github.com/troupehq/troupe/pkg/logger"
)

// Server timeouts are fixed rather than configurable; services that need
// different ones are rare enough to fork the runtime.
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// App is a fully wired application: the chi router with every route
// registered, roles resolved and composed, and handlers installed. It is
// immutable once New returns.
//
// Role resolution and composition happen once, inside New(), while
// controllers declare their routes. A role name that resolves to nothing
// panics there: misconfigured roles abort startup rather than surfacing
// on the first request.
type App struct {
	router                  chi.Router
	errorHandler            ErrorHandler
	notFoundHandler         HandlerFunc
	methodNotAllowedHandler HandlerFunc
	healthConfig            *healthConfig
	logger                  *slog.Logger
	registry                *RoleRegistry
	resolver                *RoleResolver
	composer                *Composer
	namespace               string
	rolePrefixes            []string
	middlewares             []Middleware
	controllers             []Controller
	staticRoutes            []staticRoute
}

// staticRoute is a pattern plus the file handler mounted there.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New wires an App from options and registers every controller route.
//
// Example:
//
//	reg := internal.NewRoleRegistry()
//	reg.MustRegister("myapp.role.Auth", authRole)
//
//	app := internal.New(
//	    internal.WithNamespace("myapp"),
//	    internal.WithRoleRegistry(reg),
//	    internal.WithControllers(
//	        controllers.NewBilling(repo),
//	        controllers.NewPages(repo),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:   chi.NewRouter(),
		logger:   logger.NewNope(), // Default: noop logger (before options)
		registry: NewRoleRegistry(),
		composer: NewComposer(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.resolver = NewRoleResolver(a.registry, a.namespace, a.rolePrefixes...)

	a.setupRoutes()
	return a
}

// Router exposes the chi router so Run can mount apps by domain and tests
// can serve the app through httptest.
func (a *App) Router() chi.Router {
	return a.router
}

// Registry exposes the app's role registry.
func (a *App) Registry() *RoleRegistry {
	return a.registry
}

// Run serves this app on addr and blocks until shutdown. Multi-domain
// setups use the package-level Run instead.
//
// Example:
//
//	app := internal.New(
//	    internal.WithControllers(controllers.NewPages()),
//	)
//	err := app.Run(":8080", internal.Logger(slog))
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	return runServer(runtimeConfig{
		handler:         a.router,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// setupRoutes installs everything onto chi. Error handlers, static
// mounts, and health endpoints are framework plumbing registered directly
// on the router; role composition never touches them.
func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}
	if a.methodNotAllowedHandler != nil {
		a.router.MethodNotAllowed(a.wrapHandler(a.methodNotAllowedHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	for _, sr := range a.staticRoutes {
		a.router.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks))
	}

	// Register controllers. Controller-level roles (RoleCarrier), when
	// present, ride along on the adapter and apply to every declared route.
	for _, ct := range a.controllers {
		adapter := &routerAdapter{router: a.router, app: a}
		if rc, ok := ct.(RoleCarrier); ok {
			adapter.ctrlRoles = rc.ActionRoles()
		}
		ct.Routes(adapter)
	}
}

// wrapHandler adapts a HandlerFunc for direct chi registration, with
// errors routed through handleError.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError renders err unless a response already went out.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		_ = a.errorHandler(c, err)
		return
	}
	// Errors carrying a status code (HTTPError, role errors) render as-is.
	if sc, ok := err.(interface{ StatusCode() int }); ok {
		http.Error(c.Response(), err.Error(), sc.StatusCode())
		return
	}
	http.Error(c.Response(), "Internal Server Error", http.StatusInternalServerError)
}

// healthConfig collects the probe paths and readiness checks.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption tunes the health probe endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath moves the liveness endpoint off /health/live.
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath moves the readiness endpoint off /health/ready.
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck registers a named dependency check; all checks run
// in parallel on each readiness probe.
//
// Example:
//
//	internal.WithReadinessCheck("redis", redis.Healthcheck(client))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
