package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/troupehq/troupe/pkg/health"
	"github.com/troupehq/troupe/pkg/logger"
)

// Option configures New.
type Option func(*App)

// WithNamespace sets the application's role namespace. Roles owned by the
// application live under "<namespace>.role."; the "~" marker and the
// first entry of the search path both point there.
//
// Example:
//
//	internal.New(
//	    internal.WithNamespace("myapp"),
//	)
func WithNamespace(namespace string) Option {
	return func(a *App) {
		a.namespace = namespace
	}
}

// WithRoleRegistry sets the role registry used to resolve role names.
// Without this option the app starts with an empty registry, and any role
// declaration fails startup.
func WithRoleRegistry(reg *RoleRegistry) Option {
	return func(a *App) {
		if reg != nil {
			a.registry = reg
		}
	}
}

// WithRolePrefixes replaces the fallback search prefixes tried after the
// application's own prefix when resolving unprefixed role names. The
// default is just DefaultRolePrefix; include it explicitly if custom
// prefixes should still fall through to stock roles.
//
// Example:
//
//	internal.New(
//	    internal.WithRolePrefixes("shared.role.", internal.DefaultRolePrefix),
//	)
func WithRolePrefixes(prefixes ...string) Option {
	return func(a *App) {
		a.rolePrefixes = prefixes
	}
}

// WithMiddleware installs middleware on every route, outermost first in
// the given order. Global middleware sits outside role composition.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithControllers hands route declaration to the given controllers; New
// calls each Routes method while wiring the app.
func WithControllers(ct ...Controller) Option {
	return func(a *App) {
		a.controllers = append(a.controllers, ct...)
	}
}

// WithStaticFiles serves subDir of fsys under pattern with an hour of
// client caching. Directory listings 404. Static routes are framework
// plumbing: no role composition.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	internal.New(
//	    internal.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.FileServer(http.FS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler replaces the default rendering of handler errors.
//
// Example:
//
//	internal.WithErrorHandler(func(c internal.Context, err error) error {
//	    return c.JSON(http.StatusInternalServerError, map[string]string{
//	        "error": err.Error(),
//	    })
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler replaces the default 404 response.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithMethodNotAllowedHandler replaces the default 405 response.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.methodNotAllowedHandler = h
	}
}

// WithHealthChecks mounts the probe endpoints: liveness at /health/live
// answers 200 while the process serves, readiness at /health/ready runs
// the registered checks.
//
// Example:
//
//	internal.WithHealthChecks(
//	    internal.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
			checks:        make(health.Checks),
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger gives the app a JSON logger tagged with component, so one
// service's lines are filterable among many. Extractors add
// request-scoped attributes such as the request ID.
//
// Example:
//
//	internal.New(
//	    internal.WithLogger("api", requestIDExtractor),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger hands the app an externally built logger, bypassing
// the logger package entirely.
//
// Example:
//
//	customLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	internal.New(
//	    internal.WithCustomLogger(customLogger),
//	)
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}
