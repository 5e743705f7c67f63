package troupe

import (
	"context"
	"io/fs"
	"log/slog"
	"time"

	"github.com/troupehq/troupe/internal"
	"github.com/troupehq/troupe/pkg/health"
	"github.com/troupehq/troupe/pkg/logger"
)

// The root package re-exports the internal types so applications import
// one path.
type (
	// App is a configured application: routes, composed roles, and the
	// server lifecycle around them.
	App = internal.App

	// Router is the interface controllers use to declare routes.
	Router = internal.Router

	// Context is the per-request view handlers and roles receive.
	Context = internal.Context

	// Controller declares routes on a router.
	Controller = internal.Controller

	// RoleCarrier is an optional controller interface. Its role names are
	// applied to every route the controller declares, ahead of any
	// route-level names.
	RoleCarrier = internal.RoleCarrier

	// HandlerFunc is the shape of every route handler.
	HandlerFunc = internal.HandlerFunc

	// Middleware decorates a HandlerFunc with cross-cutting behavior.
	Middleware = internal.Middleware

	// Role is a named, registry-resolved Middleware.
	Role = internal.Role

	// RoleRegistry maps fully qualified role names to implementations.
	RoleRegistry = internal.RoleRegistry

	// RoleResolver expands short role names to fully qualified names.
	RoleResolver = internal.RoleResolver

	// ResolvedRole pairs a qualified role name with its implementation.
	ResolvedRole = internal.ResolvedRole

	// ResolutionError reports a role name that resolved to nothing,
	// along with every qualified candidate tried.
	ResolutionError = internal.ResolutionError

	// ErrorHandler renders errors returned by handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures New.
	Option = internal.Option

	// RunOption configures Run and App.Run.
	RunOption = internal.RunOption

	// HealthOption tunes the health probe endpoints.
	HealthOption = internal.HealthOption

	// ContextExtractor pulls a request-scoped attribute out of a context
	// for logging; pass them to WithLogger.
	ContextExtractor = logger.ContextExtractor

	// ResponseWriter wraps http.ResponseWriter with write tracking and hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError represents an HTTP error with structured data.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption
)

// DefaultRolePrefix is the built-in fallback namespace searched last when
// resolving unprefixed role names.
const DefaultRolePrefix = internal.DefaultRolePrefix

// Registry and resolver errors.
var (
	ErrEmptyRoleName = internal.ErrEmptyRoleName
	ErrNilRole       = internal.ErrNilRole
	ErrDuplicateRole = internal.ErrDuplicateRole
	ErrNoNamespace   = internal.ErrNoNamespace
)

// Construction.

// New builds an App from options. The result is immutable. Role names declared by the
// configured controllers are resolved and composed here; a name that
// resolves to nothing panics, aborting startup.
//
// Example:
//
//	reg := troupe.NewRoleRegistry()
//	reg.MustRegister("myapp.role.Auth", authRole)
//	roles.Register(reg)
//
//	app := troupe.New(
//	    troupe.WithNamespace("myapp"),
//	    troupe.WithRoleRegistry(reg),
//	    troupe.WithControllers(
//	        controllers.NewBilling(repo),
//	        controllers.NewPages(repo),
//	    ),
//	)
//
//	err := app.Run(":8080", troupe.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Run serves several Apps from one listener, routed by host pattern, and
// blocks until shutdown. A single-App service uses app.Run instead.
func Run(opts ...RunOption) error {
	return internal.Run(opts...)
}

// NewRoleRegistry creates an empty role registry.
func NewRoleRegistry() *RoleRegistry {
	return internal.NewRoleRegistry()
}

// NewRoleResolver creates a standalone resolver over the given registry.
// Most applications never call this directly - New() builds one from
// WithNamespace/WithRolePrefixes - but it is exported for tools that
// resolve role names outside an App.
func NewRoleResolver(reg *RoleRegistry, namespace string, prefixes ...string) *RoleResolver {
	return internal.NewRoleResolver(reg, namespace, prefixes...)
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	return internal.IsResolutionError(err)
}

// Application options.

// WithNamespace sets the application's role namespace. Roles owned by the
// application live under "<namespace>.role.".
func WithNamespace(namespace string) Option {
	return internal.WithNamespace(namespace)
}

// WithRoleRegistry sets the role registry used to resolve role names.
func WithRoleRegistry(reg *RoleRegistry) Option {
	return internal.WithRoleRegistry(reg)
}

// WithRolePrefixes replaces the fallback search prefixes tried after the
// application's own prefix. The default is just DefaultRolePrefix.
func WithRolePrefixes(prefixes ...string) Option {
	return internal.WithRolePrefixes(prefixes...)
}

// WithMiddleware installs middleware on every route, outermost first in
// the given order.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithControllers registers controllers that declare routes.
// Each controller's Routes method is called during setup.
func WithControllers(ct ...Controller) Option {
	return internal.WithControllers(ct...)
}

// WithStaticFiles serves subDir of fsys under pattern, with directory
// listings off.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler replaces the default rendering of handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler replaces the default 404 response.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler replaces the default 405 response.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks mounts liveness and readiness endpoints.
// Health endpoints are framework-reserved routes: roles are never
// composed onto them.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger gives the app a JSON logger tagged with component; extractors
// add request-scoped attributes like the request ID.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger hands the app an externally built logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// Health probe options.

// WithLivenessPath moves the liveness endpoint off /health/live.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath moves the readiness endpoint off /health/ready.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck registers a named dependency check; all checks run
// in parallel on each readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Server options.

// Address sets the listen address, ":8080" when unset.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger. Without one the server runs silently.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown. Default 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn once the port is bound, before the first request.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn during graceful shutdown, for closing clients and
// caches.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// Domain serves app for hosts matching pattern, exact ("api.example.com")
// or wildcard ("*.example.com").
func Domain(pattern string, app *App) RunOption {
	return internal.Domain(pattern, app)
}

// Fallback serves app for hosts no Domain pattern matches.
func Fallback(app *App) RunOption {
	return internal.Fallback(app)
}

// WithContext replaces context.Background as the base for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Typed request helpers.

// ContextValue reads a typed value from the request stash, zero-valued
// when absent or mistyped.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := troupe.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a URL parameter parsed as T.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a query parameter parsed as T.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault is Query with a fallback for absent or unparseable values.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault[T](c, name, defaultValue)
}

// Structured HTTP errors.

// NewHTTPError builds an HTTPError carrying code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return internal.NewHTTPError(code, message)
}

// Error constructors for common HTTP statuses.
var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrConflict           = internal.ErrConflict
	ErrTooManyRequests    = internal.ErrTooManyRequests
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
)

// HTTPError options.
var (
	WithErrorCode = internal.WithErrorCode
	WithError     = internal.WithError
)

// IsHTTPError reports whether err is an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError unwraps err to its *HTTPError, nil when there is none.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}
