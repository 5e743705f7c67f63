package internal

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Router is the surface controllers declare routes against.
//
// Each route method accepts optional role names which are resolved
// through the application's role registry and composed onto the handler
// at registration time. Names may carry the "+" (fully qualified) or "~"
// (application namespace) markers; anything else goes through the prefix
// search path. Controller-level roles (RoleCarrier) are applied ahead of
// route-level names.
type Router interface {
	GET(path string, h HandlerFunc, roles ...string)
	POST(path string, h HandlerFunc, roles ...string)
	PUT(path string, h HandlerFunc, roles ...string)
	PATCH(path string, h HandlerFunc, roles ...string)
	DELETE(path string, h HandlerFunc, roles ...string)
	HEAD(path string, h HandlerFunc, roles ...string)
	OPTIONS(path string, h HandlerFunc, roles ...string)

	// Group declares routes inside fn on a sub-router sharing this
	// router's pattern prefix and controller roles.
	Group(fn func(r Router))

	// Route is Group with pattern appended to the prefix for every route
	// declared inside fn.
	Route(pattern string, fn func(r Router))

	// Use adds middleware to routes declared after it.
	Use(mw ...Middleware)

	// Mount hangs a plain http.Handler under pattern.
	// Mounted handlers are opaque to the framework: no role composition.
	Mount(pattern string, h http.Handler)
}

// routerAdapter implements Router on top of chi. It carries the
// accumulated route pattern (chi only knows the local path at registration
// time) and the controller-level role list, both of which feed role
// composition.
type routerAdapter struct {
	router    chi.Router
	app       *App
	prefix    string
	ctrlRoles []string
}

func (r *routerAdapter) GET(path string, h HandlerFunc, roles ...string) {
	r.router.Get(path, r.wrap(http.MethodGet, path, h, roles))
}

func (r *routerAdapter) POST(path string, h HandlerFunc, roles ...string) {
	r.router.Post(path, r.wrap(http.MethodPost, path, h, roles))
}

func (r *routerAdapter) PUT(path string, h HandlerFunc, roles ...string) {
	r.router.Put(path, r.wrap(http.MethodPut, path, h, roles))
}

func (r *routerAdapter) PATCH(path string, h HandlerFunc, roles ...string) {
	r.router.Patch(path, r.wrap(http.MethodPatch, path, h, roles))
}

func (r *routerAdapter) DELETE(path string, h HandlerFunc, roles ...string) {
	r.router.Delete(path, r.wrap(http.MethodDelete, path, h, roles))
}

func (r *routerAdapter) HEAD(path string, h HandlerFunc, roles ...string) {
	r.router.Head(path, r.wrap(http.MethodHead, path, h, roles))
}

func (r *routerAdapter) OPTIONS(path string, h HandlerFunc, roles ...string) {
	r.router.Options(path, r.wrap(http.MethodOptions, path, h, roles))
}

func (r *routerAdapter) Group(fn func(Router)) {
	r.router.Group(func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app, prefix: r.prefix, ctrlRoles: r.ctrlRoles})
	})
}

func (r *routerAdapter) Route(pattern string, fn func(Router)) {
	r.router.Route(pattern, func(cr chi.Router) {
		fn(&routerAdapter{router: cr, app: r.app, prefix: r.prefix + pattern, ctrlRoles: r.ctrlRoles})
	})
}

func (r *routerAdapter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.router.Use(r.app.adaptMiddleware(m))
	}
}

func (r *routerAdapter) Mount(pattern string, h http.Handler) {
	r.router.Mount(pattern, h)
}

// wrap resolves and composes the route's roles onto the handler, then
// adapts it to http.HandlerFunc. Controller-level roles come first, then
// route-level names, composed in a single step. Resolution failure panics:
// a role name that resolves to nothing is startup misconfiguration and
// must abort registration, not surface on first request.
func (r *routerAdapter) wrap(method, path string, h HandlerFunc, roles []string) http.HandlerFunc {
	names := concatRoles(r.ctrlRoles, roles)

	resolved, err := r.app.resolver.Resolve(names)
	if err != nil {
		panic(fmt.Errorf("troupe: route %s %s: %w", method, r.prefix+path, err))
	}

	key := ComposeKey(method, r.prefix+path, resolved)
	return r.adaptHandler(r.app.composer.Compose(key, h, resolved))
}

func concatRoles(ctrlRoles, routeRoles []string) []string {
	if len(ctrlRoles) == 0 {
		return routeRoles
	}
	names := make([]string, 0, len(ctrlRoles)+len(routeRoles))
	names = append(names, ctrlRoles...)
	names = append(names, routeRoles...)
	return names
}

func (r *routerAdapter) adaptHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		c := newContext(w, req, r.app)
		if err := h(c); err != nil {
			r.app.handleError(c, err)
		}
	}
}

// adaptMiddleware converts a troupe Middleware to chi middleware.
// This adapter allows middleware to be written using the troupe Context
// interface while satisfying chi's http.Handler-based middleware signature.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nextFunc := func(c Context) error {
				next.ServeHTTP(c.Response(), c.Request())
				return nil
			}
			wrapped := mw(nextFunc)
			c := newContext(w, r, a)
			if err := wrapped(c); err != nil {
				a.handleError(c, err)
			}
		})
	}
}
