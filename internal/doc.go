// Package internal provides the core types and implementation for the
// Troupe framework.
//
// This package is internal and should not be used directly. Import
// "github.com/troupehq/troupe" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: Orchestrates the application lifecycle, routing, role
//     composition, and graceful shutdown
//   - Context: Provides request/response access, the request stash, and
//     helper methods
//   - Router: Interface controllers use to declare routes with optional
//     role names
//   - Controller: Interface implemented by types that declare routes
//   - RoleCarrier: Optional controller interface attaching roles to every
//     declared route
//   - HandlerFunc: the error-returning handler signature
//   - Middleware / Role: Wraps handlers to add cross-cutting concerns
//   - RoleRegistry, RoleResolver, Composer: the action-role machinery
//
// # Action Roles
//
// A role is a named Middleware registered under a dotted, namespace-first
// qualified name. Controllers attach roles by name; the resolver expands
// short names through a prefix search path, and the composer layers the
// resolved roles onto the base handler once, at registration time.
//
// Name forms:
//
//	"Moo"      searched: "<ns>.role.Moo", then each fallback prefix
//	"~Moo"     exactly "<ns>.role.Moo", no search
//	"+a.b.Moo" already qualified, looked up verbatim
//
// Resolution failures panic inside New(): a role name that resolves to
// nothing is startup misconfiguration and aborts registration for the
// whole application. Nothing is deferred to request time.
//
// # Composition Order
//
// Controller-level roles come first, then route-level names, composed in
// one step. Later entries wrap earlier ones and the base handler, so the
// last listed role runs first at request time. Composition for a given
// (handler, role list) pair happens at most once per process; repeated
// registration reuses the cached composed handler.
//
// Framework-reserved handlers - 404/405 handlers, health endpoints,
// static files, and mounted http.Handlers - never pass through role
// composition.
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects a standard library context. Roles communicate
// with base handlers through the request stash:
//
//	func tenant(next internal.HandlerFunc) internal.HandlerFunc {
//	    return func(c internal.Context) error {
//	        c.Set(tenantKey{}, resolveTenant(c))
//	        return next(c)
//	    }
//	}
package internal
