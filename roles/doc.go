// Package roles provides the stock action roles that ship with Troupe,
// registered under the built-in "troupe.role." namespace.
//
// Register wires all stock roles with default configuration into a
// registry:
//
//	reg := troupe.NewRoleRegistry()
//	roles.Register(reg)
//
//	// now resolvable by short name through the fallback prefix:
//	r.GET("/invoices", ct.list, "RequestID", "Recover")
//
// Each role is also exported as a configurable constructor, so
// applications can register tuned variants under their own namespace:
//
//	reg.MustRegister("myapp.role.SlowTimeout",
//	    roles.Timeout(2*time.Minute))
//
// Stock roles:
//
//   - RequestID: assigns a unique request ID (header passthrough or ULID)
//   - Recover: converts panics into *PanicError for the error handler
//   - Timeout: enforces a per-request deadline, *TimeoutError on expiry
//   - Throttle: fixed-window rate limiting over a pkg/cache backend,
//     *ThrottleError (429) when the window is exhausted
package roles
