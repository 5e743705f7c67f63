// Package troupe is a small controller-centric web framework built around
// named action roles: registry-resolved middleware attached to routes or
// whole controllers by name and composed once at startup.
//
// # Quick Start
//
//	reg := troupe.NewRoleRegistry()
//	reg.MustRegister("myapp.role.Auth", authRole)
//	roles.Register(reg) // stock roles under "troupe.role."
//
//	app := troupe.New(
//	    troupe.WithNamespace("myapp"),
//	    troupe.WithRoleRegistry(reg),
//	    troupe.WithControllers(controllers.NewBilling(repo)),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Action Roles
//
// A role is an around-style wrapper (Middleware) registered under a
// dotted qualified name. Controllers attach roles by short name:
//
//	func (ct *Billing) Routes(r troupe.Router) {
//	    r.GET("/invoices", ct.list, "RequestID")       // prefix search
//	    r.POST("/invoices", ct.create, "~Audit")       // myapp.role.Audit
//	    r.DELETE("/invoices/{id}", ct.remove,
//	        "+ops.role.Dangerous")                     // fully qualified
//	}
//
// A controller implementing RoleCarrier attaches roles to every route it
// declares; those come first in composition order, then route-level
// names. Unprefixed names search the application's own prefix first, then
// the configured fallbacks (default: troupe's stock namespace).
//
// Everything resolves at startup. A role name that matches nothing panics
// inside New() with the full candidate list - misconfiguration never
// waits for the first request to surface.
//
// The package is a facade: types are aliases for internal implementations,
// keeping the public API surface in one file.
package troupe
