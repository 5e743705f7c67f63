package internal

// Controller declares routes on a router.
//
// Example:
//
//	type BillingController struct {
//	    repo *repository.Queries
//	}
//
//	func (ct *BillingController) Routes(r troupe.Router) {
//	    r.GET("/invoices", ct.listInvoices)
//	    r.POST("/invoices", ct.createInvoice, "Audit")
//	}
type Controller interface {
	Routes(r Router)
}

// RoleCarrier is an optional interface for controllers. When implemented,
// the returned role names are applied to every route the controller
// declares, ahead of any route-level names.
//
// Example:
//
//	func (ct *BillingController) ActionRoles() []string {
//	    return []string{"~Auth"}
//	}
type RoleCarrier interface {
	ActionRoles() []string
}

// HandlerFunc is the shape of every route handler. A non-nil return is
// rendered by the app's error handler, so handlers never write error
// responses themselves.
type HandlerFunc func(c Context) error

// Middleware decorates a HandlerFunc. It can touch the request on the way
// in, the error on the way out, or skip next entirely.
//
// Example:
//
//	func Auth(next troupe.HandlerFunc) troupe.HandlerFunc {
//	    return func(c troupe.Context) error {
//	        if !isAuthenticated(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// Role is a named, registry-resolved Middleware. A role wraps the layers
// composed before it: it may inspect or mutate the request before calling
// next, and inspect or replace the returned error after.
type Role = Middleware

// ErrorHandler renders errors returned by handlers.
type ErrorHandler func(Context, error) error
