package internal

import (
	"errors"
	"net/http"

	"github.com/troupehq/troupe/pkg/hostrouter"
)

// Run serves several Apps from one listener, routed by host pattern, and
// blocks until shutdown.
//
// Example:
//
//	api := troupe.New(
//	    troupe.WithControllers(controllers.NewAPI()),
//	)
//
//	website := troupe.New(
//	    troupe.WithControllers(controllers.NewLanding()),
//	)
//
//	err := troupe.Run(
//	    troupe.Domain("api.acme.com", api),
//	    troupe.Domain("*.acme.com", website),
//	    troupe.Address(":8080"),
//	)
func Run(opts ...RunOption) error {
	cfg := buildRunConfig(opts...)

	var handler http.Handler

	if len(cfg.domains) > 0 {
		routes := make(hostrouter.Routes)
		for pattern, app := range cfg.domains {
			routes[pattern] = app.Router()
		}

		var fallback http.Handler = http.NotFoundHandler()
		if cfg.fallback != nil {
			fallback = cfg.fallback.Router()
		}

		handler = hostrouter.New(routes, fallback)
	} else if cfg.fallback != nil {
		handler = cfg.fallback.Router()
	} else {
		return errors.New("troupe.Run: no domains or fallback configured")
	}

	return runServer(runtimeConfig{
		handler:         handler,
		address:         cfg.address,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		startupHooks:    cfg.startupHooks,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}
