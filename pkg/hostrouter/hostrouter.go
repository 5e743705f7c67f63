// Package hostrouter dispatches requests to different handlers by Host
// header, so one listener can serve several apps ("api.acme.com" and
// "*.acme.com" as separate routers, for example).
//
// Patterns are either exact hosts ("api.example.com") or single-level
// wildcards ("*.example.com", matching any direct subdomain but not the bare
// domain). Exact wins over wildcard. Matching ignores case and ports.
package hostrouter

import (
	"net"
	"net/http"
	"strings"
)

// Routes maps host patterns to handlers.
type Routes map[string]http.Handler

// Router is an http.Handler that picks a downstream handler by request host.
type Router struct {
	exact    map[string]http.Handler
	wildcard map[string]http.Handler // keyed by the domain after "*."
	fallback http.Handler
}

// New builds a Router from routes. Requests matching no pattern go to
// fallback, which must not be nil (use http.NotFoundHandler for a 404).
func New(routes Routes, fallback http.Handler) *Router {
	r := &Router{
		exact:    make(map[string]http.Handler, len(routes)),
		wildcard: make(map[string]http.Handler),
		fallback: fallback,
	}
	for pattern, h := range routes {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		switch {
		case pattern == "":
		case strings.HasPrefix(pattern, "*."):
			r.wildcard[pattern[2:]] = h
		default:
			r.exact[pattern] = h
		}
	}
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.match(req.Host).ServeHTTP(w, req)
}

func (r *Router) match(host string) http.Handler {
	host = canonicalHost(host)

	if h, ok := r.exact[host]; ok {
		return h
	}
	if _, parent, ok := strings.Cut(host, "."); ok {
		if h, ok := r.wildcard[parent]; ok {
			return h
		}
	}
	return r.fallback
}

// canonicalHost lowercases host and drops any port, keeping the brackets of
// IPv6 literals ("[::1]:8080" becomes "[::1]").
func canonicalHost(host string) string {
	if bare, _, err := net.SplitHostPort(host); err == nil {
		host = bare
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
	}
	return strings.ToLower(host)
}
