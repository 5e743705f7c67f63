package internal

import (
	"strconv"
	"strings"
	"sync"
)

// Composer layers resolved roles onto base handlers and memoizes the
// result. Synthesis happens at most once per key for the lifetime of the
// process: route registration is normally single-threaded, but the cache
// is lock-guarded so concurrent registration of the same key still yields
// a single composed handler.
type Composer struct {
	mu    sync.Mutex
	cache map[string]HandlerFunc
}

// NewComposer creates an empty composer.
func NewComposer() *Composer {
	return &Composer{cache: make(map[string]HandlerFunc)}
}

// ComposeKey builds a cache key identifying a (base handler, role list)
// pair. The route's method and full pattern identify the base; the
// qualified role names identify the list. Every segment is length-prefixed
// so keys stay unambiguous even when a chi pattern embeds a regexp
// ({id:a|b}) or other punctuation.
func ComposeKey(method, pattern string, roles []ResolvedRole) string {
	var b strings.Builder
	writeSegment(&b, method)
	writeSegment(&b, pattern)
	for _, rr := range roles {
		writeSegment(&b, rr.Name)
	}
	return b.String()
}

func writeSegment(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// Compose wraps base with the given roles, in list order, and caches the
// result under key. Later entries wrap earlier ones and the base, so the
// last role in the list runs first at request time and sees the return
// value last-but-outermost.
//
// An empty role list returns base unchanged: no synthesis, no cache entry.
func (c *Composer) Compose(key string, base HandlerFunc, roles []ResolvedRole) HandlerFunc {
	if len(roles) == 0 {
		return base
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if h, ok := c.cache[key]; ok {
		return h
	}

	h := base
	for _, rr := range roles {
		h = rr.Role(h)
	}
	c.cache[key] = h
	return h
}

// Size returns the number of cached composed handlers.
func (c *Composer) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
