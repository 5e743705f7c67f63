package cache

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process Cache backed by a map. Expired entries are dropped
// lazily on Get and swept periodically by a background janitor.
type Memory[V any] struct {
	mu         sync.Mutex
	entries    map[string]memEntry[V]
	defaultTTL time.Duration

	stopJanitor func()
	closeOnce   sync.Once
}

type memEntry[V any] struct {
	val V
	// deadline is the zero Time for entries that never expire.
	deadline time.Time
}

func (e memEntry[V]) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// MemoryOption configures NewMemory.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

// WithDefaultTTL sets the TTL applied when Set is called with ttl == 0.
// The initial default is one hour.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(cfg *memoryConfig) {
		if ttl > 0 {
			cfg.defaultTTL = ttl
		}
	}
}

// WithCleanupInterval sets how often the janitor sweeps expired entries.
// The initial interval is one minute.
func WithCleanupInterval(interval time.Duration) MemoryOption {
	return func(cfg *memoryConfig) {
		if interval > 0 {
			cfg.cleanupInterval = interval
		}
	}
}

// NewMemory creates an in-memory cache and starts its janitor goroutine.
// Call Close to stop the janitor.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{
		defaultTTL:      time.Hour,
		cleanupInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		entries:    make(map[string]memEntry[V]),
		defaultTTL: cfg.defaultTTL,
	}

	done := make(chan struct{})
	m.stopJanitor = func() { close(done) }
	go m.janitor(cfg.cleanupInterval, done)

	return m
}

func (m *Memory[V]) janitor(interval time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Get implements Cache.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	if e.expired(time.Now()) {
		delete(m.entries, key)
		var zero V
		return zero, ErrNotFound
	}
	return e.val, nil
}

// Set implements Cache.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.defaultTTL
	}
	e := memEntry[V]{val: value}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.entries[key] = e
	m.mu.Unlock()
	return nil
}

// Delete implements Cache.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}

// Close stops the janitor. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.closeOnce.Do(m.stopJanitor)
	return nil
}
