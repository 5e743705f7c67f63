package internal

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrEmptyRoleName is returned when a role is registered without a name.
	ErrEmptyRoleName = errors.New("troupe: empty role name")
	// ErrNilRole is returned when a nil role is registered.
	ErrNilRole = errors.New("troupe: nil role")
	// ErrDuplicateRole indicates an attempt to register a name twice.
	ErrDuplicateRole = errors.New("troupe: duplicate role registration")
)

// RoleRegistry maps fully qualified role names to their implementations.
// Names are dotted, namespace-first: "myapp.role.Auth", "troupe.role.Recover".
//
// A registry is populated explicitly during application wiring; there is no
// package-level default and no init-time magic. It is safe for concurrent
// use, though registration normally happens single-threaded before New().
type RoleRegistry struct {
	mu    sync.RWMutex
	roles map[string]Role
}

// NewRoleRegistry creates an empty role registry.
func NewRoleRegistry() *RoleRegistry {
	return &RoleRegistry{roles: make(map[string]Role)}
}

// Register associates a fully qualified name with a role.
// Registering the same name twice returns ErrDuplicateRole.
func (r *RoleRegistry) Register(name string, role Role) error {
	if name == "" {
		return ErrEmptyRoleName
	}
	if role == nil {
		return ErrNilRole
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.roles[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateRole, name)
	}
	r.roles[name] = role
	return nil
}

// MustRegister is like Register but panics on error.
// Intended for wiring code that runs once at startup.
func (r *RoleRegistry) MustRegister(name string, role Role) {
	if err := r.Register(name, role); err != nil {
		panic(err)
	}
}

// Lookup returns the role registered under the given qualified name.
func (r *RoleRegistry) Lookup(name string) (Role, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	role, ok := r.roles[name]
	return role, ok
}

// Has reports whether a role is registered under the given qualified name.
func (r *RoleRegistry) Has(name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

// Names returns all registered qualified names, sorted.
// Useful for diagnostics and resolution error messages.
func (r *RoleRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.roles))
	for name := range r.roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered roles.
func (r *RoleRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.roles)
}
