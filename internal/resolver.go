package internal

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultRolePrefix is the built-in fallback namespace searched last when
// resolving unprefixed role names. Stock roles (roles.Register) live here.
const DefaultRolePrefix = "troupe.role."

// roleInfix joins an application namespace and a short role name:
// namespace "myapp" owns roles under "myapp.role.".
const roleInfix = ".role."

// ErrNoNamespace is returned when a "~"-prefixed name is resolved without a
// configured application namespace.
var ErrNoNamespace = errors.New("troupe: no application namespace configured")

// ResolutionError reports a role name that did not resolve to any
// registered role. Candidates lists every qualified name tried, in order.
type ResolutionError struct {
	Name       string
	Candidates []string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("troupe: cannot resolve role %q (tried %s)",
		e.Name, strings.Join(e.Candidates, ", "))
}

// IsResolutionError reports whether err is (or wraps) a ResolutionError.
func IsResolutionError(err error) bool {
	var re *ResolutionError
	return errors.As(err, &re)
}

// ResolvedRole pairs the qualified name a raw role name resolved to with
// the registered implementation.
type ResolvedRole struct {
	Name string
	Role Role
}

// RoleResolver expands short role names to fully qualified registry names.
//
// Three name forms are recognized:
//
//	"+foo.bar.Moo"  already qualified; looked up verbatim, no search
//	"~Moo"          owned by the application: "<namespace>.role.Moo"
//	"Moo"           searched: application prefix first, then each
//	                configured fallback prefix in order
//
// Any other leading character is not a marker; the name goes through the
// search path untouched.
type RoleResolver struct {
	registry  *RoleRegistry
	appPrefix string
	prefixes  []string
}

// NewRoleResolver creates a resolver over the given registry.
// namespace may be empty, in which case "~" names fail to resolve and no
// application prefix participates in the search. If no fallback prefixes
// are given, DefaultRolePrefix is used.
func NewRoleResolver(registry *RoleRegistry, namespace string, prefixes ...string) *RoleResolver {
	appPrefix := ""
	if namespace != "" {
		appPrefix = namespace + roleInfix
	}
	if len(prefixes) == 0 {
		prefixes = []string{DefaultRolePrefix}
	}
	return &RoleResolver{
		registry:  registry,
		appPrefix: appPrefix,
		prefixes:  prefixes,
	}
}

// Resolve maps raw role names to resolved roles, preserving input order.
// Names are not deduplicated: a name listed twice composes twice.
// The first name that fails aborts resolution with a *ResolutionError.
func (r *RoleResolver) Resolve(names []string) ([]ResolvedRole, error) {
	if len(names) == 0 {
		return nil, nil
	}

	resolved := make([]ResolvedRole, 0, len(names))
	for _, name := range names {
		rr, err := r.resolveOne(name)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, rr)
	}
	return resolved, nil
}

func (r *RoleResolver) resolveOne(name string) (ResolvedRole, error) {
	switch {
	case strings.HasPrefix(name, "+"):
		qualified := name[1:]
		if role, ok := r.registry.Lookup(qualified); ok {
			return ResolvedRole{Name: qualified, Role: role}, nil
		}
		return ResolvedRole{}, &ResolutionError{Name: name, Candidates: []string{qualified}}

	case strings.HasPrefix(name, "~"):
		if r.appPrefix == "" {
			return ResolvedRole{}, fmt.Errorf("%w: cannot resolve %q", ErrNoNamespace, name)
		}
		qualified := r.appPrefix + name[1:]
		if role, ok := r.registry.Lookup(qualified); ok {
			return ResolvedRole{Name: qualified, Role: role}, nil
		}
		return ResolvedRole{}, &ResolutionError{Name: name, Candidates: []string{qualified}}

	default:
		return r.search(name)
	}
}

// search tries each prefix in order and picks the first registered
// candidate. When two prefixes are textually nested (one is a string
// prefix of the other) and both candidates are registered, the longer
// prefix wins; unrelated prefixes keep strict search order. Overlapping
// prefix lists are a configuration smell, not something to rely on.
func (r *RoleResolver) search(name string) (ResolvedRole, error) {
	prefixes := r.searchPrefixes()

	candidates := make([]string, len(prefixes))
	for i, p := range prefixes {
		candidates[i] = p + name
	}

	winner := -1
	for i, candidate := range candidates {
		if !r.registry.Has(candidate) {
			continue
		}
		if winner < 0 {
			winner = i
			continue
		}
		if len(prefixes[i]) > len(prefixes[winner]) &&
			strings.HasPrefix(prefixes[i], prefixes[winner]) {
			winner = i
		}
	}
	if winner < 0 {
		return ResolvedRole{}, &ResolutionError{Name: name, Candidates: candidates}
	}

	role, _ := r.registry.Lookup(candidates[winner])
	return ResolvedRole{Name: candidates[winner], Role: role}, nil
}

func (r *RoleResolver) searchPrefixes() []string {
	if r.appPrefix == "" {
		return r.prefixes
	}
	prefixes := make([]string, 0, len(r.prefixes)+1)
	prefixes = append(prefixes, r.appPrefix)
	prefixes = append(prefixes, r.prefixes...)
	return prefixes
}
