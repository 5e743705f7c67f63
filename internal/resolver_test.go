package internal_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/troupehq/troupe/internal"
)

// tagged builds a role that records its qualified name when invoked, so
// tests can tell registered implementations apart.
func tagged(log *[]string, name string) internal.Role {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			*log = append(*log, name)
			return next(c)
		}
	}
}

func invoke(t *testing.T, rr internal.ResolvedRole) {
	t.Helper()
	h := rr.Role(func(c internal.Context) error { return nil })
	require.NoError(t, h(nil))
}

func TestResolveQualified(t *testing.T) {
	t.Parallel()

	t.Run("plus skips search entirely", func(t *testing.T) {
		t.Parallel()

		var log []string
		reg := internal.NewRoleRegistry()
		reg.MustRegister("other.role.Moo", tagged(&log, "other.role.Moo"))
		// A nearer candidate that prefix search would have preferred.
		reg.MustRegister("myapp.role.other.role.Moo", tagged(&log, "wrong"))

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"+other.role.Moo"})
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		require.Equal(t, "other.role.Moo", resolved[0].Name)

		invoke(t, resolved[0])
		require.Equal(t, []string{"other.role.Moo"}, log)
	})

	t.Run("plus with unregistered name fails with one candidate", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		r := internal.NewRoleResolver(reg, "myapp")

		_, err := r.Resolve([]string{"+other.role.Moo"})
		require.Error(t, err)
		require.True(t, internal.IsResolutionError(err))

		var re *internal.ResolutionError
		require.ErrorAs(t, err, &re)
		require.Equal(t, "+other.role.Moo", re.Name)
		require.Equal(t, []string{"other.role.Moo"}, re.Candidates)
	})
}

func TestResolveTilde(t *testing.T) {
	t.Parallel()

	t.Run("expands to application namespace", func(t *testing.T) {
		t.Parallel()

		var log []string
		reg := internal.NewRoleRegistry()
		reg.MustRegister("myapp.role.Moo", tagged(&log, "myapp.role.Moo"))
		reg.MustRegister(internal.DefaultRolePrefix+"Moo", tagged(&log, "stock"))

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"~Moo"})
		require.NoError(t, err)
		require.Equal(t, "myapp.role.Moo", resolved[0].Name)
	})

	t.Run("does not fall back to other prefixes", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister(internal.DefaultRolePrefix+"Moo", passthrough)

		r := internal.NewRoleResolver(reg, "myapp")
		_, err := r.Resolve([]string{"~Moo"})
		require.Error(t, err)

		var re *internal.ResolutionError
		require.ErrorAs(t, err, &re)
		require.Equal(t, []string{"myapp.role.Moo"}, re.Candidates)
	})

	t.Run("fails without a namespace", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("myapp.role.Moo", passthrough)

		r := internal.NewRoleResolver(reg, "")
		_, err := r.Resolve([]string{"~Moo"})
		require.ErrorIs(t, err, internal.ErrNoNamespace)
		require.Contains(t, err.Error(), "~Moo")
	})
}

func TestResolveSearch(t *testing.T) {
	t.Parallel()

	t.Run("application prefix wins over default", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("myapp.role.Moo", passthrough)
		reg.MustRegister(internal.DefaultRolePrefix+"Moo", passthrough)

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, "myapp.role.Moo", resolved[0].Name)
	})

	t.Run("falls through to default prefix", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister(internal.DefaultRolePrefix+"Moo", passthrough)

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, internal.DefaultRolePrefix+"Moo", resolved[0].Name)
	})

	t.Run("custom prefixes searched in order", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("second.role.Moo", passthrough)

		r := internal.NewRoleResolver(reg, "", "first.role.", "second.role.")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, "second.role.Moo", resolved[0].Name)
	})

	t.Run("first registered prefix wins between unrelated prefixes", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("first.role.Moo", passthrough)
		reg.MustRegister("second.role.Moo", passthrough)

		r := internal.NewRoleResolver(reg, "", "first.role.", "second.role.")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, "first.role.Moo", resolved[0].Name)
	})

	t.Run("longer nested prefix wins over its own prefix", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("acme.role.Moo", passthrough)
		reg.MustRegister("acme.role.admin.Moo", passthrough)

		r := internal.NewRoleResolver(reg, "", "acme.role.", "acme.role.admin.")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, "acme.role.admin.Moo", resolved[0].Name)
	})

	t.Run("nesting tiebreak ignores unregistered candidates", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("acme.role.Moo", passthrough)

		r := internal.NewRoleResolver(reg, "", "acme.role.", "acme.role.admin.")
		resolved, err := r.Resolve([]string{"Moo"})
		require.NoError(t, err)
		require.Equal(t, "acme.role.Moo", resolved[0].Name)
	})

	t.Run("failure lists every candidate in search order", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		r := internal.NewRoleResolver(reg, "myapp", "extra.role.")

		_, err := r.Resolve([]string{"Moo"})
		require.Error(t, err)

		var re *internal.ResolutionError
		require.ErrorAs(t, err, &re)
		require.Equal(t, "Moo", re.Name)
		require.Equal(t, []string{"myapp.role.Moo", "extra.role.Moo"}, re.Candidates)
		require.Contains(t, re.Error(), "myapp.role.Moo, extra.role.Moo")
	})

	t.Run("wrapped resolution error is detected", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		r := internal.NewRoleResolver(reg, "myapp")

		_, err := r.Resolve([]string{"Moo"})
		wrapped := fmt.Errorf("route GET /pets: %w", err)
		require.True(t, internal.IsResolutionError(wrapped))
	})
}

func TestResolveList(t *testing.T) {
	t.Parallel()

	t.Run("empty list resolves to nil", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		r := internal.NewRoleResolver(reg, "myapp")

		resolved, err := r.Resolve(nil)
		require.NoError(t, err)
		require.Nil(t, resolved)
	})

	t.Run("preserves order and duplicates", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("myapp.role.A", passthrough)
		reg.MustRegister("myapp.role.B", passthrough)

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"B", "A", "B"})
		require.NoError(t, err)
		require.Len(t, resolved, 3)
		require.Equal(t, "myapp.role.B", resolved[0].Name)
		require.Equal(t, "myapp.role.A", resolved[1].Name)
		require.Equal(t, "myapp.role.B", resolved[2].Name)
	})

	t.Run("first failure aborts", func(t *testing.T) {
		t.Parallel()

		reg := internal.NewRoleRegistry()
		reg.MustRegister("myapp.role.A", passthrough)

		r := internal.NewRoleResolver(reg, "myapp")
		resolved, err := r.Resolve([]string{"A", "Missing", "A"})
		require.Error(t, err)
		require.Nil(t, resolved)

		var re *internal.ResolutionError
		require.ErrorAs(t, err, &re)
		require.Equal(t, "Missing", re.Name)
	})
}
