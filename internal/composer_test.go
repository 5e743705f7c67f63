package internal_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/troupehq/troupe/internal"
)

// counting returns a role that bumps n each time the role itself is
// applied to a handler, as opposed to each time a request runs through it.
func counting(n *atomic.Int64, inner internal.Role) internal.Role {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		n.Add(1)
		return inner(next)
	}
}

func TestComposeKey(t *testing.T) {
	t.Parallel()

	roles := []internal.ResolvedRole{
		{Name: "myapp.role.Auth"},
		{Name: "troupe.role.Recover"},
	}

	require.Equal(t,
		"3:GET5:/pets15:myapp.role.Auth19:troupe.role.Recover",
		internal.ComposeKey("GET", "/pets", roles))
	require.Equal(t, "3:GET5:/pets", internal.ComposeKey("GET", "/pets", nil))

	// Method, pattern, and role list each keep keys apart.
	require.NotEqual(t,
		internal.ComposeKey("GET", "/pets", roles),
		internal.ComposeKey("POST", "/pets", roles))
	require.NotEqual(t,
		internal.ComposeKey("GET", "/pets", roles),
		internal.ComposeKey("GET", "/pets", roles[:1]))

	// Punctuation inside a segment cannot collide with segment boundaries:
	// a pattern embedding a regexp alternation stays distinct from a
	// shorter pattern plus a role of the same spelling.
	require.NotEqual(t,
		internal.ComposeKey("GET", "/x|r", nil),
		internal.ComposeKey("GET", "/x", []internal.ResolvedRole{{Name: "r"}}))
	require.NotEqual(t,
		internal.ComposeKey("GET", "/pets/{id:a|b}", nil),
		internal.ComposeKey("GET", "/pets/{id:a", []internal.ResolvedRole{{Name: "b}"}}))
}

func TestCompose(t *testing.T) {
	t.Parallel()

	t.Run("empty role list returns base unchanged", func(t *testing.T) {
		t.Parallel()

		c := internal.NewComposer()
		called := false
		base := func(internal.Context) error {
			called = true
			return nil
		}

		h := c.Compose("GET /pets", base, nil)
		require.NoError(t, h(nil))
		require.True(t, called)
		require.Equal(t, 0, c.Size())
	})

	t.Run("later roles wrap earlier ones", func(t *testing.T) {
		t.Parallel()

		var order []string
		mark := func(name string) internal.Role {
			return func(next internal.HandlerFunc) internal.HandlerFunc {
				return func(ctx internal.Context) error {
					order = append(order, name)
					return next(ctx)
				}
			}
		}

		c := internal.NewComposer()
		base := func(internal.Context) error {
			order = append(order, "base")
			return nil
		}
		roles := []internal.ResolvedRole{
			{Name: "a", Role: mark("a")},
			{Name: "b", Role: mark("b")},
		}

		h := c.Compose(internal.ComposeKey("GET", "/pets", roles), base, roles)
		require.NoError(t, h(nil))
		require.Equal(t, []string{"b", "a", "base"}, order)
	})

	t.Run("synthesis happens once per key", func(t *testing.T) {
		t.Parallel()

		var applied atomic.Int64
		roles := []internal.ResolvedRole{
			{Name: "a", Role: counting(&applied, passthrough)},
		}

		c := internal.NewComposer()
		base := func(internal.Context) error { return nil }
		key := internal.ComposeKey("GET", "/pets", roles)

		first := c.Compose(key, base, roles)
		second := c.Compose(key, base, roles)
		require.EqualValues(t, 1, applied.Load())
		require.Equal(t, 1, c.Size())

		// Both values run the same composed chain.
		require.NoError(t, first(nil))
		require.NoError(t, second(nil))
	})

	t.Run("different keys compose independently", func(t *testing.T) {
		t.Parallel()

		var applied atomic.Int64
		roles := []internal.ResolvedRole{
			{Name: "a", Role: counting(&applied, passthrough)},
		}

		c := internal.NewComposer()
		base := func(internal.Context) error { return nil }

		c.Compose(internal.ComposeKey("GET", "/pets", roles), base, roles)
		c.Compose(internal.ComposeKey("POST", "/pets", roles), base, roles)
		require.EqualValues(t, 2, applied.Load())
		require.Equal(t, 2, c.Size())
	})

	t.Run("concurrent registration of one key synthesizes once", func(t *testing.T) {
		t.Parallel()

		var applied atomic.Int64
		roles := []internal.ResolvedRole{
			{Name: "a", Role: counting(&applied, passthrough)},
		}

		c := internal.NewComposer()
		base := func(internal.Context) error { return nil }
		key := internal.ComposeKey("GET", "/pets", roles)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Compose(key, base, roles)
			}()
		}
		wg.Wait()

		require.EqualValues(t, 1, applied.Load())
		require.Equal(t, 1, c.Size())
	})
}
