package routes

import (
	"net/http/cookiejar"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexfit/gymctl/internal/session"
)

func TestDestinationFor(t *testing.T) {
	assert.Equal(t, AdminDashboardView, DestinationFor(session.RoleAdmin))
	assert.Equal(t, TrainerDashboardView, DestinationFor(session.RoleTrainer))
	assert.Equal(t, MemberDashboardView, DestinationFor(session.RoleMember))

	// Unknown and absent roles must never land on a privileged view.
	assert.Equal(t, MemberDashboardView, DestinationFor(session.RoleNonMember))
	assert.Equal(t, MemberDashboardView, DestinationFor(session.Role("janitor")))
	assert.Equal(t, MemberDashboardView, DestinationFor(session.Role("")))
}

func newTestGuard(t *testing.T, withSession, withCookie bool) *Guard {
	t.Helper()

	origin, err := url.Parse("http://gym.example.com")
	require.NoError(t, err)

	store, err := session.NewFileStore(t.TempDir())
	require.NoError(t, err)
	if withSession {
		require.NoError(t, store.Set(&session.Session{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	}

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	mirror := session.NewCookieMirror(jar, origin)
	if withCookie {
		mirror.Set("acc-1")
	}

	return NewGuard(store, mirror, origin)
}

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestGuard_Rewrite(t *testing.T) {
	t.Run("appends token to authenticated views", func(t *testing.T) {
		g := newTestGuard(t, true, false)

		got := g.Rewrite(mustParse(t, "http://gym.example.com/dashboard"))
		assert.Equal(t, "acc-1", got.Query().Get(session.TokenParam))
	})

	t.Run("preserves existing query parameters", func(t *testing.T) {
		g := newTestGuard(t, true, false)

		got := g.Rewrite(mustParse(t, "http://gym.example.com/classes?sort=time"))
		assert.Equal(t, "time", got.Query().Get("sort"))
		assert.Equal(t, "acc-1", got.Query().Get(session.TokenParam))
	})

	t.Run("never rewrites the input in place", func(t *testing.T) {
		g := newTestGuard(t, true, false)

		in := mustParse(t, "http://gym.example.com/dashboard")
		_ = g.Rewrite(in)
		assert.Empty(t, in.RawQuery)
	})

	passthrough := []struct {
		name string
		url  string
	}{
		{"cross origin", "http://other.example.com/dashboard"},
		{"api endpoint", "http://gym.example.com/api/classes"},
		{"login view", "http://gym.example.com/login"},
		{"signup view", "http://gym.example.com/signup"},
		{"token already present", "http://gym.example.com/dashboard?token=existing"},
	}
	for _, tc := range passthrough {
		t.Run(tc.name+" untouched", func(t *testing.T) {
			g := newTestGuard(t, true, false)

			in := mustParse(t, tc.url)
			got := g.Rewrite(in)
			assert.Equal(t, in.String(), got.String())
		})
	}

	t.Run("cookie auth suppresses token exposure", func(t *testing.T) {
		g := newTestGuard(t, true, true)

		got := g.Rewrite(mustParse(t, "http://gym.example.com/dashboard"))
		assert.Empty(t, got.Query().Get(session.TokenParam))
	})

	t.Run("no session means nothing to append", func(t *testing.T) {
		g := newTestGuard(t, false, false)

		got := g.Rewrite(mustParse(t, "http://gym.example.com/dashboard"))
		assert.Empty(t, got.Query().Get(session.TokenParam))
	})

	t.Run("nil target", func(t *testing.T) {
		g := newTestGuard(t, true, false)
		assert.Nil(t, g.Rewrite(nil))
	})
}
