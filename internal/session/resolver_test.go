package session

import (
	"net/http/cookiejar"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T) (*Resolver, *FileStore, *CookieMirror) {
	t.Helper()

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	origin, err := url.Parse("http://gym.example.com")
	require.NoError(t, err)

	mirror := NewCookieMirror(jar, origin)
	return NewResolver(store, mirror), store, mirror
}

func pageURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestResolver_URLTokenWins(t *testing.T) {
	resolver, store, mirror := newTestResolver(t)

	// A stored session from an earlier login.
	require.NoError(t, store.Set(&Session{AccessToken: "stored-token", RefreshToken: "refresh-1"}))

	res, err := resolver.Resolve(pageURL(t, "http://gym.example.com/dashboard?token=url-token"))
	require.NoError(t, err)

	assert.Equal(t, "url-token", res.Token)
	assert.True(t, res.FromURL)

	// The URL token overwrote storage; the refresh token survived.
	sess, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "url-token", sess.AccessToken)
	assert.Equal(t, "refresh-1", sess.RefreshToken)

	// And the cookie agrees.
	assert.Equal(t, "url-token", mirror.Token())
}

func TestResolver_StripsTokenFromURL(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	res, err := resolver.Resolve(pageURL(t, "http://gym.example.com/calendar?week=12&token=secret"))
	require.NoError(t, err)

	assert.NotContains(t, res.PageURL.String(), "secret")
	assert.Empty(t, res.PageURL.Query().Get(TokenParam))
	assert.Equal(t, "12", res.PageURL.Query().Get("week"), "other parameters survive")
}

func TestResolver_FallsBackToStore(t *testing.T) {
	resolver, store, mirror := newTestResolver(t)

	require.NoError(t, store.Set(&Session{AccessToken: "stored-token", RefreshToken: "r"}))

	res, err := resolver.Resolve(pageURL(t, "http://gym.example.com/dashboard"))
	require.NoError(t, err)

	assert.Equal(t, "stored-token", res.Token)
	assert.False(t, res.FromURL)
	assert.Equal(t, "stored-token", mirror.Token())
}

func TestResolver_DiscardsExpiredSession(t *testing.T) {
	stale := signedToken(t, Claims{RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}})

	t.Run("no refresh token held", func(t *testing.T) {
		resolver, store, mirror := newTestResolver(t)

		require.NoError(t, store.Set(&Session{AccessToken: stale}))
		mirror.Set(stale)

		_, err := resolver.Resolve(pageURL(t, "http://gym.example.com/dashboard"))
		assert.ErrorIs(t, err, ErrNoSession)

		// The dead session is gone from both the store and the cookie.
		_, err = store.Get()
		assert.ErrorIs(t, err, ErrNoSession)
		assert.Empty(t, mirror.Token())
	})

	t.Run("refresh token can still recover it", func(t *testing.T) {
		resolver, store, _ := newTestResolver(t)

		require.NoError(t, store.Set(&Session{AccessToken: stale, RefreshToken: "refresh-1"}))

		res, err := resolver.Resolve(pageURL(t, "http://gym.example.com/dashboard"))
		require.NoError(t, err)
		assert.Equal(t, stale, res.Token)
	})
}

func TestResolver_NoCandidate(t *testing.T) {
	resolver, _, _ := newTestResolver(t)

	_, err := resolver.Resolve(pageURL(t, "http://gym.example.com/dashboard"))
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestResolver_Idempotent(t *testing.T) {
	resolver, store, mirror := newTestResolver(t)

	require.NoError(t, store.Set(&Session{AccessToken: "stored-token", RefreshToken: "r"}))
	page := pageURL(t, "http://gym.example.com/dashboard")

	first, err := resolver.Resolve(page)
	require.NoError(t, err)
	second, err := resolver.Resolve(page)
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)
	assert.Equal(t, "stored-token", mirror.Token(), "cookie value unchanged by repeated resolution")
}

func TestCookieMirror_Clear(t *testing.T) {
	_, _, mirror := newTestResolver(t)

	mirror.Set("some-token")
	require.Equal(t, "some-token", mirror.Token())

	mirror.Clear()
	assert.Empty(t, mirror.Token())
}
