package session

import (
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
)

const (
	// CookieName is the name of the access token cookie the server reads on
	// a full page render.
	CookieName = "token"

	// CookieMaxAge is the cookie lifetime in seconds (24h sliding expiry).
	CookieMaxAge = 86400
)

// CookieMirror keeps the server-readable token cookie in step with the
// stored session. The cookie, the store and the Authorization header applied
// to outgoing requests must always agree; the resolver and the pipeline are
// the only writers.
type CookieMirror struct {
	jar    http.CookieJar
	origin *url.URL
}

// NewCookieMirror creates a mirror writing into jar for the given origin.
func NewCookieMirror(jar http.CookieJar, origin *url.URL) *CookieMirror {
	return &CookieMirror{jar: jar, origin: origin}
}

// Set writes the token cookie, refreshing its sliding expiry.
func (m *CookieMirror) Set(token string) {
	if m == nil || m.jar == nil {
		return
	}
	m.jar.SetCookies(m.origin, []*http.Cookie{{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		SameSite: http.SameSiteStrictMode,
	}})
	log.Debug().Str("origin", m.origin.Host).Msg("token cookie mirrored")
}

// Clear expires the token cookie.
func (m *CookieMirror) Clear() {
	if m == nil || m.jar == nil {
		return
	}
	m.jar.SetCookies(m.origin, []*http.Cookie{{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteStrictMode,
	}})
	log.Debug().Str("origin", m.origin.Host).Msg("token cookie cleared")
}

// Token returns the current cookie value for the origin, or "" when the
// cookie is absent or expired.
func (m *CookieMirror) Token() string {
	if m == nil || m.jar == nil {
		return ""
	}
	for _, c := range m.jar.Cookies(m.origin) {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}
