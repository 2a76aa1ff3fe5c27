// Package routes decides post-login destinations and guards in-app
// navigation so the session token travels only where it must.
package routes

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/flexfit/gymctl/internal/session"
)

// View paths served by the web frontend.
const (
	LoginView            = "/login"
	SignupView           = "/signup"
	MemberDashboardView  = "/dashboard"
	TrainerDashboardView = "/trainer/dashboard"
	AdminDashboardView   = "/admin/dashboard"
)

// DestinationFor maps a role claim to the post-login view. Unknown or absent
// roles land on the member dashboard; a privileged view is never the
// default.
func DestinationFor(role session.Role) string {
	switch role {
	case session.RoleAdmin:
		return AdminDashboardView
	case session.RoleTrainer:
		return TrainerDashboardView
	default:
		return MemberDashboardView
	}
}

// Guard intercepts same-origin navigation and appends the access token as a
// query parameter when the destination view cannot otherwise resolve a
// session. It is a compatibility shim for contexts without cookie auth, not
// a security mechanism: any URL it touches must be assumed visible in
// browser history, so it rewrites as few URLs as it can.
type Guard struct {
	store  session.Store
	mirror *session.CookieMirror
	origin *url.URL
}

// NewGuard creates a navigation guard for the given origin.
func NewGuard(store session.Store, mirror *session.CookieMirror, origin *url.URL) *Guard {
	return &Guard{store: store, mirror: mirror, origin: origin}
}

// Rewrite returns the navigation target, with the access token appended only
// when every condition holds: same origin, an authenticated view (never
// login, signup or an API endpoint), no token already present, no cookie
// auth in place, and a session actually held. In all other cases the target
// is returned untouched.
func (g *Guard) Rewrite(target *url.URL) *url.URL {
	if target == nil {
		return nil
	}
	if target.Host != "" && target.Host != g.origin.Host {
		return target
	}

	path := target.Path
	switch {
	case strings.HasPrefix(path, "/api/"):
		return target
	case strings.HasPrefix(path, LoginView), strings.HasPrefix(path, SignupView):
		return target
	case target.Query().Get(session.TokenParam) != "":
		return target
	}

	// Cookie auth already bridges the reload; no need to expose the token.
	if g.mirror.Token() != "" {
		return target
	}

	sess, err := g.store.Get()
	if err != nil {
		return target
	}

	rewritten := *target
	q := rewritten.Query()
	q.Set(session.TokenParam, sess.AccessToken)
	rewritten.RawQuery = q.Encode()

	log.Debug().Str("path", path).Msg("navigation rewritten to carry session token")

	return &rewritten
}
