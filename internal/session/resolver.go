package session

import (
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

// TokenParam is the query parameter accepted as a legacy channel for
// injecting a session token on page load (magic-link style handoff).
const TokenParam = "token"

// Resolution is the outcome of resolving the session token for a page load.
type Resolution struct {
	// Token is the canonical access token for this page load.
	Token string

	// PageURL is the page URL with the token parameter stripped. Callers
	// must replace the visible URL with it (no new history entry) so the
	// token never leaks via referrers or bookmarks.
	PageURL *url.URL

	// FromURL reports whether the token arrived via the URL channel.
	FromURL bool
}

// Resolver merges token candidates from the page URL and the store into one
// canonical value, and keeps the server-readable cookie in step. It runs once
// per page load, before any authenticated request is issued.
type Resolver struct {
	store  Store
	mirror *CookieMirror
}

// NewResolver creates a resolver over the given store and cookie mirror.
func NewResolver(store Store, mirror *CookieMirror) *Resolver {
	return &Resolver{store: store, mirror: mirror}
}

// Resolve produces the canonical token for a page load, in strict precedence
// order: URL token first (authoritative, overwrites the store), then the
// stored session. Returns ErrNoSession when neither source holds a token;
// the caller must redirect to login and issue no authenticated requests.
func (r *Resolver) Resolve(pageURL *url.URL) (*Resolution, error) {
	if pageURL != nil {
		if token := pageURL.Query().Get(TokenParam); token != "" {
			if err := r.adopt(token); err != nil {
				return nil, err
			}
			r.mirror.Set(token)

			log.Debug().Msg("token adopted from URL")

			return &Resolution{
				Token:   token,
				PageURL: stripToken(pageURL),
				FromURL: true,
			}, nil
		}
	}

	sess, err := r.store.Get()
	if err != nil {
		return nil, err
	}

	// An expired access token without a refresh token is dead weight: no
	// silent refresh can recover it, so discard it now instead of handing
	// every request a guaranteed rejection. With a refresh token held the
	// session survives; the pipeline recovers it on first use.
	if sess.RefreshToken == "" && Expired(sess.AccessToken, time.Now()) {
		if err := r.store.Clear(); err != nil {
			return nil, err
		}
		r.mirror.Clear()

		log.Debug().Msg("expired session discarded")

		return nil, ErrNoSession
	}

	// Refresh the cookie's sliding expiry; the value is unchanged.
	r.mirror.Set(sess.AccessToken)

	return &Resolution{Token: sess.AccessToken, PageURL: pageURL}, nil
}

// adopt persists a URL-supplied token, overwriting any stored access token.
// The refresh token and cached user survive when the store already holds a
// session; a bare token otherwise starts a session without one.
func (r *Resolver) adopt(token string) error {
	sess, err := r.store.Get()
	if err != nil {
		sess = &Session{}
	}
	sess.AccessToken = token
	return r.store.Set(sess)
}

// stripToken returns a copy of u with the token query parameter removed.
func stripToken(u *url.URL) *url.URL {
	clean := *u
	q := clean.Query()
	q.Del(TokenParam)
	clean.RawQuery = q.Encode()
	return &clean
}
