package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/flexfit/gymctl/internal/session"
)

// Refresher exchanges the stored refresh token for a fresh session. The
// pipeline never talks to the refresh endpoint itself.
type Refresher interface {
	Refresh(ctx context.Context) (*session.Session, error)
}

// Pipeline is the sole gateway for authenticated requests. Per logical
// request it attaches the bearer header from a fresh store read, detects
// authorization rejection, performs at most one silent refresh and one
// retry, and tears the session down on unrecoverable failure.
//
// Callers get either the backend response unmodified, or one of the sentinel
// errors: session.ErrNoSession (precondition, no request issued),
// ErrSessionExpired (refresh failed) or ErrStillUnauthorized (rejected again
// after a successful refresh). After the latter two the store and the token
// cookie are already cleared.
type Pipeline struct {
	store     session.Store
	mirror    *session.CookieMirror
	client    *http.Client
	refresher Refresher
	csrfToken string

	// refreshMu single-flights concurrent refreshes: requests that hit 401
	// while another refresh is in flight reuse its result instead of
	// burning the rotated refresh token a second time.
	refreshMu sync.Mutex
}

// NewPipeline creates the authenticated request pipeline.
func NewPipeline(store session.Store, mirror *session.CookieMirror, client *http.Client, refresher Refresher, csrfToken string) *Pipeline {
	return &Pipeline{
		store:     store,
		mirror:    mirror,
		client:    client,
		refresher: refresher,
		csrfToken: csrfToken,
	}
}

// Do executes one logical authenticated request.
func (p *Pipeline) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Read the store fresh: a concurrent refresh may have rotated the
	// token since the caller was constructed.
	sess, err := p.store.Get()
	if err != nil {
		return nil, err
	}

	if err := bufferBody(req); err != nil {
		return nil, err
	}

	resp, err := p.send(ctx, req, sess.AccessToken)
	if err != nil {
		return nil, err
	}
	if !authRejected(resp.StatusCode) {
		return resp, nil
	}
	drain(resp)

	log.Debug().
		Int("status", resp.StatusCode).
		Str("path", req.URL.Path).
		Msg("authorization rejected, attempting silent refresh")

	fresh, err := p.refresh(ctx, sess.AccessToken)
	if err != nil {
		p.teardown()
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	retry, err := cloneRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err = p.send(ctx, retry, fresh.AccessToken)
	if err != nil {
		return nil, err
	}
	if authRejected(resp.StatusCode) {
		// A second rejection after a successful refresh cannot be fixed
		// by refreshing again.
		drain(resp)
		p.teardown()

		log.Warn().Str("path", req.URL.Path).Msg("request rejected again after refresh")

		return nil, ErrStillUnauthorized
	}

	return resp, nil
}

// send attaches the auth header set and issues the request. The header set
// is recomputed per attempt; the token may have rotated between attempts.
func (p *Pipeline) send(ctx context.Context, req *http.Request, token string) (*http.Response, error) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if p.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", p.csrfToken)
	}

	resp, err := p.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// refresh invokes the refresher exactly once for a rotated token, reusing
// the result of a refresh that completed while this request was waiting.
func (p *Pipeline) refresh(ctx context.Context, failedToken string) (*session.Session, error) {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	if cur, err := p.store.Get(); err == nil && cur.AccessToken != failedToken {
		log.Debug().Msg("token already rotated by concurrent refresh")
		return cur, nil
	}

	return p.refresher.Refresh(ctx)
}

// teardown clears the session everywhere it lives: store and mirrored
// cookie. In-memory headers are derived per request, so nothing else holds
// the token.
func (p *Pipeline) teardown() {
	if err := p.store.Clear(); err != nil {
		log.Error().Err(err).Msg("failed to clear session store")
	}
	p.mirror.Clear()

	log.Warn().Msg("session torn down, login required")
}

func authRejected(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// bufferBody makes the request body replayable so the single retry can
// resubmit it byte for byte.
func bufferBody(req *http.Request) error {
	if req.Body == nil || req.GetBody != nil {
		return nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("failed to buffer request body: %w", err)
	}
	req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil
}

func cloneRequest(ctx context.Context, req *http.Request) (*http.Request, error) {
	retry := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to replay request body: %w", err)
		}
		retry.Body = body
	}
	return retry, nil
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
