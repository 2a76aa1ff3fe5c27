package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog/log"

	"github.com/flexfit/gymctl/internal/session"
)

// Backend endpoints. Fixed contract; the server side is not ours to change.
const (
	loginPath      = "/api/auth/login"
	registerPath   = "/api/auth/register"
	refreshPath    = "/api/auth/refresh-token"
	logoutPath     = "/api/auth/logout"
	profilePath    = "/api/dashboard/profile"
	summaryPath    = "/api/dashboard/summary"
	classesPath    = "/api/classes"
	attendancePath = "/api/attendance"
	membershipPath = "/api/memberships"
	adminPath      = "/api/admin"
)

// Client talks to the gym backend. Authentication state lives in the session
// store; all authenticated calls are routed through the pipeline, which owns
// the silent refresh-and-retry protocol. Nothing else attaches bearer
// headers.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      session.Store
	mirror     *session.CookieMirror
	pipeline   *Pipeline
	csrfToken  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default caching HTTP client. The session
// cookie is mirrored into its jar when one is set.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCSRFToken sets the X-CSRF-Token value attached to every request. The
// token is issued elsewhere (page metadata); the client only replays it.
func WithCSRFToken(token string) Option {
	return func(c *Client) { c.csrfToken = token }
}

// NewClient creates a client for the backend at baseURL backed by the given
// session store.
func NewClient(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server URL must be absolute: %q", baseURL)
	}

	c := &Client{
		baseURL: u,
		store:   store,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.httpClient = NewCachingHTTPClient("", jar)
	}

	c.mirror = session.NewCookieMirror(c.httpClient.Jar, u)
	c.pipeline = NewPipeline(store, c.mirror, c.httpClient, c, c.csrfToken)

	log.Debug().Str("server", u.String()).Msg("api client initialized")

	return c, nil
}

// Pipeline exposes the authenticated request pipeline for callers that build
// their own requests.
func (c *Client) Pipeline() *Pipeline {
	return c.pipeline
}

// Mirror exposes the token cookie mirror shared with the resolver.
func (c *Client) Mirror() *session.CookieMirror {
	return c.mirror
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

// WaitReady probes the backend until it answers, retrying transient failures
// with exponential backoff. Used by the CLI before interactive flows.
func (c *Client) WaitReady(ctx context.Context, maxWait time.Duration) error {
	probe := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String(), nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, err
		}
		resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return struct{}{}, fmt.Errorf("server not ready: status %d", resp.StatusCode)
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, probe,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(maxWait),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn().Err(err).Dur("next_retry", next).Msg("server not reachable, will retry")
		}))
	if err != nil {
		return fmt.Errorf("server did not become ready: %w", err)
	}
	return nil
}

// endpoint resolves an API path against the backend origin. The path may
// carry a query string, which must survive as a query rather than being
// escaped into the path.
func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = path
	u.RawQuery = ""
	if i := strings.Index(path, "?"); i >= 0 {
		u.Path = path[:i]
		u.RawQuery = path[i+1:]
	}
	return u.String()
}

// getJSON issues an authenticated GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// postJSON issues an authenticated POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, in, out)
}

// putJSON issues an authenticated PUT with a JSON body.
func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, in, out)
}

// deleteJSON issues an authenticated DELETE.
func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, out)
}

// doJSON routes a request through the pipeline and maps non-2xx responses to
// APIError. Auth failures never reach here as status codes; the pipeline
// converts them to its sentinel errors after teardown.
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.pipeline.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// getPlainJSON issues an unauthenticated GET and decodes a 2xx JSON body.
func (c *Client) getPlainJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiErrorFrom(resp.StatusCode, data)
	}

	return json.Unmarshal(data, out)
}

// postPlain issues an unauthenticated POST (login, register, refresh) and
// returns the raw status and body for endpoint-specific error mapping.
func (c *Client) postPlain(ctx context.Context, path string, in any) (int, []byte, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", c.csrfToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, data, nil
}

// apiErrorFrom builds the opaque backend error passthrough, lifting the
// conventional {"error": "..."} message when present.
func apiErrorFrom(status int, body []byte) *APIError {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Error
	if msg == "" {
		msg = envelope.Message
	}

	return &APIError{StatusCode: status, Message: msg, Body: body}
}
