package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/flexfit/gymctl/internal/session"
)

// tokenResponse covers both response shapes the backend has shipped: the
// current {access_token, refresh_token, user} and the legacy {token, role}.
// Internally there is exactly one canonical Session.
type tokenResponse struct {
	AccessToken  string        `json:"access_token"`
	LegacyToken  string        `json:"token"`
	RefreshToken string        `json:"refresh_token"`
	User         *session.User `json:"user"`
	Role         session.Role  `json:"role"`
}

func (r *tokenResponse) token() string {
	if r.AccessToken != "" {
		return r.AccessToken
	}
	return r.LegacyToken
}

// RegistrationForm is the profile submitted by the signup flow. Field-level
// validation is the backend's; rejected submissions surface as
// ValidationError.
type RegistrationForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	DOB         string `json:"dob,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zipcode     string `json:"zipcode,omitempty"`
	AutoPayment bool   `json:"auto_payment"`
}

// UserProfile is the full profile served by the dashboard profile endpoint.
type UserProfile struct {
	ID               int          `json:"id"`
	Name             string       `json:"name"`
	Email            string       `json:"email"`
	Role             session.Role `json:"role"`
	DOB              string       `json:"dob,omitempty"`
	Address          string       `json:"address,omitempty"`
	City             string       `json:"city,omitempty"`
	State            string       `json:"state,omitempty"`
	Zipcode          string       `json:"zipcode,omitempty"`
	MembershipExpiry string       `json:"membership_expiry,omitempty"`
	AutoPayment      bool         `json:"auto_payment"`
	CreatedAt        string       `json:"created_at,omitempty"`
}

// Login authenticates with email and password. On success the session is
// stored and the token cookie mirrored before returning.
func (c *Client) Login(ctx context.Context, email, password string) (*session.Session, error) {
	status, body, err := c.postPlain(ctx, loginPath, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusUnauthorized:
		return nil, ErrInvalidCredentials
	case status < 200 || status > 299:
		return nil, apiErrorFrom(status, body)
	}

	sess, err := c.adoptTokenResponse(body)
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", email).Str("role", string(sess.Role())).Msg("logged in")

	return sess, nil
}

// Register creates an account. Duplicate emails surface as
// ErrDuplicateAccount, field rejections as ValidationError. When the backend
// issues tokens on registration the session is stored exactly as for login.
func (c *Client) Register(ctx context.Context, form RegistrationForm) (*session.Session, error) {
	status, body, err := c.postPlain(ctx, registerPath, form)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, registrationError(status, body)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode registration response: %w", err)
	}

	if resp.token() == "" {
		// Legacy backend: registration does not log the user in.
		log.Info().Str("email", form.Email).Msg("registered, login required")
		return &session.Session{User: resp.User}, nil
	}

	sess, err := c.adoptTokenResponse(body)
	if err != nil {
		return nil, err
	}

	log.Info().Str("email", form.Email).Msg("registered and logged in")

	return sess, nil
}

// Refresh exchanges the stored refresh token for a new access token. The
// refresh token may rotate; when the response omits one the old token is
// kept. Rejection is unrecoverable without new credentials.
func (c *Client) Refresh(ctx context.Context) (*session.Session, error) {
	sess, err := c.store.Get()
	if err != nil {
		return nil, err
	}
	if sess.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token held", ErrRefreshRejected)
	}

	status, body, err := c.postPlain(ctx, refreshPath, map[string]string{
		"refresh_token": sess.RefreshToken,
	})
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrRefreshRejected, status)
	}

	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if resp.token() == "" {
		return nil, fmt.Errorf("%w: response carried no access token", ErrRefreshRejected)
	}

	sess.AccessToken = resp.token()
	if resp.RefreshToken != "" {
		sess.RefreshToken = resp.RefreshToken
	}
	if resp.User != nil {
		sess.User = resp.User
	}

	if err := c.store.Set(sess); err != nil {
		return nil, err
	}
	c.mirror.Set(sess.AccessToken)

	log.Debug().Msg("access token refreshed")

	return sess, nil
}

// Logout tears the local session down unconditionally. The server is
// notified best-effort; its failure never blocks teardown.
func (c *Client) Logout(ctx context.Context) error {
	if sess, err := c.store.Get(); err == nil {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(logoutPath), nil)
		if err == nil {
			req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
			req.Header.Set("Content-Type", "application/json")
			if resp, err := c.httpClient.Do(req); err != nil {
				log.Warn().Err(err).Msg("server-side logout failed, clearing local session anyway")
			} else {
				drain(resp)
			}
		}
	}

	if err := c.store.Clear(); err != nil {
		return err
	}
	c.mirror.Clear()

	log.Info().Msg("logged out")

	return nil
}

// Profile fetches the caller's profile and updates the cached user.
func (c *Client) Profile(ctx context.Context) (*UserProfile, error) {
	var profile UserProfile
	if err := c.getJSON(ctx, profilePath, &profile); err != nil {
		return nil, err
	}

	// Keep the cached user current for role routing.
	if sess, err := c.store.Get(); err == nil {
		sess.User = &session.User{
			ID:    profile.ID,
			Name:  profile.Name,
			Email: profile.Email,
			Role:  profile.Role,
		}
		if err := c.store.Set(sess); err != nil {
			log.Warn().Err(err).Msg("failed to update cached user")
		}
	}

	return &profile, nil
}

// adoptTokenResponse parses a token-bearing response, stores the session and
// mirrors the cookie. Both tokens and the user are committed in one store
// write.
func (c *Client) adoptTokenResponse(body []byte) (*session.Session, error) {
	var resp tokenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if resp.token() == "" {
		return nil, fmt.Errorf("auth response carried no access token")
	}

	sess := &session.Session{
		AccessToken:  resp.token(),
		RefreshToken: resp.RefreshToken,
		User:         resp.User,
	}

	// Legacy responses carry only a bare role; recover what the token
	// claims hold so role routing still works.
	if sess.User == nil {
		user := &session.User{Role: resp.Role}
		if claims, err := session.ParseClaims(sess.AccessToken); err == nil {
			user.Email = claims.Email
			if user.Role == "" {
				user.Role = claims.Role
			}
		}
		sess.User = user
	}

	if err := c.store.Set(sess); err != nil {
		return nil, err
	}
	c.mirror.Set(sess.AccessToken)

	return sess, nil
}

// registrationError maps a rejected registration to the error taxonomy.
func registrationError(status int, body []byte) error {
	var envelope struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(body, &envelope)

	if strings.Contains(strings.ToLower(envelope.Error), "exists") {
		return ErrDuplicateAccount
	}
	if len(envelope.Errors) > 0 || (status == http.StatusBadRequest && envelope.Error != "") {
		msg := envelope.Error
		if msg == "" {
			msg = "registration rejected"
		}
		return &ValidationError{Message: msg, Fields: envelope.Errors}
	}

	return apiErrorFrom(status, body)
}
