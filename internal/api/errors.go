package api

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the authentication lifecycle. ErrSessionExpired and
// ErrStillUnauthorized are terminal: the pipeline has already torn the
// session down and the caller should route the user to the login view.
var (
	// ErrInvalidCredentials is returned when login is rejected.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrDuplicateAccount is returned when registering an email that is
	// already taken.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrRefreshRejected is returned when the refresh token itself is
	// invalid or expired. Unrecoverable without new credentials.
	ErrRefreshRejected = errors.New("refresh token rejected")

	// ErrSessionExpired is returned by the pipeline after a failed silent
	// refresh. The local session has been cleared.
	ErrSessionExpired = errors.New("session expired")

	// ErrStillUnauthorized is returned when a request is rejected again
	// after a successful refresh and retry. The local session has been
	// cleared; retrying further would loop.
	ErrStillUnauthorized = errors.New("still unauthorized after token refresh")
)

// APIError is an opaque passthrough of a backend error response. The
// pipeline never interprets these beyond the status code; presentation is
// the caller's concern.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}

// ValidationError carries field-level messages from a rejected registration
// or form submission, for inline display.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	sort.Strings(parts)
	return e.Message + " (" + strings.Join(parts, "; ") + ")"
}

// IsAuthFailure reports whether err is one of the terminal authentication
// lifecycle failures handled centrally by the pipeline. View code should
// treat these as "redirect to login", never as a display error.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrStillUnauthorized) ||
		errors.Is(err, ErrRefreshRejected)
}
