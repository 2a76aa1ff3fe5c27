package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoExpiry is returned when the access token carries no exp claim.
var ErrNoExpiry = errors.New("token has no expiry claim")

// Claims are the token claims the client reads without verification.
// Verification is the server's job; the client only needs the expiry and the
// role for routing decisions.
type Claims struct {
	jwt.RegisteredClaims
	Role  Role   `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
}

// ParseClaims decodes the claims of a bearer token without verifying its
// signature. The token remains opaque as a credential; only the embedded
// claims are inspected.
func ParseClaims(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token claims: %w", err)
	}
	return claims, nil
}

// ExpiresAt returns the expiry of a bearer token read from its exp claim.
func ExpiresAt(token string) (time.Time, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiry
	}
	return claims.ExpiresAt.Time, nil
}

// Expired reports whether the token's exp claim is in the past. Tokens with
// no readable expiry are treated as expired.
func Expired(token string, now time.Time) bool {
	exp, err := ExpiresAt(token)
	if err != nil {
		return true
	}
	return now.After(exp)
}
