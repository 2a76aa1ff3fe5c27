package session

import "errors"

// Sentinel errors
var (
	// ErrNoSession is returned when no session is stored for the current profile.
	ErrNoSession = errors.New("no session")

	// ErrCorruptSession is returned when the stored session cannot be decoded.
	ErrCorruptSession = errors.New("corrupt session data")
)

// Role is the access level carried in the user's role claim.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTrainer   Role = "trainer"
	RoleMember    Role = "member"
	RoleNonMember Role = "non_member"
)

// User is the profile cached alongside the tokens.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the authenticated identity bound to the current profile.
// AccessToken and RefreshToken are opaque bearer strings; the access token
// carries an exp claim readable without a server round trip (see claims.go).
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Role returns the user's role, or the empty role when no profile is cached.
func (s *Session) Role() Role {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.Role
}
