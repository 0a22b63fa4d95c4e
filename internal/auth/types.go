package auth

import (
	"errors"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
// Usernames must be 1-64 characters, alphanumeric with dots, hyphens, underscores.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Role represents an authorisation tier in the system.
type Role string

const (
	// RoleStandard is a regular shopper account: browse the catalog,
	// fetch recommendations, manage their own profile.
	RoleStandard Role = "standard"

	// RoleAdmin can additionally manage the product catalog and change
	// account roles. Assigned via the seed account or by another admin.
	RoleAdmin Role = "admin"
)

// ValidRoles is the closed set of account roles.
var ValidRoles = []Role{RoleStandard, RoleAdmin}

// IsValidRole returns true if the role is a member of the closed role set.
func IsValidRole(r Role) bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Satisfies reports whether a principal holding role r meets the given
// requirement. The hierarchy is strictly two-level: admin satisfies
// everything, standard satisfies only standard.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}

// User represents a stored account record.
type User struct {
	ID           string    `json:"user_id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // never serialised
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Principal is the verified identity reconstructed from a valid access
// token. It lives for the duration of one request and is never persisted.
type Principal struct {
	Subject string
	Role    Role
}

// Sentinel errors for auth operations.
var (
	// ErrInvalidCredentials is returned for both unknown-username and
	// wrong-password logins. The two cases are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrUserNotFound   = errors.New("user not found")
	ErrUsernameExists = errors.New("username already exists")
	ErrUserIDExists   = errors.New("user id already exists")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrForbidden      = errors.New("insufficient permissions")
)
