package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// KnownRoles lists every role name that may be granted to a user.
var KnownRoles = []string{RoleUser, RoleAdmin}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrIdentityNotFound   = errors.New("identity not found for token subject")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("bad credentials")
	ErrInvalidRole        = errors.New("unknown role")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
)

// User models a registered account. It is the identity the credential store
// hands to the authentication layer.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether role is in the user's role set.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsKnownRole reports whether name is a grantable role.
func IsKnownRole(name string) bool {
	for _, r := range KnownRoles {
		if r == name {
			return true
		}
	}
	return false
}

// TokenTypeBearer is the scheme clients put in front of access tokens.
const TokenTypeBearer = "Bearer"

// AccessToken is a minted bearer token handed to a client.
type AccessToken struct {
	Token     string    `json:"accessToken"`
	TokenType string    `json:"tokenType"`
	ExpiresAt time.Time `json:"expiresAt"`
}
