package ports

import (
	"context"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// CredentialStore resolves a token subject to the identity behind it.
// Token subjects are usernames and are matched exactly. Lookups that find
// nothing return domain.ErrUserNotFound.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	RoleNamesFor(ctx context.Context, user *domain.User) ([]string, error)
}

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	CredentialStore
	// Create stores a new user. A taken username or email is reported as
	// domain.ErrUsernameTaken or domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsernameOrEmail prefers an exact username match over an email
	// match.
	FindByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// SetRoles replaces the user's role set.
	SetRoles(ctx context.Context, username string, roles []string) (*domain.User, error)
}
