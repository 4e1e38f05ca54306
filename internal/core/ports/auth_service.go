package ports

import (
	"context"
	"time"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// TokenIssuer mints access tokens for an authenticated username.
type TokenIssuer interface {
	Mint(username string) (token string, expiresAt time.Time, err error)
}

// LoginLimiter throttles repeated failed logins per key.
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type AuthService interface {
	Register(ctx context.Context, name, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (*domain.AccessToken, *domain.User, error)
}

type UserService interface {
	Profile(ctx context.Context, username string) (*domain.User, error)
	SetRoles(ctx context.Context, username string, roles []string) (*domain.User, error)
}
