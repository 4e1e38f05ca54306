package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

// UserService serves account profiles and role administration.
type UserService struct {
	users ports.UserRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewUserService(users ports.UserRepository, audit ports.AuditSink, log zerolog.Logger) *UserService {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &UserService{users: users, audit: audit, log: log}
}

func (s *UserService) Profile(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewNotFound("User", "username", username)
	}
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return u, nil
}

// SetRoles replaces the role set of username. Every role must be known and
// the set must not be empty.
func (s *UserService) SetRoles(ctx context.Context, username string, roles []string) (*domain.User, error) {
	normalized, err := normalizeRoles(roles)
	if err != nil {
		return nil, err
	}

	u, err := s.users.SetRoles(ctx, username, normalized)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.NewNotFound("User", "username", username)
	}
	if err != nil {
		return nil, fmt.Errorf("set roles: %w", err)
	}

	s.log.Info().Str("username", username).Strs("roles", normalized).Msg("roles changed")
	s.audit.Publish(domain.AuthEvent{
		Type:       domain.AuthEventRolesChanged,
		Username:   username,
		Success:    true,
		Detail:     strings.Join(normalized, ","),
		OccurredAt: time.Now().UTC(),
	})
	return u, nil
}

// BootstrapAdmin creates an administrator account unless username already
// exists. It reports whether an account was created.
func (s *UserService) BootstrapAdmin(ctx context.Context, username, email, password string) (bool, error) {
	if username == "" || email == "" || password == "" {
		return false, nil
	}
	if strings.Contains(username, "@") {
		return false, fmt.Errorf("bootstrap admin: %w", errUsernameHasAt)
	}
	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}
	if exists {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("bootstrap admin: hash password: %w", err)
	}
	now := time.Now().UTC()
	if _, err := s.users.Create(ctx, &domain.User{
		Name:         username,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser, domain.RoleAdmin},
		CreatedAt:    now,
		UpdatedAt:    now,
	}); err != nil {
		return false, fmt.Errorf("bootstrap admin: %w", err)
	}

	s.log.Info().Str("username", username).Msg("bootstrap admin created")
	return true, nil
}

func normalizeRoles(roles []string) ([]string, error) {
	seen := make(map[string]struct{}, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		r = strings.ToUpper(strings.TrimSpace(r))
		if !domain.IsKnownRole(r) {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidRole, r)
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one role is required", domain.ErrInvalidRole)
	}
	return out, nil
}
