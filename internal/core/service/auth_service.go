package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

var errUsernameHasAt = fmt.Errorf("%w: username must not contain '@'", domain.ErrInvalidInput)

// AuthService implements registration and login.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenIssuer
	limiter ports.LoginLimiter
	audit   ports.AuditSink
	log     zerolog.Logger
}

// NewAuthService wires an AuthService. limiter and audit may be nil.
func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenIssuer,
	limiter ports.LoginLimiter,
	audit ports.AuditSink,
	log zerolog.Logger,
) *AuthService {
	if limiter == nil {
		limiter = NopLimiter{}
	}
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &AuthService{users: users, tokens: tokens, limiter: limiter, audit: audit, log: log}
}

// Register creates an account holding ROLE_USER.
func (s *AuthService) Register(ctx context.Context, name, username, email, password string) (*domain.User, error) {
	name, username, email = strings.TrimSpace(name), strings.TrimSpace(username), strings.TrimSpace(email)
	if name == "" || username == "" || email == "" || password == "" {
		return nil, domain.ErrInvalidInput
	}
	if strings.Contains(username, "@") {
		return nil, errUsernameHasAt
	}

	// Usernames and emails share one login namespace.
	for _, check := range []struct {
		exists func(context.Context, string) (bool, error)
		value  string
		err    error
	}{
		{s.users.ExistsByUsername, username, domain.ErrUsernameTaken},
		{s.users.ExistsByEmail, username, domain.ErrUsernameTaken},
		{s.users.ExistsByEmail, email, domain.ErrEmailTaken},
		{s.users.ExistsByUsername, email, domain.ErrEmailTaken},
	} {
		taken, err := check.exists(ctx, check.value)
		if err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
		if taken {
			return nil, check.err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		Name:         name,
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Roles:        []string{domain.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Msg("user registered")
	s.audit.Publish(domain.AuthEvent{
		Type:       domain.AuthEventRegistered,
		Username:   created.Username,
		Success:    true,
		OccurredAt: now,
	})
	return created, nil
}

// Login checks credentials and mints an access token. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
//
// Failed attempts are counted per account, so a user's username and email
// share one budget. Identifiers that match no account are counted on their
// own lower-cased key.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.AccessToken, *domain.User, error) {
	login := strings.TrimSpace(usernameOrEmail)
	if login == "" || password == "" {
		return nil, nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsernameOrEmail(ctx, login)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	key := throttleKey(user, login)

	blocked, err := s.limiter.Blocked(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("login", login).Msg("login limiter unavailable, allowing attempt")
	} else if blocked {
		s.publishFailure(login, "throttled")
		return nil, nil, domain.ErrTooManyAttempts
	}

	if user == nil {
		// Unknown users pay for one bcrypt comparison too.
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		s.recordFailure(ctx, key, login, "unknown user")
		return nil, nil, domain.ErrInvalidCredentials
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.recordFailure(ctx, key, login, "bad password")
		return nil, nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("login", login).Msg("failed to reset login limiter")
	}

	token, err := s.IssueToken(user.Username)
	if err != nil {
		return nil, nil, err
	}

	s.log.Info().Str("username", user.Username).Msg("user signed in")
	s.audit.Publish(domain.AuthEvent{
		Type:       domain.AuthEventLoginSuccess,
		Username:   user.Username,
		Success:    true,
		OccurredAt: time.Now().UTC(),
	})
	return token, user, nil
}

// throttleKey names the failure counter for a login attempt.
func throttleKey(user *domain.User, login string) string {
	if user != nil {
		return "user:" + user.ID
	}
	return "login:" + strings.ToLower(login)
}

// IssueToken mints a bearer token for an already authenticated username.
func (s *AuthService) IssueToken(username string) (*domain.AccessToken, error) {
	signed, exp, err := s.tokens.Mint(username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &domain.AccessToken{Token: signed, TokenType: domain.TokenTypeBearer, ExpiresAt: exp}, nil
}

func (s *AuthService) recordFailure(ctx context.Context, key, login, detail string) {
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("login", login).Msg("failed to record login failure")
	}
	s.publishFailure(login, detail)
}

func (s *AuthService) publishFailure(login, detail string) {
	s.log.Info().Str("login", login).Str("reason", detail).Msg("sign in refused")
	s.audit.Publish(domain.AuthEvent{
		Type:       domain.AuthEventLoginFailure,
		Username:   login,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	})
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

func dummyHash() []byte {
	dummyOnce.Do(func() {
		dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	return dummy
}
