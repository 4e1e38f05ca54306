package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrEmailTaken
		}
	}
	c := cloneUser(user)
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.byUsername(username); u != nil {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) FindByUsernameOrEmail(_ context.Context, usernameOrEmail string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u := r.byUsername(usernameOrEmail); u != nil {
		return cloneUser(u), nil
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, usernameOrEmail) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *UserRepository) RoleNamesFor(_ context.Context, user *domain.User) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return append([]string(nil), u.Roles...), nil
}

func (r *UserRepository) ExistsByUsername(_ context.Context, username string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byUsername(username) != nil, nil
}

func (r *UserRepository) ExistsByEmail(_ context.Context, email string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepository) SetRoles(_ context.Context, username string, roles []string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u := r.byUsername(username)
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	u.Roles = append([]string(nil), roles...)
	return cloneUser(u), nil
}

// byUsername expects the caller to hold the store lock.
func (r *UserRepository) byUsername(username string) *domain.User {
	for _, u := range r.s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}
