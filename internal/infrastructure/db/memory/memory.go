// Package memory keeps every repository in process memory. It backs the
// "memory" storage driver used for local development and tests.
package memory

import (
	"context"
	"sync"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// Store holds the shared state behind the memory repositories.
type Store struct {
	mu         sync.RWMutex
	users      map[string]*domain.User
	categories map[string]*domain.Category
	posts      map[string]*domain.Post
	comments   map[string]*domain.Comment
	events     []*domain.AuthEvent
}

func NewStore() *Store {
	return &Store{
		users:      make(map[string]*domain.User),
		categories: make(map[string]*domain.Category),
		posts:      make(map[string]*domain.Post),
		comments:   make(map[string]*domain.Comment),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Events returns a copy of the recorded audit trail.
func (s *Store) Events() []domain.AuthEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.AuthEvent, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func cloneCategory(c *domain.Category) *domain.Category {
	cp := *c
	return &cp
}

func clonePost(p *domain.Post) *domain.Post {
	cp := *p
	cp.Comments = nil
	return &cp
}

func cloneComment(c *domain.Comment) *domain.Comment {
	cp := *c
	return &cp
}
