package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type AuditRepository struct {
	s *Store
}

func NewAuditRepository(s *Store) *AuditRepository {
	return &AuditRepository{s: s}
}

func (r *AuditRepository) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	cp := *e
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.mu.Lock()
	r.s.events = append(r.s.events, &cp)
	r.s.mu.Unlock()
	return nil
}
