package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.AuthEvent) error {
	m := AuthEventModel{
		ID:         e.ID,
		Type:       string(e.Type),
		Username:   e.Username,
		Success:    e.Success,
		Detail:     e.Detail,
		OccurredAt: e.OccurredAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
