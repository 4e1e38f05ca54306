package ports

import (
	"context"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// AuditRepository persists the authentication audit trail.
type AuditRepository interface {
	InsertEvent(ctx context.Context, e *domain.AuthEvent) error
}

// AuditSink accepts audit events without blocking the caller. Events may be
// dropped under load.
type AuditSink interface {
	Publish(e domain.AuthEvent)
}
