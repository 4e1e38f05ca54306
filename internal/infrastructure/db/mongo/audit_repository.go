package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

const collectionAuthEvents = "auth_events"

// AuditRepository persists the authentication audit trail.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuthEvents)}
}

// InsertEvent appends one entry to the auth_events collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, e *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"type":        string(e.Type),
		"username":    e.Username,
		"success":     e.Success,
		"occurred_at": e.OccurredAt.UTC(),
	}
	if e.ID != "" {
		doc["event_id"] = e.ID
	}
	if e.Detail != "" {
		doc["detail"] = e.Detail
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
