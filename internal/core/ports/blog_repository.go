package ports

import (
	"context"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// Lookups by ID in the repositories below return domain.ErrNotFound when no
// row matches. The service layer turns that into a domain.NotFoundError.

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	FindByID(ctx context.Context, id string) (*domain.Post, error)
	// List returns one page of posts ordered by req and the total row count.
	List(ctx context.Context, req domain.PageRequest) ([]*domain.Post, int64, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Post, error)
	Update(ctx context.Context, p *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID string) error
}
