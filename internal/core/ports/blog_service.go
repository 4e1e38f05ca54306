package ports

import (
	"context"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type CategoryService interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, id string, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type PostService interface {
	Create(ctx context.Context, p *domain.Post) (*domain.Post, error)
	// Get returns the post with its comments.
	Get(ctx context.Context, id string) (*domain.Post, error)
	List(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error)
	ListByCategory(ctx context.Context, categoryID string) ([]*domain.Post, error)
	Update(ctx context.Context, id string, p *domain.Post) (*domain.Post, error)
	Delete(ctx context.Context, id string) error
}

type CommentService interface {
	Create(ctx context.Context, postID string, c *domain.Comment) (*domain.Comment, error)
	List(ctx context.Context, postID string) ([]*domain.Comment, error)
	Get(ctx context.Context, postID, id string) (*domain.Comment, error)
	Update(ctx context.Context, postID, id string, c *domain.Comment) (*domain.Comment, error)
	Delete(ctx context.Context, postID, id string) error
}
