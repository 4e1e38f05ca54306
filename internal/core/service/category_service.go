package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	posts      ports.PostRepository
	comments   ports.CommentRepository
	log        zerolog.Logger
}

func NewCategoryService(
	categories ports.CategoryRepository,
	posts ports.PostRepository,
	comments ports.CommentRepository,
	log zerolog.Logger,
) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, comments: comments, log: log}
}

func (s *CategoryService) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create category")
		return nil, err
	}
	s.log.Info().Str("category_id", created.ID).Msg("category created")
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	c, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFound("Category", "id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Update(ctx context.Context, id string, in *domain.Category) (*domain.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: category name is required", domain.ErrInvalidInput)
	}
	c.Name = in.Name
	c.Description = in.Description
	c.UpdatedAt = time.Now().UTC()
	return s.categories.Update(ctx, c)
}

// Delete removes the category together with its posts and their comments.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	posts, err := s.posts.ListByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	for _, p := range posts {
		if err := s.comments.DeleteByPost(ctx, p.ID); err != nil {
			return fmt.Errorf("delete category: comments of post %s: %w", p.ID, err)
		}
	}
	if err := s.posts.DeleteByCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category: posts: %w", err)
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info().Str("category_id", id).Int("posts", len(posts)).Msg("category deleted")
	return nil
}
