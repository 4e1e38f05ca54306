package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

type PostService struct {
	posts      ports.PostRepository
	categories ports.CategoryRepository
	comments   ports.CommentRepository
	log        zerolog.Logger
}

func NewPostService(
	posts ports.PostRepository,
	categories ports.CategoryRepository,
	comments ports.CommentRepository,
	log zerolog.Logger,
) *PostService {
	return &PostService{posts: posts, categories: categories, comments: comments, log: log}
}

// Create stores a post after checking its category exists.
func (s *PostService) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	if err := s.requireCategory(ctx, p.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Comments = nil

	created, err := s.posts.Create(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create post")
		return nil, err
	}
	s.log.Info().Str("post_id", created.ID).Str("category_id", created.CategoryID).Msg("post created")
	return created, nil
}

// Get returns the post with its comments attached.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: comments: %w", err)
	}
	p.Comments = comments
	return p, nil
}

// List returns one page of posts. Zero values select the first page of
// DefaultPageSize posts ordered by id ascending; PageSize is capped at
// MaxPageSize.
func (s *PostService) List(ctx context.Context, req domain.PageRequest) (*domain.Page[*domain.Post], error) {
	req, err := normalizePage(req)
	if err != nil {
		return nil, err
	}
	posts, total, err := s.posts.List(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return domain.NewPage(posts, req, total), nil
}

func (s *PostService) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Post, error) {
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.posts.ListByCategory(ctx, categoryID)
}

func (s *PostService) Update(ctx context.Context, id string, in *domain.Post) (*domain.Post, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != p.CategoryID {
		if err := s.requireCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
	}
	p.Title = in.Title
	p.Description = in.Description
	p.Content = in.Content
	p.CategoryID = in.CategoryID
	p.UpdatedAt = time.Now().UTC()
	return s.posts.Update(ctx, p)
}

// Delete removes the post and its comments.
func (s *PostService) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.comments.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("delete post: comments: %w", err)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.log.Info().Str("post_id", id).Msg("post deleted")
	return nil
}

func (s *PostService) find(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFound("Post", "id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return p, nil
}

func (s *PostService) requireCategory(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: categoryId is required", domain.ErrInvalidInput)
	}
	_, err := s.categories.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound("Category", "id", id)
	}
	if err != nil {
		return fmt.Errorf("find category: %w", err)
	}
	return nil
}

func normalizePage(req domain.PageRequest) (domain.PageRequest, error) {
	if req.PageNo < 0 || req.PageSize < 0 {
		return req, domain.ErrInvalidPagination
	}
	if req.PageSize == 0 {
		req.PageSize = domain.DefaultPageSize
	}
	if req.PageSize > domain.MaxPageSize {
		req.PageSize = domain.MaxPageSize
	}
	if req.PageNo > math.MaxInt/req.PageSize {
		return req, domain.ErrInvalidPagination
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortByID
	}
	return req, nil
}
