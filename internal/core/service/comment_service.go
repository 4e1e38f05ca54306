package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	log      zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, log: log}
}

func (s *CommentService) Create(ctx context.Context, postID string, c *domain.Comment) (*domain.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c.PostID = postID
	c.CreatedAt, c.UpdatedAt = now, now

	created, err := s.comments.Create(ctx, c)
	if err != nil {
		s.log.Error().Err(err).Str("post_id", postID).Msg("failed to create comment")
		return nil, err
	}
	return created, nil
}

func (s *CommentService) List(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

// Get returns comment id provided it belongs to postID.
func (s *CommentService) Get(ctx context.Context, postID, id string) (*domain.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	c, err := s.comments.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewNotFound("Comment", "id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if c.PostID != postID {
		return nil, domain.ErrCommentNotInPost
	}
	return c, nil
}

func (s *CommentService) Update(ctx context.Context, postID, id string, in *domain.Comment) (*domain.Comment, error) {
	c, err := s.Get(ctx, postID, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Email = in.Email
	c.Body = in.Body
	c.UpdatedAt = time.Now().UTC()
	return s.comments.Update(ctx, c)
}

func (s *CommentService) Delete(ctx context.Context, postID, id string) error {
	if _, err := s.Get(ctx, postID, id); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

func (s *CommentService) requirePost(ctx context.Context, postID string) error {
	_, err := s.posts.FindByID(ctx, postID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound("Post", "id", postID)
	}
	if err != nil {
		return fmt.Errorf("find post: %w", err)
	}
	return nil
}
