package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

type CategoryRepository struct {
	s *Store
}

func NewCategoryRepository(s *Store) *CategoryRepository {
	return &CategoryRepository{s: s}
}

func (r *CategoryRepository) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	cp := cloneCategory(c)
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.mu.Lock()
	r.s.categories[cp.ID] = cp
	r.s.mu.Unlock()
	return cloneCategory(cp), nil
}

func (r *CategoryRepository) FindByID(_ context.Context, id string) (*domain.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCategory(c), nil
}

func (r *CategoryRepository) List(_ context.Context) ([]*domain.Category, error) {
	r.s.mu.RLock()
	out := make([]*domain.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return cloneCategory(c), nil
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

type PostRepository struct {
	s *Store
}

func NewPostRepository(s *Store) *PostRepository {
	return &PostRepository{s: s}
}

func (r *PostRepository) Create(_ context.Context, p *domain.Post) (*domain.Post, error) {
	cp := clonePost(p)
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.mu.Lock()
	r.s.posts[cp.ID] = cp
	r.s.mu.Unlock()
	return clonePost(cp), nil
}

func (r *PostRepository) FindByID(_ context.Context, id string) (*domain.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePost(p), nil
}

func (r *PostRepository) List(_ context.Context, req domain.PageRequest) ([]*domain.Post, int64, error) {
	r.s.mu.RLock()
	all := make([]*domain.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		all = append(all, clonePost(p))
	}
	r.s.mu.RUnlock()

	less := postLess(req.SortBy)
	sort.SliceStable(all, func(i, j int) bool {
		if req.Desc {
			return less(all[j], all[i])
		}
		return less(all[i], all[j])
	})

	total := int64(len(all))
	start := req.Offset()
	if start < 0 || start >= len(all) {
		return []*domain.Post{}, total, nil
	}
	end := start + req.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func postLess(field domain.PostSortField) func(a, b *domain.Post) bool {
	switch field {
	case domain.SortByTitle:
		return func(a, b *domain.Post) bool { return strings.Compare(a.Title, b.Title) < 0 }
	case domain.SortByCreatedAt:
		return func(a, b *domain.Post) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return func(a, b *domain.Post) bool { return a.ID < b.ID }
	}
}

func (r *PostRepository) ListByCategory(_ context.Context, categoryID string) ([]*domain.Post, error) {
	r.s.mu.RLock()
	out := make([]*domain.Post, 0)
	for _, p := range r.s.posts {
		if p.CategoryID == categoryID {
			out = append(out, clonePost(p))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *PostRepository) Update(_ context.Context, p *domain.Post) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.s.posts[p.ID] = clonePost(p)
	return clonePost(p), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

func (r *PostRepository) DeleteByCategory(_ context.Context, categoryID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.posts {
		if p.CategoryID == categoryID {
			delete(r.s.posts, id)
		}
	}
	return nil
}

type CommentRepository struct {
	s *Store
}

func NewCommentRepository(s *Store) *CommentRepository {
	return &CommentRepository{s: s}
}

func (r *CommentRepository) Create(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	cp := cloneComment(c)
	if cp.ID == "" {
		cp.ID = uuid.NewString()
	}
	r.s.mu.Lock()
	r.s.comments[cp.ID] = cp
	r.s.mu.Unlock()
	return cloneComment(cp), nil
}

func (r *CommentRepository) FindByID(_ context.Context, id string) (*domain.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneComment(c), nil
}

func (r *CommentRepository) ListByPost(_ context.Context, postID string) ([]*domain.Comment, error) {
	r.s.mu.RLock()
	out := make([]*domain.Comment, 0)
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, cloneComment(c))
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *CommentRepository) Update(_ context.Context, c *domain.Comment) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.s.comments[c.ID] = cloneComment(c)
	return cloneComment(c), nil
}

func (r *CommentRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r *CommentRepository) DeleteByPost(_ context.Context, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.comments {
		if c.PostID == postID {
			delete(r.s.comments, id)
		}
	}
	return nil
}
