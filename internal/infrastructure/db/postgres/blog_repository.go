package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

// validID reports whether id can be compared against a uuid column.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func notFoundOr(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m := CategoryModel{ID: c.ID, Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return toDomainCategory(m), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var m CategoryModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "find category")
	}
	return toDomainCategory(m), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	var rows []CategoryModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]*domain.Category, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainCategory(m))
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	res := r.db.WithContext(ctx).Model(&CategoryModel{ID: c.ID}).Updates(map[string]any{
		"name":        c.Name,
		"description": c.Description,
		"updated_at":  c.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&CategoryModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func toDomainCategory(m CategoryModel) *domain.Category {
	return &domain.Category{ID: m.ID, Name: m.Name, Description: m.Description, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

var postSortColumns = map[domain.PostSortField]string{
	domain.SortByID:        "id",
	domain.SortByTitle:     "title",
	domain.SortByCreatedAt: "created_at",
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	m := toPostModel(p)
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return toDomainPost(m), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var m PostModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "find post")
	}
	return toDomainPost(m), nil
}

func (r *PostRepository) List(ctx context.Context, req domain.PageRequest) ([]*domain.Post, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&PostModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	col, ok := postSortColumns[req.SortBy]
	if !ok {
		col = "id"
	}
	var rows []PostModel
	err := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: req.Desc}).
		Offset(req.Offset()).
		Limit(req.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	return toDomainPosts(rows), total, nil
}

func (r *PostRepository) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Post, error) {
	if !validID(categoryID) {
		return []*domain.Post{}, nil
	}
	var rows []PostModel
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	return toDomainPosts(rows), nil
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	res := r.db.WithContext(ctx).Model(&PostModel{ID: p.ID}).Updates(map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"content":     p.Content,
		"category_id": p.CategoryID,
		"updated_at":  p.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&PostModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	if !validID(categoryID) {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Delete(&PostModel{}).Error; err != nil {
		return fmt.Errorf("delete posts by category: %w", err)
	}
	return nil
}

func toPostModel(p *domain.Post) PostModel {
	return PostModel{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toDomainPost(m PostModel) *domain.Post {
	return &domain.Post{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Content:     m.Content,
		CategoryID:  m.CategoryID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toDomainPosts(rows []PostModel) []*domain.Post {
	out := make([]*domain.Post, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPost(m))
	}
	return out
}

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	m := CommentModel{
		ID:        c.ID,
		PostID:    c.PostID,
		Name:      c.Name,
		Email:     c.Email,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return toDomainComment(m), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	var m CommentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "find comment")
	}
	return toDomainComment(m), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	if !validID(postID) {
		return []*domain.Comment{}, nil
	}
	var rows []CommentModel
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]*domain.Comment, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainComment(m))
	}
	return out, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	res := r.db.WithContext(ctx).Model(&CommentModel{ID: c.ID}).Updates(map[string]any{
		"name":       c.Name,
		"email":      c.Email,
		"body":       c.Body,
		"updated_at": c.UpdatedAt,
	})
	if res.Error != nil {
		return nil, fmt.Errorf("update comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Delete(&CommentModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete comment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	if !validID(postID) {
		return nil
	}
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&CommentModel{}).Error; err != nil {
		return fmt.Errorf("delete comments by post: %w", err)
	}
	return nil
}

func toDomainComment(m CommentModel) *domain.Comment {
	return &domain.Comment{
		ID:        m.ID,
		PostID:    m.PostID,
		Name:      m.Name,
		Email:     m.Email,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
