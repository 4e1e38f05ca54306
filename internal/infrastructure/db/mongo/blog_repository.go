package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

const (
	collectionCategories = "categories"
	collectionPosts      = "posts"
	collectionComments   = "comments"
)

// ── Categories ────────────────────────────────────────────────────────────────

type categoryDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d categoryDoc) toDomain() *domain.Category {
	return &domain.Category{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

type CategoryRepository struct {
	col *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{col: db.Collection(collectionCategories)}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := categoryDoc{ID: primitive.NewObjectID(), Name: c.Name, Description: c.Description, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc categoryDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	var docs []categoryDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	out := make([]*domain.Category, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	oid, ok := objectID(c.ID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := updateByID(ctx, r.col, oid, bson.M{
		"name":        c.Name,
		"description": c.Description,
		"updated_at":  c.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

// ── Posts ─────────────────────────────────────────────────────────────────────

type postDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Content     string             `bson:"content"`
	CategoryID  string             `bson:"category_id"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

func (d postDoc) toDomain() *domain.Post {
	return &domain.Post{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Content:     d.Content,
		CategoryID:  d.CategoryID,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

var postSortKeys = map[domain.PostSortField]string{
	domain.SortByID:        "_id",
	domain.SortByTitle:     "title",
	domain.SortByCreatedAt: "created_at",
}

type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

func (r *PostRepository) Create(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := postDoc{
		ID:          primitive.NewObjectID(),
		Title:       p.Title,
		Description: p.Description,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc postDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of posts and the total count.
func (r *PostRepository) List(ctx context.Context, req domain.PageRequest) ([]*domain.Post, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	key, ok := postSortKeys[req.SortBy]
	if !ok {
		key = "_id"
	}
	dir := 1
	if req.Desc {
		dir = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: key, Value: dir}}).
		SetSkip(int64(req.Offset())).
		SetLimit(int64(req.PageSize))

	posts, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Post, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.find(ctx, bson.M{"category_id": categoryID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

func (r *PostRepository) Update(ctx context.Context, p *domain.Post) (*domain.Post, error) {
	oid, ok := objectID(p.ID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := updateByID(ctx, r.col, oid, bson.M{
		"title":       p.Title,
		"description": p.Description,
		"content":     p.Content,
		"category_id": p.CategoryID,
		"updated_at":  p.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, p.ID)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *PostRepository) DeleteByCategory(ctx context.Context, categoryID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := r.col.DeleteMany(ctx, bson.M{"category_id": categoryID}); err != nil {
		return fmt.Errorf("delete posts by category: %w", err)
	}
	return nil
}

func (r *PostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Post, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	out := make([]*domain.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// ── Comments ──────────────────────────────────────────────────────────────────

type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	PostID    string             `bson:"post_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Body      string             `bson:"body"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID.Hex(),
		PostID:    d.PostID,
		Name:      d.Name,
		Email:     d.Email,
		Body:      d.Body,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type CommentRepository struct {
	col *mongo.Collection
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(collectionComments)}
}

func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := commentDoc{
		ID:        primitive.NewObjectID(),
		PostID:    c.PostID,
		Name:      c.Name,
		Email:     c.Email,
		Body:      c.Body,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc commentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*domain.Comment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"post_id": postID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CommentRepository) Update(ctx context.Context, c *domain.Comment) (*domain.Comment, error) {
	oid, ok := objectID(c.ID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := updateByID(ctx, r.col, oid, bson.M{
		"name":       c.Name,
		"email":      c.Email,
		"body":       c.Body,
		"updated_at": c.UpdatedAt,
	}); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, c.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *CommentRepository) DeleteByPost(ctx context.Context, postID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	if _, err := r.col.DeleteMany(ctx, bson.M{"post_id": postID}); err != nil {
		return fmt.Errorf("delete comments by post: %w", err)
	}
	return nil
}

// ── Shared helpers ────────────────────────────────────────────────────────────

func updateByID(ctx context.Context, col *mongo.Collection, oid primitive.ObjectID, set bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update %s: %w", col.Name(), err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
