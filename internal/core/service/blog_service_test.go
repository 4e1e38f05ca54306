package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/infrastructure/db/memory"
)

type blogFixture struct {
	categories *CategoryService
	posts      *PostService
	comments   *CommentService
}

func newBlogFixture() *blogFixture {
	store := memory.NewStore()
	cats := memory.NewCategoryRepository(store)
	posts := memory.NewPostRepository(store)
	comments := memory.NewCommentRepository(store)
	return &blogFixture{
		categories: NewCategoryService(cats, posts, comments, zerolog.Nop()),
		posts:      NewPostService(posts, cats, comments, zerolog.Nop()),
		comments:   NewCommentService(comments, posts, zerolog.Nop()),
	}
}

func (f *blogFixture) seed(t *testing.T) (*domain.Category, *domain.Post) {
	t.Helper()
	ctx := context.Background()
	cat, err := f.categories.Create(ctx, &domain.Category{Name: "Go", Description: "Gophers"})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	post, err := f.posts.Create(ctx, &domain.Post{Title: "Hello", Description: "first post here", Content: "body", CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return cat, post
}

func TestPostService_CreateRequiresCategory(t *testing.T) {
	f := newBlogFixture()

	_, err := f.posts.Create(context.Background(), &domain.Post{Title: "x", CategoryID: "nope"})
	var nf *domain.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "Category" || nf.Value != "nope" {
		t.Fatalf("expected Category not found, got %v", err)
	}
}

func TestPostService_GetIncludesComments(t *testing.T) {
	f := newBlogFixture()
	_, post := f.seed(t)
	ctx := context.Background()

	if _, err := f.comments.Create(ctx, post.ID, &domain.Comment{Name: "Ann", Email: "ann@example.com", Body: "great article"}); err != nil {
		t.Fatalf("create comment: %v", err)
	}

	got, err := f.posts.Get(ctx, post.ID)
	if err != nil {
		t.Fatalf("get post: %v", err)
	}
	if len(got.Comments) != 1 || got.Comments[0].PostID != post.ID {
		t.Fatalf("expected one comment on post, got %+v", got.Comments)
	}

	if _, err := f.posts.Get(ctx, "missing"); err == nil || err.Error() != "Post not found with id : 'missing'" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPostService_ListPaging(t *testing.T) {
	f := newBlogFixture()
	cat, _ := f.seed(t)
	ctx := context.Background()
	for i := 0; i < 24; i++ {
		_, _ = f.posts.Create(ctx, &domain.Post{Title: fmt.Sprintf("post %02d", i), CategoryID: cat.ID})
	}

	page, err := f.posts.List(ctx, domain.PageRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.PageSize != domain.DefaultPageSize || len(page.Content) != 10 || page.TotalElements != 25 || page.TotalPages != 3 || page.Last {
		t.Fatalf("unexpected default page: %+v", page)
	}

	page, _ = f.posts.List(ctx, domain.PageRequest{PageNo: 2, PageSize: 10})
	if len(page.Content) != 5 || !page.Last {
		t.Fatalf("unexpected last page: len=%d last=%v", len(page.Content), page.Last)
	}

	page, _ = f.posts.List(ctx, domain.PageRequest{PageSize: 1000})
	if page.PageSize != domain.MaxPageSize {
		t.Fatalf("page size not capped: %d", page.PageSize)
	}

	if _, err := f.posts.List(ctx, domain.PageRequest{PageNo: -1}); !errors.Is(err, domain.ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination, got %v", err)
	}
	if _, err := f.posts.List(ctx, domain.PageRequest{PageNo: 922337203685477581, PageSize: 10}); !errors.Is(err, domain.ErrInvalidPagination) {
		t.Fatalf("expected ErrInvalidPagination for an overflowing offset, got %v", err)
	}

	page, err = f.posts.List(ctx, domain.PageRequest{PageNo: math.MaxInt / domain.MaxPageSize, PageSize: domain.MaxPageSize})
	if err != nil || len(page.Content) != 0 {
		t.Fatalf("far page: %+v, %v", page, err)
	}
}

func TestCategoryService_DeleteCascades(t *testing.T) {
	f := newBlogFixture()
	cat, post := f.seed(t)
	ctx := context.Background()
	c, _ := f.comments.Create(ctx, post.ID, &domain.Comment{Name: "Ann", Email: "ann@example.com", Body: "great article"})

	if err := f.categories.Delete(ctx, cat.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, err := f.posts.Get(ctx, post.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("post survived category delete: %v", err)
	}
	if _, err := f.comments.Get(ctx, post.ID, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("comment survived category delete: %v", err)
	}
	if err := f.categories.Delete(ctx, cat.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCategoryService_Update(t *testing.T) {
	f := newBlogFixture()
	cat, _ := f.seed(t)

	updated, err := f.categories.Update(context.Background(), cat.ID, &domain.Category{Name: "Golang", Description: "renamed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Golang" || updated.Description != "renamed" {
		t.Fatalf("unexpected category: %+v", updated)
	}
	if _, err := f.categories.Update(context.Background(), cat.ID, &domain.Category{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCommentService_WrongPost(t *testing.T) {
	f := newBlogFixture()
	cat, post := f.seed(t)
	ctx := context.Background()
	other, _ := f.posts.Create(ctx, &domain.Post{Title: "Other", CategoryID: cat.ID})
	c, _ := f.comments.Create(ctx, post.ID, &domain.Comment{Name: "Ann", Email: "ann@example.com", Body: "great article"})

	if _, err := f.comments.Get(ctx, other.ID, c.ID); !errors.Is(err, domain.ErrCommentNotInPost) {
		t.Fatalf("expected ErrCommentNotInPost, got %v", err)
	}
	if _, err := f.comments.Update(ctx, other.ID, c.ID, &domain.Comment{Body: "hijacked body"}); !errors.Is(err, domain.ErrCommentNotInPost) {
		t.Fatalf("expected ErrCommentNotInPost on update, got %v", err)
	}
	if err := f.comments.Delete(ctx, other.ID, c.ID); !errors.Is(err, domain.ErrCommentNotInPost) {
		t.Fatalf("expected ErrCommentNotInPost on delete, got %v", err)
	}

	updated, err := f.comments.Update(ctx, post.ID, c.ID, &domain.Comment{Name: "Ann", Email: "ann@example.com", Body: "edited article comment"})
	if err != nil || updated.Body != "edited article comment" {
		t.Fatalf("update comment: %+v, %v", updated, err)
	}
	if err := f.comments.Delete(ctx, post.ID, c.ID); err != nil {
		t.Fatalf("delete comment: %v", err)
	}
	list, _ := f.comments.List(ctx, post.ID)
	if len(list) != 0 {
		t.Fatalf("expected no comments, got %d", len(list))
	}
}

func TestPostService_DeleteRemovesComments(t *testing.T) {
	f := newBlogFixture()
	_, post := f.seed(t)
	ctx := context.Background()
	c, _ := f.comments.Create(ctx, post.ID, &domain.Comment{Name: "Ann", Email: "ann@example.com", Body: "great article"})

	if err := f.posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	if _, err := f.comments.Get(ctx, post.ID, c.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected post not found, got %v", err)
	}
}
