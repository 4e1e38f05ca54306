package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

func TestUserRepository_UniqueUsernameAndEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())

	created, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", Roles: []string{domain.RoleUser}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	if _, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "other@example.com"}); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, err := repo.Create(ctx, &domain.User{Username: "alice2", Email: "ALICE@example.com"}); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserRepository_UsernameMatchWinsOverEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	_, _ = repo.Create(ctx, &domain.User{Username: "boss", Email: "boss@example.com"})
	_, _ = repo.Create(ctx, &domain.User{Username: "boss@example.com", Email: "mallory@example.com"})

	for i := 0; i < 20; i++ {
		u, err := repo.FindByUsernameOrEmail(ctx, "boss@example.com")
		if err != nil || u.Email != "mallory@example.com" {
			t.Fatalf("FindByUsernameOrEmail = %+v, %v", u, err)
		}
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	_, _ = repo.Create(ctx, &domain.User{Username: "bob", Email: "bob@example.com", Roles: []string{domain.RoleUser}})

	for _, key := range []string{"bob", "bob@example.com", "BOB@example.com"} {
		u, err := repo.FindByUsernameOrEmail(ctx, key)
		if err != nil || u.Username != "bob" {
			t.Fatalf("FindByUsernameOrEmail(%q) = %+v, %v", key, u, err)
		}
	}
	if _, err := repo.FindByUsernameOrEmail(ctx, "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	u, _ := repo.FindByUsername(ctx, "bob")
	roles, err := repo.RoleNamesFor(ctx, u)
	if err != nil || len(roles) != 1 || roles[0] != domain.RoleUser {
		t.Fatalf("RoleNamesFor = %v, %v", roles, err)
	}

	updated, err := repo.SetRoles(ctx, "bob", []string{domain.RoleUser, domain.RoleAdmin})
	if err != nil || !updated.HasRole(domain.RoleAdmin) {
		t.Fatalf("SetRoles = %+v, %v", updated, err)
	}
	roles, _ = repo.RoleNamesFor(ctx, u)
	if len(roles) != 2 {
		t.Fatalf("roles not persisted: %v", roles)
	}

	// Returned users are copies.
	updated.Roles[0] = "tampered"
	roles, _ = repo.RoleNamesFor(ctx, u)
	if roles[0] == "tampered" {
		t.Fatal("repository leaked internal state")
	}
}

func TestPostRepository_ListPaging(t *testing.T) {
	ctx := context.Background()
	repo := NewPostRepository(NewStore())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		_, _ = repo.Create(ctx, &domain.Post{
			ID:         fmt.Sprintf("p%d", i),
			Title:      fmt.Sprintf("title %c", 'g'-i),
			CategoryID: "c1",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		})
	}

	page, total, err := repo.List(ctx, domain.PageRequest{PageNo: 1, PageSize: 3, SortBy: domain.SortByID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 7 || len(page) != 3 || page[0].ID != "p3" {
		t.Fatalf("unexpected page: total=%d first=%v len=%d", total, page[0].ID, len(page))
	}

	page, _, _ = repo.List(ctx, domain.PageRequest{PageNo: 0, PageSize: 2, SortBy: domain.SortByTitle})
	if page[0].Title != "title a" {
		t.Fatalf("expected title sort, got %q", page[0].Title)
	}

	page, _, _ = repo.List(ctx, domain.PageRequest{PageNo: 0, PageSize: 2, SortBy: domain.SortByCreatedAt, Desc: true})
	if page[0].ID != "p6" {
		t.Fatalf("expected newest first, got %s", page[0].ID)
	}

	page, _, _ = repo.List(ctx, domain.PageRequest{PageNo: 5, PageSize: 3})
	if len(page) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(page))
	}
}

func TestCommentRepository_DeleteByPost(t *testing.T) {
	ctx := context.Background()
	repo := NewCommentRepository(NewStore())
	_, _ = repo.Create(ctx, &domain.Comment{PostID: "p1", Body: "first comment"})
	_, _ = repo.Create(ctx, &domain.Comment{PostID: "p1", Body: "second comment"})
	keep, _ := repo.Create(ctx, &domain.Comment{PostID: "p2", Body: "other post"})

	if err := repo.DeleteByPost(ctx, "p1"); err != nil {
		t.Fatalf("DeleteByPost: %v", err)
	}
	left, _ := repo.ListByPost(ctx, "p1")
	if len(left) != 0 {
		t.Fatalf("expected no comments on p1, got %d", len(left))
	}
	if _, err := repo.FindByID(ctx, keep.ID); err != nil {
		t.Fatalf("comment of another post removed: %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditRepository_InsertEvent(t *testing.T) {
	s := NewStore()
	repo := NewAuditRepository(s)
	if err := repo.InsertEvent(context.Background(), &domain.AuthEvent{Type: domain.AuthEventRegistered, Username: "alice"}); err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	events := s.Events()
	if len(events) != 1 || events[0].ID == "" || events[0].Username != "alice" {
		t.Fatalf("unexpected events: %+v", events)
	}
}
