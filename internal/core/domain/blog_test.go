package domain

import (
	"errors"
	"testing"
)

func TestNewPage(t *testing.T) {
	tests := []struct {
		name      string
		req       PageRequest
		total     int64
		wantPages int
		wantLast  bool
	}{
		{"empty", PageRequest{PageNo: 0, PageSize: 10}, 0, 0, true},
		{"single partial page", PageRequest{PageNo: 0, PageSize: 10}, 3, 1, true},
		{"first of three", PageRequest{PageNo: 0, PageSize: 10}, 25, 3, false},
		{"last of three", PageRequest{PageNo: 2, PageSize: 10}, 25, 3, true},
		{"exact fit", PageRequest{PageNo: 1, PageSize: 5}, 10, 2, true},
		{"past the end", PageRequest{PageNo: 9, PageSize: 5}, 10, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPage[int](nil, tt.req, tt.total)
			if p.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", p.TotalPages, tt.wantPages)
			}
			if p.Last != tt.wantLast {
				t.Errorf("Last = %v, want %v", p.Last, tt.wantLast)
			}
			if p.Content == nil {
				t.Error("Content must never be nil")
			}
		})
	}
}

func TestParsePostSortField(t *testing.T) {
	for in, want := range map[string]PostSortField{
		"id":         SortByID,
		"title":      SortByTitle,
		"createdAt":  SortByCreatedAt,
		"created_at": SortByCreatedAt,
	} {
		got, ok := ParsePostSortField(in)
		if !ok || got != want {
			t.Errorf("ParsePostSortField(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParsePostSortField("password"); ok {
		t.Error("unexpected sort field accepted")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFound("Post", "id", "42")
	if got, want := err.Error(), "Post not found with id : '42'"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Fatal("NotFoundError must unwrap to ErrNotFound")
	}
}

func TestUser_HasRole(t *testing.T) {
	u := &User{Roles: []string{RoleUser}}
	if !u.HasRole(RoleUser) || u.HasRole(RoleAdmin) {
		t.Fatalf("HasRole mismatch for %v", u.Roles)
	}
	if !IsKnownRole(RoleAdmin) || IsKnownRole("ROLE_ROOT") {
		t.Fatal("IsKnownRole mismatch")
	}
}
