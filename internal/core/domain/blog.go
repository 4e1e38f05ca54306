package domain

import "time"

// Category groups posts.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Post is a blog article. Every post belongs to exactly one category.
type Post struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	CategoryID  string     `json:"category_id"`
	Comments    []*Comment `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Comment is a reader comment attached to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSortField is a column posts may be ordered by.
type PostSortField string

const (
	SortByID        PostSortField = "id"
	SortByTitle     PostSortField = "title"
	SortByCreatedAt PostSortField = "createdAt"
)

// ParsePostSortField maps a client supplied sortBy value to a PostSortField.
func ParsePostSortField(s string) (PostSortField, bool) {
	switch PostSortField(s) {
	case SortByID, SortByTitle, SortByCreatedAt:
		return PostSortField(s), true
	case "created_at":
		return SortByCreatedAt, true
	}
	return "", false
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest selects one page of an ordered post listing. PageNo is zero
// based.
type PageRequest struct {
	PageNo   int
	PageSize int
	SortBy   PostSortField
	Desc     bool
}

// Offset is the number of rows skipped before the page starts.
func (p PageRequest) Offset() int { return p.PageNo * p.PageSize }

// Page is one slice of a listing plus the totals clients need to navigate.
type Page[T any] struct {
	Content       []T   `json:"content"`
	PageNo        int   `json:"pageNo"`
	PageSize      int   `json:"pageSize"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Last          bool  `json:"last"`
}

// NewPage computes the paging totals for content taken from req out of
// total rows.
func NewPage[T any](content []T, req PageRequest, total int64) *Page[T] {
	pages := 0
	if req.PageSize > 0 {
		pages = int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	}
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		PageNo:        req.PageNo,
		PageSize:      req.PageSize,
		TotalElements: total,
		TotalPages:    pages,
		Last:          req.PageNo >= pages-1,
	}
}
