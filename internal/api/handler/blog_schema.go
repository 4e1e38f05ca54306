package handler

import "time"

type categoryRequest struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
}

type categoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type postRequest struct {
	Title       string `json:"title"       validate:"required,min=2"`
	Description string `json:"description" validate:"required,min=10"`
	Content     string `json:"content"     validate:"required"`
	CategoryID  string `json:"categoryId"  validate:"required"`
}

type postResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	CategoryID  string            `json:"categoryId"`
	Comments    []commentResponse `json:"comments,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type postPageResponse struct {
	Content       []postResponse `json:"content"`
	PageNo        int            `json:"pageNo"`
	PageSize      int            `json:"pageSize"`
	TotalElements int64          `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	Last          bool           `json:"last"`
}

type commentRequest struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Body  string `json:"body"  validate:"required,min=10"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
