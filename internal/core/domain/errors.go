package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrCommentNotInPost  = errors.New("comment does not belong to post")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
	ErrInvalidInput      = errors.New("invalid input")
)

// NotFoundError describes a missing resource the way clients see it:
// "Post not found with id : '42'".
type NotFoundError struct {
	Resource string
	Field    string
	Value    string
}

// NewNotFound builds a NotFoundError for resource looked up by field=value.
func NewNotFound(resource, field, value string) *NotFoundError {
	return &NotFoundError{Resource: resource, Field: field, Value: value}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with %s : '%s'", e.Resource, e.Field, e.Value)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
