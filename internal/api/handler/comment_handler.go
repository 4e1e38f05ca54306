package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/core/ports"
)

// CommentHandler handles HTTP requests for the comments of a post.
type CommentHandler struct {
	service ports.CommentService
}

func NewCommentHandler(service ports.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create handles POST /api/posts/:postId/comments.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string          true  "Post ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      201     {object}  commentResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/posts/{postId}/comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), c.Param("postId"), toComment(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCommentResponse(created))
}

// List handles GET /api/posts/:postId/comments.
//
// @Summary      List the comments of a post
// @Tags         comments
// @Produce      json
// @Param        postId  path     string  true  "Post ID"
// @Success      200     {array}  commentResponse
// @Failure      404     {object} ErrorResponse
// @Router       /api/posts/{postId}/comments [get]
func (h *CommentHandler) List(c echo.Context) error {
	cs, err := h.service.List(c.Request().Context(), c.Param("postId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponses(cs))
}

// Get handles GET /api/posts/:postId/comments/:id.
//
// @Summary      Get a comment
// @Tags         comments
// @Produce      json
// @Param        postId  path      string  true  "Post ID"
// @Param        id      path      string  true  "Comment ID"
// @Success      200     {object}  commentResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/posts/{postId}/comments/{id} [get]
func (h *CommentHandler) Get(c echo.Context) error {
	cm, err := h.service.Get(c.Request().Context(), c.Param("postId"), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(cm))
}

// Update handles PUT /api/posts/:postId/comments/:id.
//
// @Summary      Update a comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string          true  "Post ID"
// @Param        id      path      string          true  "Comment ID"
// @Param        body    body      commentRequest  true  "Comment"
// @Success      200     {object}  commentResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/posts/{postId}/comments/{id} [put]
func (h *CommentHandler) Update(c echo.Context) error {
	var req commentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), c.Param("postId"), c.Param("id"), toComment(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCommentResponse(updated))
}

// Delete handles DELETE /api/posts/:postId/comments/:id.
//
// @Summary      Delete a comment
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        postId  path      string  true  "Post ID"
// @Param        id      path      string  true  "Comment ID"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      404     {object}  ErrorResponse
// @Router       /api/posts/{postId}/comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("postId"), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Comment deleted successfully"})
}
