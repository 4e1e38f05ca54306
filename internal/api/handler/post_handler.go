package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/api/metrics"
	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

// PostHandler handles HTTP requests for post operations.
type PostHandler struct {
	service ports.PostService
}

func NewPostHandler(service ports.PostService) *PostHandler {
	return &PostHandler{service: service}
}

// Create handles POST /api/posts.
//
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      postRequest  true  "Post"
// @Success      201   {object}  postResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), toPost(req))
	if err != nil {
		return err
	}
	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toPostResponse(created))
}

// List handles GET /api/posts.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        pageNo    query     int     false  "Zero based page number"  default(0)
// @Param        pageSize  query     int     false  "Page size, at most 100"  default(10)
// @Param        sortBy    query     string  false  "id, title or createdAt"  default(id)
// @Param        sortDir   query     string  false  "asc or desc"             default(asc)
// @Success      200       {object}  postPageResponse
// @Failure      400       {object}  ErrorResponse
// @Router       /api/posts [get]
func (h *PostHandler) List(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.service.List(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostPageResponse(page))
}

// Get handles GET /api/posts/:id. The post is returned with its comments.
//
// @Summary      Get a post
// @Tags         posts
// @Produce      json
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  postResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	p, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(p))
}

// ListByCategory handles GET /api/posts/category/:id.
//
// @Summary      List the posts of a category
// @Tags         posts
// @Produce      json
// @Param        id   path     string  true  "Category ID"
// @Success      200  {array}  postResponse
// @Failure      404  {object} ErrorResponse
// @Router       /api/posts/category/{id} [get]
func (h *PostHandler) ListByCategory(c echo.Context) error {
	ps, err := h.service.ListByCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponses(ps))
}

// Update handles PUT /api/posts/:id.
//
// @Summary      Update a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "Post ID"
// @Param        body  body      postRequest  true  "Post"
// @Success      200   {object}  postResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	var req postRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), toPost(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPostResponse(updated))
}

// Delete handles DELETE /api/posts/:id.
//
// @Summary      Delete a post
// @Tags         posts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Post ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Post entity deleted successfully."})
}

// pageRequest reads pageNo, pageSize, sortBy and sortDir from the query
// string. Absent values are left zero for the service to default.
func pageRequest(c echo.Context) (domain.PageRequest, error) {
	var (
		req     domain.PageRequest
		sortBy  string
		sortDir string
	)
	err := echo.QueryParamsBinder(c).
		Int("pageNo", &req.PageNo).
		Int("pageSize", &req.PageSize).
		String("sortBy", &sortBy).
		String("sortDir", &sortDir).
		BindError()
	if err != nil {
		return req, fmt.Errorf("%w: %v", domain.ErrInvalidPagination, err)
	}

	if sortBy != "" {
		field, ok := domain.ParsePostSortField(sortBy)
		if !ok {
			return req, fmt.Errorf("%w: unknown sortBy %q", domain.ErrInvalidPagination, sortBy)
		}
		req.SortBy = field
	}
	switch strings.ToLower(sortDir) {
	case "", "asc":
	case "desc":
		req.Desc = true
	default:
		return req, fmt.Errorf("%w: unknown sortDir %q", domain.ErrInvalidPagination, sortDir)
	}
	return req, nil
}
