package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/core/ports"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// Create handles POST /api/categories.
//
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), toCategory(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(created))
}

// List handles GET /api/categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Success      200  {array}  categoryResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	cs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponses(cs))
}

// Get handles GET /api/categories/:id.
//
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  categoryResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) Get(c echo.Context) error {
	cat, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

// Update handles PUT /api/categories/:id.
//
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category ID"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  categoryResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), toCategory(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(updated))
}

// Delete handles DELETE /api/categories/:id. Posts of the category and
// their comments are removed too.
//
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Category deleted successfully!"})
}
