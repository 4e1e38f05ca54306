package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/api/metrics"
	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account holding ROLE_USER.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Name, req.Username, req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully!"})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	token, err := h.signIn(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{
		Message:       "User signed-in successfully!",
		tokenResponse: toTokenResponse(token),
	})
}

// Token authenticates a user and returns only the bearer token.
//
// @Summary      Issue an access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      429   {object}  ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c echo.Context) error {
	token, err := h.signIn(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTokenResponse(token))
}

func (h *AuthHandler) signIn(c echo.Context) (*domain.AccessToken, error) {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return nil, err
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.UsernameOrEmail, req.Password)
	switch {
	case errors.Is(err, domain.ErrTooManyAttempts):
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return nil, err
	case errors.Is(err, domain.ErrInvalidCredentials):
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	case err != nil:
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.TokensMintedTotal.Inc()
	return token, nil
}
