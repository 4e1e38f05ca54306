package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/auth"
)

// ctxPrincipal returns the principal attached by the authentication gate.
// Routes that reach a handler calling this are already behind an
// Authenticated rule; a missing principal still fails closed.
func ctxPrincipal(c echo.Context) (*auth.Principal, error) {
	p, ok := auth.PrincipalFrom(c.Request().Context())
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	return p, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return err
	}
	return c.Validate(req)
}
