package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/api/metrics"
	"github.com/blogplatform/blog-api/internal/auth"
)

// Authorize enforces policy on every request. It must run after
// Authenticate so the principal, if any, is already in the context.
func Authorize(policy *auth.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			principal, _ := auth.PrincipalFrom(req.Context())

			if err := policy.Decide(req.Method, req.URL.Path, principal); err != nil {
				if errors.Is(err, auth.ErrForbidden) {
					metrics.AuthDecisionsTotal.WithLabelValues("forbidden").Inc()
				} else {
					metrics.AuthDecisionsTotal.WithLabelValues("unauthorized").Inc()
				}
				return err
			}
			metrics.AuthDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
