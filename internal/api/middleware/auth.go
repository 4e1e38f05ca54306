package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/api/metrics"
	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/ports"
)

const bearerPrefix = "Bearer "

// TokenVerifier resolves a bearer token to its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Authenticate resolves the bearer token of each request into an
// auth.Principal stored in the request context.
//
// Public paths and requests without a "Bearer " credential pass through
// anonymously; the access decision point decides whether that is enough.
// A token that fails verification ends the request with an error wrapping
// both auth.ErrUnauthorized and the codec failure kind.
func Authenticate(codec TokenVerifier, store ports.CredentialStore, public *auth.PathMatcher, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if public != nil && public.Match(req.URL.Path) {
				return next(c)
			}

			header := req.Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, bearerPrefix) {
				return next(c)
			}
			token := strings.TrimSpace(header[len(bearerPrefix):])
			if token == "" {
				return next(c)
			}

			subject, err := codec.Verify(token)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				log.Debug().Err(err).Str("path", req.URL.Path).Msg("bearer token rejected")
				return fmt.Errorf("%w: %w", auth.ErrUnauthorized, err)
			}

			identity, err := store.FindByUsername(req.Context(), subject)
			if errors.Is(err, domain.ErrUserNotFound) {
				metrics.TokenRejectionsTotal.WithLabelValues("identity").Inc()
				return fmt.Errorf("%w: %w", auth.ErrUnauthorized, domain.ErrIdentityNotFound)
			}
			if err != nil {
				return fmt.Errorf("load identity: %w", err)
			}

			roles, err := store.RoleNamesFor(req.Context(), identity)
			if err != nil {
				return fmt.Errorf("load roles: %w", err)
			}

			principal := &auth.Principal{
				UserID:   identity.ID,
				Username: identity.Username,
				Roles:    roles,
			}
			c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), principal)))
			return next(c)
		}
	}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "expired"
	case errors.Is(err, auth.ErrUnsupportedToken):
		return "unsupported"
	case errors.Is(err, auth.ErrMalformedClaims):
		return "claims"
	default:
		return "malformed"
	}
}
