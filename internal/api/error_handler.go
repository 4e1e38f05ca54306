package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/api/handler"
	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/domain"
)

// unauthorizedCauses are checked in order; the first match names the cause
// in the 401 message.
var unauthorizedCauses = []error{
	auth.ErrExpiredToken,
	auth.ErrUnsupportedToken,
	auth.ErrMalformedClaims,
	auth.ErrMalformedToken,
	domain.ErrIdentityNotFound,
	domain.ErrInvalidCredentials,
	auth.ErrUnauthorized,
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps authentication failures to 401 and access denials to 403.
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"timestamp", "message", "details"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return newHTTPErrorHandler(log, time.Now)
}

func newHTTPErrorHandler(log zerolog.Logger, now func() time.Time) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		resp := handler.ErrorResponse{
			Timestamp: now().UTC(),
			Message:   msg,
			Details:   "uri=" + c.Request().URL.Path,
		}
		var ve *handler.ValidationError
		if errors.As(err, &ve) {
			resp.Errors = ve.Fields
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if jerr := c.JSON(code, resp); jerr != nil {
			log.Error().Err(jerr).Msg("failed to write error response")
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	for _, cause := range unauthorizedCauses {
		if errors.Is(err, cause) {
			return http.StatusUnauthorized, "Unauthorized: " + cause.Error()
		}
	}
	if errors.Is(err, auth.ErrForbidden) {
		return http.StatusForbidden, "Forbidden: " + auth.ErrForbidden.Error()
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *handler.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "validation failed"
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrCommentNotInPost):
		return http.StatusBadRequest, "Comment does not belong to post"
	case errors.Is(err, domain.ErrUsernameTaken):
		return http.StatusBadRequest, "Username already exists!"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusBadRequest, "Email already exists!"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidPagination):
		return http.StatusBadRequest, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
