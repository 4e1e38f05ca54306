package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/domain"
)

func authorize(t *testing.T, method, path string, p *auth.Principal) (bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	if p != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	}
	c := e.NewContext(req, httptest.NewRecorder())

	called := false
	err := Authorize(auth.DefaultPolicy())(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return called, err
}

func TestAuthorize_Allows(t *testing.T) {
	admin := &auth.Principal{Username: "root", Roles: []string{domain.RoleUser, domain.RoleAdmin}}

	called, err := authorize(t, http.MethodPost, "/api/categories", admin)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
}

func TestAuthorize_PublicRead(t *testing.T) {
	called, err := authorize(t, http.MethodGet, "/api/posts", nil)
	if err != nil || !called {
		t.Fatalf("anonymous read must be allowed, err=%v", err)
	}
}

func TestAuthorize_Forbids(t *testing.T) {
	user := &auth.Principal{Username: "alice", Roles: []string{domain.RoleUser}}

	called, err := authorize(t, http.MethodPost, "/api/categories", user)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, auth.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAuthorize_RequiresAuthentication(t *testing.T) {
	called, err := authorize(t, http.MethodGet, "/api/users/me", nil)
	if called {
		t.Fatalf("should not reach next handler")
	}
	if !errors.Is(err, auth.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
