package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogplatform/blog-api/internal/api/handler"
	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/domain"
	"github.com/blogplatform/blog-api/internal/core/service"
	"github.com/blogplatform/blog-api/internal/infrastructure/db/memory"
)

var routerKey = []byte(strings.Repeat("s", 32))

type app struct {
	e     *echo.Echo
	codec *auth.Codec
	users *service.UserService
	now   time.Time
}

func newApp(t *testing.T) *app {
	t.Helper()
	a := &app{now: time.Now()}
	codec, err := auth.NewCodec(routerKey, time.Hour, auth.WithClock(func() time.Time { return a.now }))
	require.NoError(t, err)
	a.codec = codec

	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	categories := memory.NewCategoryRepository(store)
	posts := memory.NewPostRepository(store)
	comments := memory.NewCommentRepository(store)
	log := zerolog.Nop()

	a.users = service.NewUserService(userRepo, nil, log)
	e, err := NewRouter(Dependencies{
		Codec:       codec,
		Credentials: userRepo,
		Auth:        service.NewAuthService(userRepo, codec, nil, nil, log),
		Users:       a.users,
		Categories:  service.NewCategoryService(categories, posts, comments, log),
		Posts:       service.NewPostService(posts, categories, comments, log),
		Comments:    service.NewCommentService(comments, posts, log),
		Ready:       nil,
		Log:         log,
	})
	require.NoError(t, err)
	a.e = e
	return a
}

func (a *app) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *app) register(t *testing.T, username string) {
	t.Helper()
	body := `{"name":"` + username + `","username":"` + username + `","email":"` + username + `@example.com","password":"secret1"}`
	rec := a.do(http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func (a *app) login(t *testing.T, username string) string {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/login", `{"usernameOrEmail":"`+username+`","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"accessToken"`
		TokenType   string `json:"tokenType"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Bearer", resp.TokenType)
	return "Bearer " + resp.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp
}

func TestRouter_RoleGrantScenario(t *testing.T) {
	a := newApp(t)
	a.register(t, "alice")
	token := a.login(t, "alice")

	rec := a.do(http.MethodPost, "/api/categories", `{"name":"Go"}`, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "Forbidden: access is denied", resp.Message)
	assert.Equal(t, "uri=/api/categories", resp.Details)

	_, err := a.users.SetRoles(context.Background(), "alice", []string{domain.RoleUser, domain.RoleAdmin})
	require.NoError(t, err)

	// Same token: roles are resolved per request.
	rec = a.do(http.MethodPost, "/api/categories", `{"name":"Go"}`, token)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestRouter_TokenSubjectNeverMatchesAnEmail(t *testing.T) {
	a := newApp(t)
	a.register(t, "boss")
	_, err := a.users.SetRoles(context.Background(), "boss", []string{domain.RoleUser, domain.RoleAdmin})
	require.NoError(t, err)

	rec := a.do(http.MethodPost, "/api/auth/register",
		`{"name":"Mallory","username":"boss@example.com","email":"mallory@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/auth/register",
		`{"name":"Mallory","username":"mallory","email":"boss","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// A token whose subject equals the admin's email resolves to nobody.
	forged, _, err := a.codec.Mint("boss@example.com")
	require.NoError(t, err)
	rec = a.do(http.MethodGet, "/api/users/me", "", "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
	rec = a.do(http.MethodPost, "/api/categories", `{"name":"Go"}`, "Bearer "+forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, rec.Body.String())
}

func TestRouter_NoHeaderOnProtectedRoute(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/api/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.True(t, strings.HasPrefix(decodeError(t, rec).Message, "Unauthorized: "))
}

func TestRouter_NotBearerHeaderIsAnonymous(t *testing.T) {
	a := newApp(t)
	a.register(t, "bob")
	token := a.login(t, "bob")
	raw := strings.TrimPrefix(token, "Bearer ")

	rec := a.do(http.MethodGet, "/api/users/me", "", "NotBearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: "+auth.ErrUnauthorized.Error(), decodeError(t, rec).Message)

	// Public reads stay available to anonymous callers.
	rec = a.do(http.MethodGet, "/api/posts", "", "NotBearer "+raw)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ExpiredToken(t *testing.T) {
	a := newApp(t)
	a.register(t, "carol")
	token := a.login(t, "carol")

	a.now = a.now.Add(time.Hour)
	rec := a.do(http.MethodGet, "/api/users/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: expired JWT token", decodeError(t, rec).Message)
}

func TestRouter_MalformedToken(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/api/users/me", "", "Bearer abc.def")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: invalid JWT token", decodeError(t, rec).Message)
}

func TestRouter_PublicPathIgnoresBadToken(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodGet, "/health", "", "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(http.MethodPost, "/api/auth/register",
		`{"name":"Dan","username":"dan","email":"dan@example.com","password":"secret1"}`, "Bearer garbage")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_DuplicateRegistration(t *testing.T) {
	a := newApp(t)
	a.register(t, "erin")

	rec := a.do(http.MethodPost, "/api/auth/signup",
		`{"name":"Erin","username":"erin","email":"other@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists!", decodeError(t, rec).Message)

	rec = a.do(http.MethodPost, "/api/auth/signup",
		`{"name":"Erin","username":"erin2","email":"erin@example.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already exists!", decodeError(t, rec).Message)
}

func TestRouter_ProfileAndUnknownIdentity(t *testing.T) {
	a := newApp(t)
	a.register(t, "finn")
	token := a.login(t, "finn")

	rec := a.do(http.MethodGet, "/api/users/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "finn", profile["username"])
	assert.Equal(t, []any{domain.RoleUser}, profile["roles"])

	ghost, _, err := a.codec.Mint("ghost")
	require.NoError(t, err)
	rec = a.do(http.MethodGet, "/api/users/me", "", "Bearer "+ghost)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized: "+domain.ErrIdentityNotFound.Error(), decodeError(t, rec).Message)
}

func TestRouter_BlogFlow(t *testing.T) {
	a := newApp(t)
	a.register(t, "admin")
	_, err := a.users.SetRoles(context.Background(), "admin", []string{domain.RoleUser, domain.RoleAdmin})
	require.NoError(t, err)
	admin := a.login(t, "admin")
	a.register(t, "reader")
	reader := a.login(t, "reader")

	rec := a.do(http.MethodPost, "/api/categories", `{"name":"Go","description":"Gophers"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var category struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &category))

	rec = a.do(http.MethodPost, "/api/posts",
		`{"title":"Hello","description":"A first post on Go","content":"body","categoryId":"`+category.ID+`"}`, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post struct{ ID string }
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = a.do(http.MethodPost, "/api/posts/"+post.ID+"/comments",
		`{"name":"Reader","email":"reader@example.com","body":"Great introduction!"}`, reader)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/posts/"+post.ID+"/comments",
		`{"name":"Anon","email":"anon@example.com","body":"Anonymous comment"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(http.MethodGet, "/api/posts?pageSize=5", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Content       []map[string]any `json:"content"`
		TotalElements int64            `json:"totalElements"`
		Last          bool             `json:"last"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Content, 1)
	assert.EqualValues(t, 1, page.TotalElements)
	assert.True(t, page.Last)

	rec = a.do(http.MethodGet, "/api/posts/"+post.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Comments []map[string]any `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Len(t, detail.Comments, 1)

	rec = a.do(http.MethodDelete, "/api/categories/"+category.ID, "", admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = a.do(http.MethodGet, "/api/posts/"+post.ID, "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found with id : '"+post.ID+"'", decodeError(t, rec).Message)
}

func TestRouter_ValidationErrorShape(t *testing.T) {
	a := newApp(t)

	rec := a.do(http.MethodPost, "/api/auth/register", `{"username":"x"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
	assert.Equal(t, "uri=/api/auth/register", resp.Details)
}

func TestRouter_HugePageNumberIsBadRequest(t *testing.T) {
	a := newApp(t)
	a.register(t, "paul")
	token := a.login(t, "paul")

	rec := a.do(http.MethodGet, "/api/posts?pageNo=922337203685477581&pageSize=10", "", token)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, domain.ErrInvalidPagination.Error(), decodeError(t, rec).Message)
}
