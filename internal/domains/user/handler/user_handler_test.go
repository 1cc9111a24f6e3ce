package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/user/model"
	"blog-backend/internal/domains/user/service"
	"blog-backend/internal/infrastructure/session"
	"blog-backend/internal/shared/authz"
	"blog-backend/internal/shared/middleware"
	"blog-backend/pkg/jwt"
)

// stubService answers from fixed users: alice/secret logs in.
type stubService struct {
	loggedOut bool
}

var alice = &model.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", IsActive: true}

func (s *stubService) Register(ctx context.Context, req model.RegisterRequest) (*service.AuthResult, error) {
	if req.MissingFields() {
		return nil, model.NewMissingFieldsError()
	}
	if req.Username == "alice" {
		return nil, model.NewUsernameTakenError()
	}
	return &service.AuthResult{User: &model.User{ID: uuid.New(), Username: req.Username}, Token: "newtoken"}, nil
}

func (s *stubService) Login(ctx context.Context, req model.LoginRequest) (*service.AuthResult, error) {
	if req.Username != "alice" || req.Password != "secret" {
		return nil, model.NewInvalidCredentialsError()
	}
	res := &service.AuthResult{User: alice, Token: "alicetoken"}
	if req.Session {
		now := time.Now()
		res.Session = &session.Session{ID: "sid-1", UserID: alice.ID.String(), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	}
	return res, nil
}

func (s *stubService) Logout(ctx context.Context, p *authz.Principal) error {
	if !p.IsAuthenticated() || s.loggedOut {
		return model.NewNotLoggedInError()
	}
	s.loggedOut = true
	return nil
}

func (s *stubService) PrincipalForToken(ctx context.Context, key string) (*authz.Principal, error) {
	if key == "alicetoken" && !s.loggedOut {
		return alice.Principal(), nil
	}
	return nil, nil
}

func (s *stubService) PrincipalForSession(ctx context.Context, sid string) (*authz.Principal, error) {
	return nil, nil
}

func setup() (*gin.Engine, *stubService) {
	gin.SetMode(gin.TestMode)
	svc := &stubService{}
	cookies := session.NewCookies(session.CookieOptions{Name: "blog_session"}, jwt.NewManager("test-secret"))
	h := NewUserHandler(svc, cookies)

	r := gin.New()
	r.Use(middleware.Authenticate(service.NewTokenResolver(svc)))
	auth := r.Group("/auth")
	auth.POST("/register", h.Register)
	auth.GET("/login", h.LoginPage)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)
	return r, svc
}

func doJSON(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegister(t *testing.T) {
	r, _ := setup()

	w := doJSON(r, http.MethodPost, "/auth/register",
		`{"username":"bob","email":"bob@example.com","password":"p","confirm_password":"p"}`, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, "User registered successfully.", body["message"])
	assert.Equal(t, "newtoken", body["token"])
	assert.Empty(t, w.Result().Cookies())

	w = doJSON(r, http.MethodPost, "/auth/register", `{"username":"bob"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All fields are required.", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"a@example.com","password":"p","confirm_password":"p"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username is already taken.", decode(t, w)["error"])
}

func TestLogin_JSON(t *testing.T) {
	r, _ := setup()

	w := doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Login successful.", body["message"])
	assert.Equal(t, "alicetoken", body["token"])
	assert.Empty(t, w.Result().Cookies(), "token clients get no session")

	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"secret","session":true}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "blog_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	w = doJSON(r, http.MethodPost, "/auth/login", `{"username":"alice","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials.", decode(t, w)["error"])
}

func TestLogin_HTMLForm(t *testing.T) {
	r, _ := setup()

	post := func(form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login?next=/api/v1/posts/hello", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "text/html")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(url.Values{"username": {"alice"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials.")
	assert.Contains(t, w.Body.String(), "<form")

	w = post(url.Values{"username": {"alice"}, "password": {"secret"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/api/v1/posts/hello", w.Header().Get("Location"))
	assert.NotEmpty(t, w.Result().Cookies())
}

func TestLoginPage(t *testing.T) {
	r, _ := setup()
	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
}

func TestLogout(t *testing.T) {
	r, _ := setup()

	w := doJSON(r, http.MethodPost, "/auth/logout", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You are not logged in.", decode(t, w)["error"])

	w = doJSON(r, http.MethodPost, "/auth/logout", "", "alicetoken")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Logout successful.", decode(t, w)["message"])
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	// token no longer resolves
	w = doJSON(r, http.MethodPost, "/auth/logout", "", "alicetoken")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMe(t *testing.T) {
	r, _ := setup()

	w := doJSON(r, http.MethodGet, "/auth/me", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["authenticated"])
	assert.Nil(t, data["user"])

	w = doJSON(r, http.MethodGet, "/auth/me", "", "alicetoken")
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["authenticated"])
	assert.Equal(t, "alice", data["user"].(map[string]interface{})["username"])
}

func TestSafeNext(t *testing.T) {
	assert.Equal(t, "/api/v1/posts/x", safeNext("/api/v1/posts/x"))
	assert.Equal(t, "/api/v1/posts", safeNext("//evil.example.com"))
	assert.Equal(t, "/api/v1/posts", safeNext("https://evil.example.com"))
	assert.Equal(t, "/api/v1/posts", safeNext(""))
}
