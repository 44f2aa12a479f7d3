package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"owltrack/internal/config"
	"owltrack/internal/database"
	"owltrack/internal/domain/auth"
	"owltrack/internal/middleware"
	"owltrack/internal/pkg/logger"
	"owltrack/internal/storage"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Connect(":memory:", logger.Discard())
	require.NoError(t, err)
	require.NoError(t, migrate(db))

	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)
	require.NoError(t, auth.NewUserRepository(db).Create(context.Background(), &auth.User{
		Email:        "root@owltrack.local",
		Username:     auth.AdminAlias,
		Name:         "Root",
		PasswordHash: hash,
		Role:         auth.RoleAdmin,
	}))

	cfg := &config.Config{
		AppEnv:    "test",
		JWT:       config.JWT{Secret: "router-test-secret", TTL: time.Hour},
		Storage:   config.Storage{Driver: config.StorageLocal, PublicBase: "/uploads", MaxSizeMB: 1},
		CORS:      config.CORS{AllowedOrigins: []string{"http://localhost:3000"}},
		RateLimit: config.RateLimit{AuthLimit: 100, AuthWindow: time.Minute},
	}

	return &testServer{
		t: t,
		router: newRouter(cfg, routerDeps{
			db:      db,
			blobs:   blobs,
			limiter: middleware.NewRateLimiter(),
			log:     logger.Discard(),
		}),
	}
}

func (s *testServer) do(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)

	var env envelope
	if rr.Header().Get("Content-Type") != "" && bytes.HasPrefix(rr.Body.Bytes(), []byte("{")) {
		require.NoError(s.t, json.Unmarshal(rr.Body.Bytes(), &env))
	}
	return rr, env
}

func (s *testServer) json(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	rr, env := s.json(http.MethodPost, path, "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, rr.Code, rr.Body.String())

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

type appView struct {
	ID           string `json:"id"`
	ProjectTitle string `json:"project_title"`
	ResumeURL    string `json:"resume_url"`
	Status       string `json:"status"`
	Submission   *struct {
		GitHubURL string `json:"github_url"`
	} `json:"submission"`
}

func TestRouter_ProjectLifecycle(t *testing.T) {
	s := setupServer(t)

	rr, _ := s.json(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
		"name":     "Ada",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	userToken := s.login("/auth/login", "ada@example.com", "secret123")
	adminToken := s.login("/auth/admin-login", auth.AdminAlias, "admin-pass")

	rr, _ = s.json(http.MethodPost, "/api/projects", userToken, map[string]string{"id": "p-todo", "title": "Todo App"})
	assert.Equal(t, http.StatusForbidden, rr.Code)
	rr, _ = s.json(http.MethodPost, "/api/projects", adminToken, map[string]string{"id": "p-todo", "title": "Todo App"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Ada"))
	require.NoError(t, mw.WriteField("email", "ada@example.com"))
	part, err := mw.CreateFormFile("resume", "ada.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF ada"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/apply_project/p-todo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr, env := s.do(req, userToken)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	created := decode[appView](t, env)
	assert.Equal(t, "Todo App", created.ProjectTitle)
	assert.Equal(t, "in_process", created.Status)
	require.NotEmpty(t, created.ResumeURL)

	rr, _ = s.do(httptest.NewRequest(http.MethodGet, created.ResumeURL, nil), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF ada", rr.Body.String())

	rr, env = s.json(http.MethodPut, "/api/project_applications/"+created.ID+"/submission", userToken,
		map[string]string{"github_url": "github.com/ada/todo", "notes": " done "})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	submitted := decode[appView](t, env)
	assert.Equal(t, "submitted", submitted.Status)
	require.NotNil(t, submitted.Submission)
	assert.Equal(t, "https://github.com/ada/todo", submitted.Submission.GitHubURL)

	rr, _ = s.json(http.MethodPut, "/api/project_applications/"+created.ID+"/status", userToken,
		map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env = s.json(http.MethodPut, "/api/project_applications/"+created.ID+"/status", adminToken,
		map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "completed", decode[appView](t, env).Status)

	rr, env = s.json(http.MethodGet, "/api/notifications", userToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	notes := decode[struct {
		UnreadCount int64 `json:"unread_count"`
	}](t, env)
	assert.Equal(t, int64(1), notes.UnreadCount)

	rr, env = s.json(http.MethodGet, "/api/project_applications", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decode[[]appView](t, env), 1)
}

func TestRouter_Unauthenticated(t *testing.T) {
	s := setupServer(t)

	rr, _ := s.json(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr, env := s.json(http.MethodGet, "/api/my_applications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	require.NotNil(t, env.Error)

	rr, _ = s.json(http.MethodGet, "/api/users", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRouter_AdminOnlyUserListing(t *testing.T) {
	s := setupServer(t)

	rr, _ := s.json(http.MethodPost, "/auth/register", "", map[string]string{
		"email":    "bob@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	userToken := s.login("/auth/login", "bob@example.com", "secret123")
	adminToken := s.login("/auth/admin-login", "root@owltrack.local", "admin-pass")

	rr, _ = s.json(http.MethodGet, "/api/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr, env := s.json(http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, string(env.Data), "password")
	assert.Len(t, decode[[]map[string]any](t, env), 2)
}
