package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/heyjunin/riftstack/internal/server/config"
	"github.com/heyjunin/riftstack/pkg/api"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.BcryptCost = bcrypt.MinCost
	cfg.AuthRateLimit = 1000 // keep the limiter out of the way
	return cfg
}

func setupServer(t *testing.T) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	srv, err := New(context.Background(), testConfig(), logger, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	return srv
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body, result interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if result != nil && w.Code < 300 {
		require.NoError(t, json.NewDecoder(w.Body).Decode(result))
	}

	return w
}

func TestServer_RegisterLoginMe(t *testing.T) {
	handler := setupServer(t).Handler()

	var registered api.AuthResponse
	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "",
		api.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"},
		&registered)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, registered.Token)

	var loggedIn api.AuthResponse
	w = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "alice@example.com", Password: "secret123"},
		&loggedIn)
	require.Equal(t, http.StatusOK, w.Code)

	var me api.User
	w = doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", loggedIn.Token, nil, &me)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, registered.User.ID, me.ID)
	assert.Equal(t, "alice", me.Username)
}

func TestServer_MeViaCookie(t *testing.T) {
	handler := setupServer(t).Handler()

	var registered api.AuthResponse
	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "",
		api.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"},
		&registered)
	require.Equal(t, http.StatusCreated, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth-token", Value: registered.Token})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_GatedRoutes_Anonymous(t *testing.T) {
	handler := setupServer(t).Handler()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/user/profile"},
		{http.MethodPut, "/api/v1/user/profile"},
		{http.MethodPost, "/api/v1/user/password"},
		{http.MethodGet, "/api/v1/admin/users"},
	}

	for _, tt := range paths {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := doJSON(t, handler, tt.method, tt.path, "", nil, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestServer_AdminGate(t *testing.T) {
	handler := setupServer(t).Handler()

	// Seeded regular user is rejected with 403
	var userLogin api.AuthResponse
	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "user@example.com", Password: "user123"},
		&userLogin)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, handler, http.MethodGet, "/api/v1/admin/users", userLogin.Token, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Seeded admin gets the list
	var adminLogin api.AuthResponse
	w = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "admin@example.com", Password: "admin123"},
		&adminLogin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", adminLogin.User.Role)

	var users api.UsersResponse
	w = doJSON(t, handler, http.MethodGet, "/api/v1/admin/users", adminLogin.Token, nil, &users)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, users.Users, 2)
}

func TestServer_InvalidToken(t *testing.T) {
	handler := setupServer(t).Handler()

	w := doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", "forged-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServer_ProfileAndPasswordFlow(t *testing.T) {
	handler := setupServer(t).Handler()

	var registered api.AuthResponse
	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "",
		api.RegisterRequest{Email: "alice@example.com", Username: "alice", Password: "secret123"},
		&registered)
	require.Equal(t, http.StatusCreated, w.Code)
	token := registered.Token

	var updated api.User
	w = doJSON(t, handler, http.MethodPut, "/api/v1/user/profile", token,
		api.UpdateProfileRequest{Username: "alice_smith"}, &updated)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice_smith", updated.Username)

	w = doJSON(t, handler, http.MethodPost, "/api/v1/user/password", token,
		api.ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "newsecret456"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Old password is rejected, new one works
	w = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "alice@example.com", Password: "secret123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "alice@example.com", Password: "newsecret456"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Health(t *testing.T) {
	handler := setupServer(t).Handler()

	w := doJSON(t, handler, http.MethodGet, "/api/v1/health", "", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestServer_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimit = 2
	cfg.AuthRateWindow = time.Minute
	cfg.SeedUsers = false

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(context.Background(), cfg, logger, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	handler := srv.Handler()

	for i := 0; i < 2; i++ {
		w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
			api.LoginRequest{Email: "nobody@example.com", Password: "secret123"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "nobody@example.com", Password: "secret123"}, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestServer_UnknownStoreBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = "postgres"

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	_, err := New(context.Background(), cfg, logger, "test")
	assert.Error(t, err)
}

func TestServer_SQLiteBackend(t *testing.T) {
	cfg := testConfig()
	cfg.StoreBackend = config.StoreSQLite
	cfg.SQLitePath = ":memory:"

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	srv, err := New(context.Background(), cfg, logger, "test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.Close() })

	handler := srv.Handler()

	var loggedIn api.AuthResponse
	w := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "",
		api.LoginRequest{Email: "admin@example.com", Password: "admin123"},
		&loggedIn)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", loggedIn.User.Role)
}
