package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heyjunin/riftstack/internal/server/auth"
	"github.com/heyjunin/riftstack/internal/server/middleware"
	"github.com/heyjunin/riftstack/internal/validation"
	"github.com/heyjunin/riftstack/pkg/api"
)

// authCookieMaxAge matches the token TTL: 7 days
const authCookieMaxAge = 7 * 24 * 60 * 60

// AuthHandler handles registration, login, logout and identity lookup
type AuthHandler struct {
	logger       *slog.Logger
	service      *auth.Service
	secureCookie bool
}

// NewAuthHandler creates the auth handler.
// secureCookie marks the auth cookie Secure; enable it in production.
func NewAuthHandler(logger *slog.Logger, service *auth.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		service:      service,
		secureCookie: secureCookie,
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateEmail(req.Email); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Register(ctx, req.Email, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			sendError(h.logger, w, err.Error(), http.StatusConflict)
			return
		}
		h.logger.ErrorContext(ctx, "registration failed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookie(w, result.Token)

	resp := api.AuthResponse{
		User:  toAPIUser(result.User),
		Token: result.Token,
	}
	sendJSON(h.logger, w, resp, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Password == "" {
		sendError(h.logger, w, "email and password are required", http.StatusBadRequest)
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			sendError(h.logger, w, err.Error(), http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "login failed", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.setAuthCookie(w, result.Token)

	resp := api.AuthResponse{
		User:  toAPIUser(result.User),
		Token: result.Token,
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Logout handles POST /api/v1/auth/logout.
// Tokens are stateless; logout clears the cookie and acknowledges.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout(r.Context(), middleware.CurrentUser(r.Context()))

	h.clearAuthCookie(w)

	sendJSON(h.logger, w, api.SuccessResponse{Success: true}, http.StatusOK)
}

// Me handles GET /api/v1/auth/me (RequireAuth)
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// setAuthCookie sets the httpOnly auth cookie carrying the token
func (h *AuthHandler) setAuthCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   authCookieMaxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookie instructs the client to discard the auth cookie
func (h *AuthHandler) clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
