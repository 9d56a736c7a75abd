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

// UserHandler handles profile and password operations for the
// authenticated user
type UserHandler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewUserHandler creates the user handler
func NewUserHandler(logger *slog.Logger, service *auth.Service) *UserHandler {
	return &UserHandler{
		logger:  logger,
		service: service,
	}
}

// Profile handles GET /api/v1/user/profile (RequireAuth)
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r.Context())

	sendJSON(h.logger, w, toAPIUser(user), http.StatusOK)
}

// UpdateProfile handles PUT /api/v1/user/profile (RequireAuth).
// Username is required, email is optional.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.CurrentUser(ctx)

	var req api.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode profile update request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.ValidateUsername(req.Username); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			sendError(h.logger, w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	updated, err := h.service.UpdateProfile(ctx, user.ID, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			sendError(h.logger, w, err.Error(), http.StatusNotFound)
		case errors.Is(err, auth.ErrEmailTaken):
			sendError(h.logger, w, err.Error(), http.StatusConflict)
		default:
			h.logger.ErrorContext(ctx, "profile update failed", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	sendJSON(h.logger, w, toAPIUser(updated), http.StatusOK)
}

// ChangePassword handles POST /api/v1/user/password (RequireAuth)
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.CurrentUser(ctx)

	var req api.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode password change request", slog.Any("error", err))
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.CurrentPassword == "" {
		sendError(h.logger, w, "current password is required", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePassword(req.NewPassword); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if !h.service.ChangePassword(ctx, user.ID, req.CurrentPassword, req.NewPassword) {
		sendError(h.logger, w, "current password is incorrect", http.StatusBadRequest)
		return
	}

	sendJSON(h.logger, w, api.SuccessResponse{Success: true}, http.StatusOK)
}
