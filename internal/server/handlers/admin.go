package handlers

import (
	"log/slog"
	"net/http"

	"github.com/heyjunin/riftstack/internal/server/auth"
	"github.com/heyjunin/riftstack/internal/server/middleware"
	"github.com/heyjunin/riftstack/pkg/api"
)

// AdminHandler handles admin-gated operations
type AdminHandler struct {
	logger  *slog.Logger
	service *auth.Service
}

// NewAdminHandler creates the admin handler
func NewAdminHandler(logger *slog.Logger, service *auth.Service) *AdminHandler {
	return &AdminHandler{
		logger:  logger,
		service: service,
	}
}

// Users handles GET /api/v1/admin/users (RequireAdmin)
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	admin := middleware.CurrentUser(ctx)

	users, err := h.service.ListUsers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list users", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "admin accessed users list",
		slog.String("admin_user_id", admin.ID),
		slog.Int("count", len(users)))

	resp := api.UsersResponse{Users: make([]api.User, 0, len(users))}
	for _, user := range users {
		resp.Users = append(resp.Users, toAPIUser(user))
	}

	sendJSON(h.logger, w, resp, http.StatusOK)
}
