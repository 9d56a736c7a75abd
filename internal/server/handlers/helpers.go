// Package handlers maps the typed API operations to HTTP endpoints.
// Handlers validate input at the boundary, call the auth service and
// translate its typed errors to status codes.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/heyjunin/riftstack/internal/models"
	"github.com/heyjunin/riftstack/pkg/api"
)

// sendJSON writes a JSON response with the given status code
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError writes a JSON error envelope with the given status code
func sendError(logger *slog.Logger, w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	sendJSON(logger, w, resp, statusCode)
}

// toAPIUser converts the internal public view to the API shape
func toAPIUser(u *models.PublicUser) api.User {
	return api.User{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     string(u.Role),
	}
}
