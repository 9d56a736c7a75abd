// Package middleware contains the HTTP middleware chain: the access gate,
// request logging, panic recovery, rate limiting and CORS.
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heyjunin/riftstack/internal/models"
)

// AuthCookieName is the cookie that carries the auth token
const AuthCookieName = "auth-token"

// TokenValidator resolves a token to a public identity, or nil when the
// token is missing, malformed, expired, forged, or the user is gone.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) *models.PublicUser
}

type ctxKey string

// userKey carries the resolved identity through the request context
const userKey ctxKey = "currentUser"

// WithUser returns a derived context carrying the resolved identity
func WithUser(ctx context.Context, user *models.PublicUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// CurrentUser returns the identity attached by Authenticate, or nil for an
// anonymous request
func CurrentUser(ctx context.Context) *models.PublicUser {
	user, _ := ctx.Value(userKey).(*models.PublicUser)
	return user
}

// Authenticate resolves the auth token from the request and attaches the
// identity to the context. It always passes through: anonymous is a valid
// state for public routes, the gates below decide whether to reject.
func Authenticate(logger *slog.Logger, validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user := validator.ValidateToken(r.Context(), token)
			if user == nil {
				// Invalid token: proceed anonymous, never explain why
				next.ServeHTTP(w, r)
				return
			}

			logger.DebugContext(r.Context(), "user authenticated",
				slog.String("user_id", user.ID),
				slog.String("role", string(user.Role)))

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// RequireAuth rejects requests that carry no resolved identity
func RequireAuth(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if CurrentUser(r.Context()) == nil {
				logger.WarnContext(r.Context(), "unauthorized access attempt",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Unauthorized: you must be logged in to access this resource", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin rejects anonymous requests with 401 and authenticated
// non-admin requests with 403
func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := CurrentUser(r.Context())
			if user == nil {
				logger.WarnContext(r.Context(), "unauthorized access attempt to admin resource",
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr))
				http.Error(w, "Unauthorized: you must be logged in to access this resource", http.StatusUnauthorized)
				return
			}

			if !user.Role.IsAdmin() {
				logger.WarnContext(r.Context(), "forbidden access attempt to admin resource",
					slog.String("user_id", user.ID),
					slog.String("role", string(user.Role)),
					slog.String("path", r.URL.Path))
				http.Error(w, "Forbidden: you must be an admin to access this resource", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the token from the auth cookie or the
// "Authorization: Bearer <token>" header. The cookie wins when both are set.
func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return parts[1]
}
