package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls the CORS headers set on every response.
// An empty AllowedOrigins list reflects the request origin (development
// behavior); production deployments should pin the web client's origin.
type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         int // preflight cache, seconds
}

const corsAllowedMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"

const corsAllowedHeaders = "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Forwarded-For, X-Real-IP"

// CORS sets cross-origin headers and short-circuits preflight requests.
// Credentials are always allowed because the auth cookie must survive
// cross-origin requests from the web client.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 86400 // 24 hours
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowed := resolveOrigin(cfg.AllowedOrigins, origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", corsAllowedMethods)
				w.Header().Set("Access-Control-Allow-Headers", corsAllowedHeaders)
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveOrigin picks the Allow-Origin value for a request origin
func resolveOrigin(allowed []string, origin string) string {
	if origin == "" {
		return ""
	}

	if len(allowed) == 0 {
		return origin
	}

	for _, candidate := range allowed {
		if strings.EqualFold(candidate, origin) {
			return origin
		}
	}

	return ""
}
