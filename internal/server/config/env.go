package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// parseEnv overlays selected Config fields from environment variables.
//
// Supported variables:
//
//	RIFTSTACK_ADDR             bind address
//	RIFTSTACK_JWT_SECRET       token signing secret
//	RIFTSTACK_TOKEN_TTL        token lifetime (Go duration, e.g. "168h")
//	RIFTSTACK_STORE            store backend: memory | sqlite
//	RIFTSTACK_SQLITE_PATH      sqlite database file
//	RIFTSTACK_SECURE_COOKIE    "true" to mark the auth cookie Secure
//	RIFTSTACK_CORS_ORIGINS     comma-separated allowed origins
//	RIFTSTACK_SEED_USERS       "false" to skip the development seed users
func parseEnv(cfg *Config) {
	if v := os.Getenv("RIFTSTACK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("RIFTSTACK_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("RIFTSTACK_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.TokenTTL = d
		}
	}
	if v := os.Getenv("RIFTSTACK_STORE"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("RIFTSTACK_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("RIFTSTACK_SECURE_COOKIE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SecureCookie = b
		}
	}
	if v := os.Getenv("RIFTSTACK_CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitOrigins(v)
	}
	if v := os.Getenv("RIFTSTACK_SEED_USERS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SeedUsers = b
		}
	}
}

// splitOrigins splits a comma-separated origin list, dropping empty entries
func splitOrigins(v string) []string {
	parts := strings.Split(v, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
