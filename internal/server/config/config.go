// Package config handles configuration for the server component:
// defaults, environment overlay and command-line flags, in that order.
package config

import "time"

// Store backends selectable via Config.StoreBackend
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds runtime settings for the riftstack auth server.
//
// Fields:
//   - Addr: bind address for the HTTP endpoint.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Do not ship the
//     development default.
//   - TokenTTL: auth token lifetime.
//   - BcryptCost: bcrypt work factor for password hashing.
//   - StoreBackend: "memory" (default) or "sqlite".
//   - SQLitePath: database file when StoreBackend is "sqlite".
//   - SecureCookie: mark the auth cookie Secure (enable behind TLS).
//   - CORSOrigins: allowed origins; empty reflects the request origin.
//   - AuthRateLimit / AuthRateWindow: limit for credential endpoints.
//   - SeedUsers: create the development admin/user accounts at startup.
type Config struct {
	Addr           string
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	StoreBackend   string
	SQLitePath     string
	SecureCookie   bool
	CORSOrigins    []string
	AuthRateLimit  int
	AuthRateWindow time.Duration
	SeedUsers      bool
}

// LoadDefaults populates Config with development defaults.
// NOTE: these values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Addr = ":8787"
	c.JWTSecret = "your-super-secret-jwt-key-change-in-production"
	c.TokenTTL = 7 * 24 * time.Hour
	c.BcryptCost = 10
	c.StoreBackend = StoreMemory
	c.SQLitePath = "riftstack.db"
	c.SecureCookie = false
	c.CORSOrigins = nil
	c.AuthRateLimit = 10
	c.AuthRateWindow = time.Minute
	c.SeedUsers = true
}

// Load builds a Config by applying defaults, then overlaying values from
// environment variables and finally from command-line flags.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
