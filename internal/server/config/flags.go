package config

import (
	"flag"
	"os"
	"strings"
	"time"
)

// parseFlags overlays selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     bind address (e.g. ":8787")
//	-s string     JWT HMAC secret key
//	-t duration   token lifetime (e.g. 168h)
//	-store string store backend: memory | sqlite
//	-db string    sqlite database file
//	-secure       mark the auth cookie Secure
//	-origins      comma-separated CORS origins
//	-seed         create development seed users (default true)
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to run server")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "JWT secret key")
	fs.DurationVar(&cfg.TokenTTL, "t", cfg.TokenTTL, "auth token lifetime")
	fs.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "store backend: memory | sqlite")
	fs.StringVar(&cfg.SQLitePath, "db", cfg.SQLitePath, "sqlite database file")
	fs.BoolVar(&cfg.SecureCookie, "secure", cfg.SecureCookie, "mark the auth cookie Secure")
	fs.BoolVar(&cfg.SeedUsers, "seed", cfg.SeedUsers, "create development seed users")

	origins := fs.String("origins", strings.Join(cfg.CORSOrigins, ","), "comma-separated CORS origins")

	if err := fs.Parse(argsWithoutVersion(os.Args[1:])); err != nil {
		// Unknown flags are a startup mistake, not a runtime condition
		panic(err)
	}

	if *origins != "" {
		cfg.CORSOrigins = splitOrigins(*origins)
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
}

// argsWithoutVersion drops the -version flag handled by main
func argsWithoutVersion(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "-version" || a == "--version" {
			continue
		}
		out = append(out, a)
	}
	return out
}
