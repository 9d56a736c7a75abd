// Package server wires the store, auth service, handlers and middleware
// chain together and runs the HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/heyjunin/riftstack/internal/models"
	"github.com/heyjunin/riftstack/internal/server/auth"
	"github.com/heyjunin/riftstack/internal/server/config"
	"github.com/heyjunin/riftstack/internal/server/handlers"
	"github.com/heyjunin/riftstack/internal/server/middleware"
	"github.com/heyjunin/riftstack/internal/server/storage"
	"github.com/heyjunin/riftstack/internal/server/storage/memory"
	"github.com/heyjunin/riftstack/internal/server/storage/sqlite"
)

// shutdownTimeout bounds how long in-flight requests may take to finish
const shutdownTimeout = 10 * time.Second

// Server is the composed application: storage, auth service and the
// HTTP handler chain.
type Server struct {
	cfg     *config.Config
	logger  *slog.Logger
	service *auth.Service
	handler http.Handler
	version string
	closeFn func() error
}

// New composes the server from configuration.
// The returned server owns its store; Close releases it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	var (
		store   storage.UserStore
		closeFn func() error
	)

	switch cfg.StoreBackend {
	case config.StoreSQLite:
		st, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		store = st
		closeFn = st.Close
	case config.StoreMemory, "":
		store = memory.New()
		closeFn = func() error { return nil }
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}

	codec := auth.NewTokenCodec(cfg.JWTSecret, cfg.TokenTTL)

	service, err := auth.NewService(store, codec, logger, cfg.BcryptCost)
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("failed to build auth service: %w", err)
	}

	srv := &Server{
		cfg:     cfg,
		logger:  logger,
		service: service,
		version: version,
		closeFn: closeFn,
	}
	srv.handler = srv.buildHandler()

	if cfg.SeedUsers {
		if err := srv.seedUsers(ctx); err != nil {
			closeFn()
			return nil, err
		}
	}

	return srv, nil
}

// Handler returns the fully composed HTTP handler, also used by tests
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Close releases the underlying store
func (s *Server) Close() error {
	return s.closeFn()
}

// Run serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.cfg.Addr, "store", s.cfg.StoreBackend)
		errC <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// buildHandler registers the routes and assembles the middleware chain
func (s *Server) buildHandler() http.Handler {
	authHandler := handlers.NewAuthHandler(s.logger, s.service, s.cfg.SecureCookie)
	userHandler := handlers.NewUserHandler(s.logger, s.service)
	adminHandler := handlers.NewAdminHandler(s.logger, s.service)
	healthHandler := handlers.NewHealthHandler(s.logger, s.version)

	requireAuth := middleware.RequireAuth(s.logger)
	requireAdmin := middleware.RequireAdmin(s.logger)

	// Credential endpoints get a rate limit on top of the slow hash
	rateLimit := middleware.RateLimit(s.cfg.AuthRateLimit, s.cfg.AuthRateWindow, s.logger)

	mux := http.NewServeMux()

	mux.Handle("POST /api/v1/auth/register", rateLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", rateLimit(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /api/v1/auth/logout", http.HandlerFunc(authHandler.Logout))
	mux.Handle("GET /api/v1/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	mux.Handle("GET /api/v1/user/profile", requireAuth(http.HandlerFunc(userHandler.Profile)))
	mux.Handle("PUT /api/v1/user/profile", requireAuth(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.Handle("POST /api/v1/user/password", requireAuth(http.HandlerFunc(userHandler.ChangePassword)))

	mux.Handle("GET /api/v1/admin/users", requireAdmin(http.HandlerFunc(adminHandler.Users)))

	mux.Handle("GET /api/v1/health", http.HandlerFunc(healthHandler.Health))

	// Outermost first: recovery, CORS, logging, then token resolution
	var handler http.Handler = mux
	handler = middleware.Authenticate(s.logger, s.service)(handler)
	handler = middleware.LoggingWithSkip(s.logger, []string{"/api/v1/health"})(handler)
	handler = middleware.CORS(middleware.CORSConfig{AllowedOrigins: s.cfg.CORSOrigins})(handler)
	handler = middleware.Recovery(s.logger)(handler)

	return handler
}

// seedUsers creates the development accounts mirroring the original mock
// data. Existing accounts are left untouched.
func (s *Server) seedUsers(ctx context.Context) error {
	seeds := []struct {
		email    string
		username string
		password string
		role     models.Role
	}{
		{"admin@example.com", "admin", "admin123", models.RoleAdmin},
		{"user@example.com", "user", "user123", models.RoleUser},
	}

	for _, seed := range seeds {
		if err := s.service.Seed(ctx, seed.email, seed.username, seed.password, seed.role); err != nil {
			return fmt.Errorf("failed to seed %s: %w", seed.email, err)
		}
	}

	return nil
}
