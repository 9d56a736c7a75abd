// Package auth contains the authentication and authorization engine:
// credential verification, token issuance/validation and the typed error
// taxonomy the transport maps to status codes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heyjunin/riftstack/internal/crypto"
	"github.com/heyjunin/riftstack/internal/models"
	"github.com/heyjunin/riftstack/internal/server/storage"
)

// Result bundles the public identity and the issued token returned by
// Register and Login.
type Result struct {
	User  *models.PublicUser `json:"user"`
	Token string             `json:"token"`
}

// Service orchestrates registration, login, token validation, profile
// updates and password changes on top of a UserStore and a TokenCodec.
type Service struct {
	store      storage.UserStore
	codec      *TokenCodec
	logger     *slog.Logger
	bcryptCost int
	dummyHash  string
}

// NewService constructs the auth service.
// A dummy hash is precomputed so that login against an unknown email costs
// a bcrypt comparison, same as a wrong password.
func NewService(store storage.UserStore, codec *TokenCodec, logger *slog.Logger, bcryptCost int) (*Service, error) {
	if bcryptCost == 0 {
		bcryptCost = crypto.DefaultCost
	}

	dummyHash, err := crypto.HashPassword(uuid.New().String(), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		store:      store,
		codec:      codec,
		logger:     logger,
		bcryptCost: bcryptCost,
		dummyHash:  dummyHash,
	}, nil
}

// Register creates a new user with role "user" and issues a token.
// Returns ErrEmailTaken if the email is already registered.
func (s *Service) Register(ctx context.Context, email, username, password string) (*Result, error) {
	hash, err := crypto.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "registration failed: email already taken",
				slog.String("email", email))
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
		slog.String("username", user.Username))

	return &Result{User: user.Public(), Token: token}, nil
}

// Login verifies the credentials and issues a token.
// Unknown email and wrong password both return ErrInvalidCredentials; the
// unknown-email path still performs a bcrypt comparison against a dummy
// hash so the two cases are not distinguishable by timing either.
func (s *Service) Login(ctx context.Context, email, password string) (*Result, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			crypto.VerifyPassword(password, s.dummyHash)
			s.logger.WarnContext(ctx, "login failed: unknown email",
				slog.String("email", email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !crypto.VerifyPassword(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login failed: wrong password",
			slog.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	token, err := s.codec.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email))

	return &Result{User: user.Public(), Token: token}, nil
}

// ValidateToken resolves a token to the current public identity.
// It returns nil on ANY failure — malformed, expired, forged signature, or
// a user that no longer exists — so callers cannot tell why a token was
// rejected. The user is re-resolved from the store: embedded claims are not
// trusted as current truth.
func (s *Service) ValidateToken(ctx context.Context, token string) *models.PublicUser {
	claims, err := s.codec.Verify(token)
	if err != nil {
		s.logger.DebugContext(ctx, "token validation failed", slog.Any("error", err))
		return nil
	}

	user, err := s.store.GetUserByID(ctx, claims.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "token validation failed: user no longer exists",
			slog.String("user_id", claims.UserID))
		return nil
	}

	return user.Public()
}

// CurrentUser returns the public identity for a known user ID
func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.PublicUser, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Public(), nil
}

// UpdateProfile updates username and, when non-empty, email.
// Returns ErrUserNotFound if the user vanished and ErrEmailTaken if the
// new email belongs to another user.
func (s *Service) UpdateProfile(ctx context.Context, userID, username, email string) (*models.PublicUser, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Username = username
	if email != "" {
		user.Email = email
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, storage.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, storage.ErrUserAlreadyExists):
			s.logger.WarnContext(ctx, "profile update failed: email already taken",
				slog.String("user_id", userID))
			return nil, ErrEmailTaken
		default:
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "profile updated",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username))

	return user.Public(), nil
}

// ChangePassword verifies the current password against the stored hash and,
// on success, stores a hash of the new one. It reports false for an unknown
// user or a wrong current password and never returns an error.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) bool {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "password change failed: user not found",
			slog.String("user_id", userID))
		return false
	}

	if !crypto.VerifyPassword(currentPassword, user.PasswordHash) {
		s.logger.WarnContext(ctx, "password change failed: wrong current password",
			slog.String("user_id", userID))
		return false
	}

	hash, err := crypto.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		s.logger.ErrorContext(ctx, "password change failed: hashing error",
			slog.Any("error", err))
		return false
	}

	user.PasswordHash = hash
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "password change failed: store error",
			slog.Any("error", err))
		return false
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	return true
}

// Logout acknowledges a logout. Tokens are stateless and cannot be revoked
// server-side; the transport instructs the client to discard the token.
func (s *Service) Logout(ctx context.Context, user *models.PublicUser) {
	if user != nil {
		s.logger.InfoContext(ctx, "user logged out",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email))
	}
}

// ListUsers returns the public view of every registered user
func (s *Service) ListUsers(ctx context.Context) ([]*models.PublicUser, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	public := make([]*models.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}

	return public, nil
}

// Seed creates a user with the given role if the email is not taken yet.
// Used by the development bootstrap; a duplicate is not an error.
func (s *Service) Seed(ctx context.Context, email, username, password string, role models.Role) error {
	hash, err := crypto.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to seed user: %w", err)
	}

	s.logger.InfoContext(ctx, "seed user created",
		slog.String("email", email),
		slog.String("role", string(role)))

	return nil
}
