package storage

import (
	"context"

	"github.com/heyjunin/riftstack/internal/models"
)

// UserStore defines the interface for user record persistence.
// Implementations must keep the email uniqueness invariant: CreateUser and
// UpdateUser are atomic with respect to concurrent writers.
type UserStore interface {
	// CreateUser creates a new user record.
	// Returns ErrUserAlreadyExists if the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns ErrUserNotFound if no such user exists.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateUser updates an existing user record and refreshes UpdatedAt.
	// Returns ErrUserNotFound if the user doesn't exist and
	// ErrUserAlreadyExists if the new email belongs to another user.
	UpdateUser(ctx context.Context, user *models.User) error

	// DeleteUser deletes a user by ID.
	// Returns ErrUserNotFound if the user doesn't exist.
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all user records.
	ListUsers(ctx context.Context) ([]*models.User, error)
}
