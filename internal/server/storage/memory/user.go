// Package memory implements storage.UserStore as an in-memory collection.
// It is the reference backend: state lives for the process lifetime only.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/heyjunin/riftstack/internal/models"
	"github.com/heyjunin/riftstack/internal/server/storage"
)

// Store keeps user records in two indexes guarded by a single mutex,
// so check-and-insert is atomic with respect to the email uniqueness
// invariant under concurrent writers.
type Store struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string // email -> user ID
}

// New creates an empty in-memory user store
func New() *Store {
	return &Store{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

// Compile-time check that Store implements storage.UserStore
var _ storage.UserStore = (*Store)(nil)

// CreateUser inserts a new user record.
// Returns storage.ErrUserAlreadyExists if the email is taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return storage.ErrUserAlreadyExists
	}

	u := *user
	s.byID[u.ID] = &u
	s.byEmail[u.Email] = u.ID

	return nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	u := *s.byID[id]
	return &u, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[userID]
	if !ok {
		return nil, storage.ErrUserNotFound
	}

	u := *user
	return &u, nil
}

// UpdateUser replaces the stored record and refreshes UpdatedAt.
// The email index is kept consistent when the email changes.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byID[user.ID]
	if !ok {
		return storage.ErrUserNotFound
	}

	if user.Email != current.Email {
		if _, taken := s.byEmail[user.Email]; taken {
			return storage.ErrUserAlreadyExists
		}
		delete(s.byEmail, current.Email)
		s.byEmail[user.Email] = user.ID
	}

	u := *user
	u.UpdatedAt = time.Now()
	s.byID[u.ID] = &u
	user.UpdatedAt = u.UpdatedAt

	return nil
}

// DeleteUser removes a user by ID
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[userID]
	if !ok {
		return storage.ErrUserNotFound
	}

	delete(s.byEmail, user.Email)
	delete(s.byID, userID)

	return nil
}

// ListUsers returns copies of all user records
func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*models.User, 0, len(s.byID))
	for _, user := range s.byID {
		u := *user
		users = append(users, &u)
	}

	return users, nil
}
