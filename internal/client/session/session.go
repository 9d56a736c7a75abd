// Package session persists the CLI client's auth session locally so that
// a login survives between invocations. Logout deletes the session; the
// server never revokes tokens.
package session

import (
	"context"
	"errors"

	"github.com/heyjunin/riftstack/pkg/api"
)

// ErrNotFound indicates that no session is stored
var ErrNotFound = errors.New("session not found")

// Session holds the token and the identity it was issued for
type Session struct {
	Token string   `json:"token"`
	User  api.User `json:"user"`
}

// Store defines the interface for local session persistence
type Store interface {
	// Save stores the session, replacing any previous one
	Save(ctx context.Context, s *Session) error

	// Get retrieves the stored session.
	// Returns ErrNotFound if no session exists.
	Get(ctx context.Context) (*Session, error)

	// Delete removes the stored session (logout).
	// Returns ErrNotFound if no session exists.
	Delete(ctx context.Context) error
}
