package models

import "time"

// Role defines the authorization tier of a user
type Role string

const (
	// RoleUser is the default tier assigned at registration
	RoleUser Role = "user"
	// RoleAdmin grants access to admin-gated operations
	RoleAdmin Role = "admin"
)

// IsValid checks that the role is one of the predefined values
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsAdmin reports whether the role grants admin-tier access
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// User represents a user record owned by the credential store
type User struct {
	ID           string    `json:"id"`         // UUID, immutable once assigned
	Email        string    `json:"email"`      // unique, used as login key
	Username     string    `json:"username"`   // display name, mutable
	PasswordHash string    `json:"-"`          // bcrypt hash, never serialized
	Role         Role      `json:"role"`       // user | admin
	CreatedAt    time.Time `json:"created_at"` // creation time
	UpdatedAt    time.Time `json:"updated_at"` // refreshed on every mutation
}

// PublicUser is the outward-facing view of a User.
// It is the only user shape that crosses the API boundary.
type PublicUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Public returns the public view of the user
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:       u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
	}
}
