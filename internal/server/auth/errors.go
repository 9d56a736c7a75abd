package auth

import "errors"

// Typed errors returned by the auth service. The transport maps them to
// status codes; anything else surfaces as an internal error.
var (
	// ErrEmailTaken indicates a registration or profile update with an
	// email that already belongs to another user
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for unknown email AND wrong
	// password alike, so a caller cannot enumerate registered emails
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound indicates the target of an update no longer exists
	ErrUserNotFound = errors.New("user not found")
)
