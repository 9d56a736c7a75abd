// Package validation checks request fields at the API boundary so that
// the auth service only ever sees well-formed input.
package validation

import (
	"fmt"
	"regexp"
)

// UsernamePattern defines the allowed username format:
// latin letters (a-z, A-Z), digits (0-9) and underscore (_), 3-32 characters.
var UsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)

// emailPattern is deliberately permissive: one @ with a non-empty local
// part and a domain containing a dot. Full RFC 5322 parsing is not the goal.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinUsernameLen is the minimum username length
	MinUsernameLen = 3
	// MaxUsernameLen is the maximum username length
	MaxUsernameLen = 32
	// MinPasswordLen is the minimum password length
	MinPasswordLen = 6
)

// ValidateUsername checks that username matches the allowed format
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}

	if len(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters (a-z, A-Z), numbers (0-9), and underscores (_)")
	}

	return nil
}

// ValidateEmail checks that email looks like a well-formed address
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}

	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
