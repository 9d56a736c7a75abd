// Package api defines the typed request/response contracts of the HTTP API.
// Both the server handlers and the client speak these shapes.
package api

// RegisterRequest is the request for POST /api/v1/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`    // unique login key
	Username string `json:"username"` // display name, 3-32 chars
	Password string `json:"password"` // plaintext, hashed server-side
}

// LoginRequest is the request for POST /api/v1/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User  User   `json:"user"`  // public identity
	Token string `json:"token"` // signed auth token, also set as cookie
}

// User is the public identity exposed by the API.
// It never carries the password hash.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"` // user | admin
}

// SuccessResponse acknowledges operations without a payload
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the error envelope for all failure responses
type ErrorResponse struct {
	Error   string `json:"error"`             // status text
	Message string `json:"message,omitempty"` // underlying reason
}
