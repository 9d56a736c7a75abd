package api

// UpdateProfileRequest is the request for PUT /api/v1/user/profile.
// Username is required; email is updated only when non-empty.
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// ChangePasswordRequest is the request for POST /api/v1/user/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UsersResponse is returned by GET /api/v1/admin/users
type UsersResponse struct {
	Users []User `json:"users"`
}
