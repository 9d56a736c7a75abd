// Package api provides the typed HTTP client for the riftstack auth API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/heyjunin/riftstack/pkg/api"
)

// Client is the HTTP client speaking the pkg/api contracts
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// New creates a new API client for the given server base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Keep the Authorization header across redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// SetToken sets the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// Register registers a new user
func (c *Client) Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/register", req, &resp); err != nil {
		return nil, fmt.Errorf("register request failed: %w", err)
	}
	return &resp, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error) {
	var resp api.AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Logout acknowledges the logout server-side; the caller discards the token
func (c *Client) Logout(ctx context.Context) error {
	var resp api.SuccessResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/auth/logout", nil, &resp); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// Me returns the identity behind the current token
func (c *Client) Me(ctx context.Context) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/auth/me", nil, &resp); err != nil {
		return nil, fmt.Errorf("me request failed: %w", err)
	}
	return &resp, nil
}

// UpdateProfile updates username and optionally email
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodPut, "/api/v1/user/profile", req, &resp); err != nil {
		return nil, fmt.Errorf("update profile request failed: %w", err)
	}
	return &resp, nil
}

// ChangePassword changes the current user's password
func (c *Client) ChangePassword(ctx context.Context, req api.ChangePasswordRequest) error {
	var resp api.SuccessResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/user/password", req, &resp); err != nil {
		return fmt.Errorf("change password request failed: %w", err)
	}
	return nil
}

// Users lists all users (admin only)
func (c *Client) Users(ctx context.Context) ([]api.User, error) {
	var resp api.UsersResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/admin/users", nil, &resp); err != nil {
		return nil, fmt.Errorf("users request failed: %w", err)
	}
	return resp.Users, nil
}

// doRequest performs an HTTP request against the API
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Message != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
