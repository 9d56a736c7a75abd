package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/heyjunin/riftstack/internal/client/session"
	"github.com/heyjunin/riftstack/pkg/api"
)

// register creates a new account and stores the returned session
func (c *Cli) register(ctx context.Context) error {
	email, err := c.readLine("Email: ")
	if err != nil {
		return err
	}

	username, err := c.readLine("Username: ")
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	confirm, err := c.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	resp, err := c.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Username: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Registered as %s (%s)\n", resp.User.Username, resp.User.Email)
	return nil
}

// login authenticates and stores the returned session
func (c *Cli) login(ctx context.Context) error {
	email, err := c.readLine("Email: ")
	if err != nil {
		return err
	}

	password, err := c.readPassword("Password: ")
	if err != nil {
		return err
	}

	resp, err := c.client.Login(ctx, api.LoginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}

	if err := c.saveSession(ctx, resp); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Logged in as %s (%s)\n", resp.User.Username, resp.User.Email)
	return nil
}

// logout discards the local session. The server call is best-effort:
// tokens are stateless, so forgetting the token is what ends the session.
func (c *Cli) logout(ctx context.Context) error {
	if err := c.client.Logout(ctx); err != nil {
		fmt.Fprintf(c.out, "Warning: server logout failed: %v\n", err)
	}

	if err := c.sessions.Delete(ctx); err != nil && !errors.Is(err, session.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	fmt.Fprintln(c.out, "Logged out")
	return nil
}

// whoami asks the server for the identity behind the stored token
func (c *Cli) whoami(ctx context.Context) error {
	user, err := c.client.Me(ctx)
	if err != nil {
		return err
	}

	c.printUser(user)
	return nil
}

// profile updates username and optionally email, refreshing the session copy
func (c *Cli) profile(ctx context.Context) error {
	username, err := c.readLine("New username: ")
	if err != nil {
		return err
	}

	email, err := c.readLine("New email (empty to keep current): ")
	if err != nil {
		return err
	}

	user, err := c.client.UpdateProfile(ctx, api.UpdateProfileRequest{
		Username: username,
		Email:    email,
	})
	if err != nil {
		return err
	}

	if sess, err := c.sessions.Get(ctx); err == nil {
		sess.User = *user
		if err := c.sessions.Save(ctx, sess); err != nil {
			return fmt.Errorf("failed to update session: %w", err)
		}
	}

	fmt.Fprintln(c.out, "Profile updated")
	c.printUser(user)
	return nil
}

// passwd changes the current user's password
func (c *Cli) passwd(ctx context.Context) error {
	current, err := c.readPassword("Current password: ")
	if err != nil {
		return err
	}

	newPassword, err := c.readPassword("New password: ")
	if err != nil {
		return err
	}

	confirm, err := c.readPassword("Confirm new password: ")
	if err != nil {
		return err
	}
	if newPassword != confirm {
		return fmt.Errorf("passwords do not match")
	}

	if err := c.client.ChangePassword(ctx, api.ChangePasswordRequest{
		CurrentPassword: current,
		NewPassword:     newPassword,
	}); err != nil {
		return err
	}

	fmt.Fprintln(c.out, "Password changed")
	return nil
}

// users lists all registered users (admin only)
func (c *Cli) users(ctx context.Context) error {
	users, err := c.client.Users(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%d user(s):\n", len(users))
	for _, u := range users {
		fmt.Fprintf(c.out, "  %-36s  %-8s  %s <%s>\n", u.ID, u.Role, u.Username, u.Email)
	}
	return nil
}

// saveSession persists the token and identity from an auth response
func (c *Cli) saveSession(ctx context.Context, resp *api.AuthResponse) error {
	c.client.SetToken(resp.Token)
	if err := c.sessions.Save(ctx, &session.Session{Token: resp.Token, User: resp.User}); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *Cli) printUser(u *api.User) {
	fmt.Fprintf(c.out, "ID:       %s\n", u.ID)
	fmt.Fprintf(c.out, "Email:    %s\n", u.Email)
	fmt.Fprintf(c.out, "Username: %s\n", u.Username)
	fmt.Fprintf(c.out, "Role:     %s\n", u.Role)
}
