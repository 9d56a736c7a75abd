// Package cli implements the terminal client commands for the auth API.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/heyjunin/riftstack/internal/client/api"
	"github.com/heyjunin/riftstack/internal/client/session"
)

// Cli bundles the API client and the local session store
type Cli struct {
	client   *api.Client
	sessions session.Store
	in       *bufio.Reader
	out      io.Writer
}

// New creates the CLI
func New(client *api.Client, sessions session.Store) *Cli {
	return &Cli{
		client:   client,
		sessions: sessions,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}
}

// Usage describes the available commands
const Usage = `Usage: riftstack <command>

Commands:
  register   create a new account
  login      authenticate and store the session
  logout     discard the stored session
  whoami     show the current identity
  profile    update username/email
  passwd     change the password
  users      list all users (admin only)
`

// Run dispatches a command. An unknown command returns an error with usage.
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, Usage)
		return nil
	}

	// Commands that need an authenticated session load it up front
	switch args[0] {
	case "logout", "whoami", "profile", "passwd", "users":
		if err := c.loadSession(ctx); err != nil {
			return err
		}
	}

	switch args[0] {
	case "register":
		return c.register(ctx)
	case "login":
		return c.login(ctx)
	case "logout":
		return c.logout(ctx)
	case "whoami":
		return c.whoami(ctx)
	case "profile":
		return c.profile(ctx)
	case "passwd":
		return c.passwd(ctx)
	case "users":
		return c.users(ctx)
	default:
		fmt.Fprint(c.out, Usage)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// loadSession attaches the stored token to the API client
func (c *Cli) loadSession(ctx context.Context) error {
	sess, err := c.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return fmt.Errorf("not authenticated, run 'riftstack login' first")
		}
		return fmt.Errorf("failed to load session: %w", err)
	}

	c.client.SetToken(sess.Token)
	return nil
}

// readLine prompts for a single line of input
func (c *Cli) readLine(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword prompts for a password without echoing it
func (c *Cli) readPassword(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(c.out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(password), nil
}
