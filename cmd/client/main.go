package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/heyjunin/riftstack/internal/client/api"
	"github.com/heyjunin/riftstack/internal/client/cli"
	"github.com/heyjunin/riftstack/internal/client/session"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	serverURL := flag.String("server", "http://localhost:8787", "server base URL")
	dbPath := flag.String("db", defaultSessionPath(), "session database path")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("riftstack client\n")
		fmt.Printf("Version:    %s\n", Version)
		fmt.Printf("Build Date: %s\n", BuildDate)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *serverURL, *dbPath, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL, dbPath string, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	sessions, err := session.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}
	defer func() {
		_ = sessions.Close()
	}()

	client := api.New(serverURL)

	return cli.New(client, sessions).Run(ctx, args)
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".riftstack/session.db"
	}
	return filepath.Join(home, ".riftstack", "session.db")
}
