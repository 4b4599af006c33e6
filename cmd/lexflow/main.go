// Command lexflow fills legal document templates from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lexflow/backend/internal/cli"
	"lexflow/backend/internal/logging"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := os.Getenv("LEXFLOW_LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger, err := logging.NewLogger(level, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	err = cli.Execute(ctx, cli.Options{Logger: logger, Version: version}, os.Args[1:])
	if errors.Is(err, cli.ErrAborted) {
		fmt.Fprintln(os.Stderr, "aborted")
		os.Exit(130)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
