package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/wizzomafizzo/scour/internal/cli"
)

const (
	exitFailure = 1
	exitConfig  = 2
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func run() error {
	if err := createNewRootCommand().ExecuteContext(context.Background()); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

// exitCode maps an error to the process exit status. A rule file that cannot
// be loaded is 2; failed files and usage errors are 1.
func exitCode(err error) int {
	var cfgErr *cli.ConfigError
	if errors.As(err, &cfgErr) {
		return exitConfig
	}
	return exitFailure
}
