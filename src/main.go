package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/apimgr/trigger/src/cmd"
	"github.com/apimgr/trigger/src/paths"
)

func main() {
	// Missing directories only cost the log file and the numbered selection
	if err := InitCLI(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()

	os.Exit(exitCode(err))
}

// InitCLI ensures the per-user directories exist
func InitCLI() error {
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("init directories: %w", err)
	}
	return nil
}

// exitCode prints err for the user and maps it to a process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "\nCancelled")
		return 130
	default:
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return 1
	}
}
