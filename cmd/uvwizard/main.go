// Command uvwizard creates secondary UV maps for the meshes of a scene
// selection.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rshade/uvwizard/internal/cli"
	"github.com/rshade/uvwizard/pkg/version"
)

func main() {
	os.Exit(extractExitCode(run()))
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCmd(version.GetVersion())
	return root.ExecuteContext(ctx)
}

// extractExitCode maps a command error to the process exit code. An
// *cli.ExitError anywhere in the chain carries its own code.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode
	}
	return 1
}
