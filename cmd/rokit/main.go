// Command rokit runs the prebuilt rokit binary for the current platform,
// forwarding every argument and the standard streams, and exits with the
// child's status.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/launcher"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run launches the binary and returns the process exit code. Launcher
// failures are reported on stderr; a child's own non-zero exit is not, since
// the child has already written its diagnostics to the shared streams.
func run(args []string, stderr io.Writer) int {
	err := launch(args, stderr)
	if err != nil {
		var exitErr *launcher.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(stderr, "Error: %s\n", config.FormatError(err, config.DebugFromEnv()))
		}
	}
	return launcher.ExitCode(err)
}

func launch(args []string, stderr io.Writer) error {
	cfg, err := config.Load(context.Background())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.NewLogger(stderr, cfg.Debug)

	key, err := platform.CurrentKey()
	if err != nil {
		return err
	}

	return launcher.New(cfg, key, logger).Run(args)
}
