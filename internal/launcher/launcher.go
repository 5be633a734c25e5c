// Package launcher locates the prebuilt binary for the current platform and
// runs it in place of this process.
//
// A run is three steps: the Locator resolves <root>/bin/<key>/<binary>,
// NormalizePermissions restores execute bits (best effort, skipped on
// Windows), and the Delegator runs the binary with the caller's arguments and
// standard streams, mapping its exit status back through ExitCode.
package launcher

import (
	"fmt"
	"log/slog"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/config"
	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

// Launcher runs the binary for one platform key.
type Launcher struct {
	key       platform.Key
	locator   *Locator
	delegator *Delegator
	logger    *slog.Logger
}

// New creates a launcher for key using cfg's install root and binary name.
// A nil logger discards all output.
func New(cfg *config.Config, key platform.Key, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Launcher{
		key:       key,
		locator:   NewLocator(cfg.InstallRoot, cfg.BinaryName),
		delegator: NewDelegator(),
		logger:    logger,
	}
}

// WithDelegator replaces the delegator, e.g. to redirect the child's streams.
func (l *Launcher) WithDelegator(d *Delegator) *Launcher {
	l.delegator = d
	return l
}

// Run locates the binary and runs it with args, returning once the child
// has terminated. Use ExitCode to turn the result into a process status.
func (l *Launcher) Run(args []string) error {
	path, found, err := l.locator.Locate(l.key)
	if err != nil {
		return fmt.Errorf("locate binary: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: no %q in %s (run rokit-fetch to install it)",
			ErrBinaryNotFound, l.key.ExecutableName(l.locator.baseName), l.locator.Dir(l.key))
	}
	l.logger.Debug("resolved binary", "key", l.key, "path", path)

	if !l.key.IsWindows() {
		// Failure is not fatal: if the bits are still wrong, the spawn
		// below reports it.
		if err := NormalizePermissions(path); err != nil {
			l.logger.Debug("permission repair failed", "path", path, "error", err)
		}
	}

	l.logger.Debug("starting child", "path", path, "args", len(args))
	err = l.delegator.Run(path, args)
	l.logger.Debug("child finished", "exit_code", ExitCode(err))
	return err
}
