package launcher

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Delegator runs a binary as a child process wired to the given streams.
type Delegator struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDelegator returns a delegator whose child shares this process's
// standard streams. Since they are *os.File values the child inherits the
// descriptors directly, with no copying in between.
func NewDelegator() *Delegator {
	return &Delegator{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts path with args and waits for it to terminate.
//
// There is exactly one start attempt and no timeout. The result is nil when
// the child exits 0 or 2, an *ExitError for any other termination, and a
// *SpawnError when the child could not be started.
func (d *Delegator) Run(path string, args []string) error {
	cmd := exec.Command(path, args...)
	cmd.Stdin = d.Stdin
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	if err := cmd.Start(); err != nil {
		return &SpawnError{Path: path, Err: err}
	}

	err := cmd.Wait()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("wait for %s: %w", path, err)
	}

	return classifyExit(exitErr.ExitCode(), exitErr.String())
}

// classifyExit applies the exit-code table. code is -1 when the child was
// terminated by a signal.
func classifyExit(code int, state string) error {
	if code < 0 {
		return &ExitError{Code: fallbackExitCode, Signaled: true, State: state}
	}
	if successCodes[code] {
		return nil
	}
	return &ExitError{Code: code, State: state}
}
