package launcher

import (
	"errors"
	"fmt"
)

// ErrBinaryNotFound is returned by Launcher.Run when the platform directory
// holds no matching executable. Nothing is spawned in that case.
var ErrBinaryNotFound = errors.New("binary not found")

// fallbackExitCode is used when a failure carries no usable exit status.
const fallbackExitCode = 1

// successCodes lists child exit statuses reported as success. 2 is the
// wrapped CLI's own "nothing to do" status, not a launcher fault.
var successCodes = map[int]bool{
	0: true,
	2: true,
}

// ExitError reports a child that ran and exited with a non-success status.
type ExitError struct {
	// Code is the child's exit status, or fallbackExitCode when the child
	// was killed by a signal.
	Code int
	// Signaled is set when the child did not exit on its own.
	Signaled bool
	// State is the OS description of how the child ended, e.g. "signal: killed".
	State string
}

func (e *ExitError) Error() string {
	if e.Signaled {
		return fmt.Sprintf("process terminated (%s)", e.State)
	}
	return fmt.Sprintf("process exited with code %d", e.Code)
}

// SpawnError reports a child that could not be started. Err is the native
// error from the OS.
type SpawnError struct {
	Path string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("start %s: %v", e.Path, e.Err)
}

// Unwrap returns the native error, preserving the chain for errors.Is.
func (e *SpawnError) Unwrap() error {
	return e.Err
}

// ExitCode maps a Run result to the launcher's own exit status: 0 on
// success, the child's code for an ExitError, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code != 0 {
		return exitErr.Code
	}
	return fallbackExitCode
}
