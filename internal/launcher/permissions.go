package launcher

import (
	"fmt"
	"os"
)

// executableMode is rwxr-xr-x.
const executableMode os.FileMode = 0o755

// NormalizePermissions sets executable permissions on path. Archives from
// the release feed do not always preserve execute bits.
func NormalizePermissions(path string) error {
	//nolint:gosec // G302: binary needs to be executable
	if err := os.Chmod(path, executableMode); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
