package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// Key identifies a platform-specific binary directory under <root>/bin.
type Key string

const (
	KeyWin32  Key = "win32"
	KeyLinux  Key = "linux"
	KeyDarwin Key = "darwin"
	// KeyArm64 is the Apple Silicon build; the release feed publishes it
	// separately from the Intel macOS build.
	KeyArm64 Key = "arm64"
)

// ErrUnsupportedPlatform is returned when no key maps to the host.
var ErrUnsupportedPlatform = errors.New("unsupported platform")

// AllKeys lists every supported key in the order the fetcher reports them.
var AllKeys = []Key{KeyWin32, KeyLinux, KeyDarwin, KeyArm64}

// String returns the string representation of the key.
func (k Key) String() string {
	return string(k)
}

// IsWindows reports whether binaries under this key are Windows executables.
func (k Key) IsWindows() bool {
	return k == KeyWin32
}

// Valid reports whether k is one of the supported keys.
func (k Key) Valid() bool {
	for _, known := range AllKeys {
		if k == known {
			return true
		}
	}
	return false
}

// ExecutableName returns the expected executable file name for base.
func (k Key) ExecutableName(base string) string {
	if k.IsWindows() {
		return base + ".exe"
	}
	return base
}

// KeyFor maps GOOS/GOARCH values to a platform key.
func KeyFor(goos, goarch string) (Key, error) {
	switch goos {
	case "windows":
		return KeyWin32, nil
	case "linux":
		return KeyLinux, nil
	case "darwin":
		if arch, err := normalizeArch(goarch); err == nil && arch == "arm64" {
			return KeyArm64, nil
		}
		return KeyDarwin, nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, goos, goarch)
	}
}

// CurrentKey returns the key of the running process. It never changes for
// the lifetime of the process.
func CurrentKey() (Key, error) {
	return KeyFor(runtime.GOOS, runtime.GOARCH)
}
