package launcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

// Locator finds the extracted executable for a platform key.
type Locator struct {
	root     string
	baseName string
	readDir  func(name string) ([]fs.DirEntry, error)
}

// NewLocator creates a locator for binaries named baseName under
// <root>/bin/<key>.
func NewLocator(root, baseName string) *Locator {
	return &Locator{
		root:     root,
		baseName: baseName,
		readDir:  os.ReadDir,
	}
}

// Dir returns the directory searched for key.
func (l *Locator) Dir(key platform.Key) string {
	return filepath.Join(l.root, "bin", key.String())
}

// Locate returns the path of the executable for key.
//
// Only regular files directly inside Dir(key) are considered. A file named
// exactly key.ExecutableName(baseName) wins; otherwise the first file, in
// directory listing order, whose name contains it is used. found is false
// when nothing matches or the directory does not exist; err is reserved for
// other read failures.
func (l *Locator) Locate(key platform.Key) (path string, found bool, err error) {
	dir := l.Dir(key)
	want := key.ExecutableName(l.baseName)

	entries, err := l.readDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read binary directory: %w", err)
	}

	var partial string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if name == want {
			return filepath.Join(dir, name), true, nil
		}
		if partial == "" && strings.Contains(name, want) {
			partial = name
		}
	}

	if partial == "" {
		return "", false, nil
	}
	return filepath.Join(dir, partial), true, nil
}
