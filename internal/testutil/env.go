// Package testutil provides utilities for testing in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Environment variables that change where the launcher looks for binaries or
// which release feed the fetcher queries.
var isolatedVars = []string{
	"ROKIT_HOME",
	"ROKIT_BINARY",
	"ROKIT_REPO",
	"ROKIT_API_BASE",
	"ROKIT_DEBUG",
	"GITHUB_TOKEN",
}

// SetupTestEnv blanks every ROKIT_* setting for the duration of the test and
// returns a fresh install root containing an empty bin/ directory.
//
// Blank values are ignored by the config loader, so tests see defaults unless
// they set a variable themselves. Cleanup is handled by t.TempDir and
// t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	for _, name := range isolatedVars {
		t.Setenv(name, "")
	}

	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "bin"), 0o750); err != nil {
		t.Fatalf("failed to create test bin directory: %v", err)
	}
	return root
}
