// Package config loads launcher and fetcher settings.
//
// Settings are layered with viper: built-in defaults, then an optional
// sandboxed Lua file (rokit.lua) in the install root, then ROKIT_*
// environment variables, then explicit overrides from command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Config holds resolved settings.
type Config struct {
	// InstallRoot contains bin/<key>/ directories and bin/version.json.
	InstallRoot string
	// BinaryName is the base executable name, without ".exe".
	BinaryName string
	// Repo is the GitHub "owner/name" whose releases are fetched.
	Repo string
	// APIBaseURL is the GitHub API root.
	APIBaseURL string
	Debug      bool
	// Assets maps release asset names to platform keys, in priority order.
	Assets []AssetRule
}

// AssetRule assigns a release asset to Key when its lower-cased name contains
// any of Patterns.
type AssetRule struct {
	Key      platform.Key
	Patterns []string
}

// DefaultAssetRules returns the asset rules for the rokit release feed.
// Order matters: "macos-aarch" must be tried before the generic "macos".
func DefaultAssetRules() []AssetRule {
	return []AssetRule{
		{Key: platform.KeyWin32, Patterns: []string{"win32", "windows"}},
		{Key: platform.KeyLinux, Patterns: []string{"linux"}},
		{Key: platform.KeyArm64, Patterns: []string{"macos-aarch"}},
		{Key: platform.KeyDarwin, Patterns: []string{"macos", "darwin"}},
	}
}

// BinDir returns <root>/bin.
func (c *Config) BinDir() string {
	return filepath.Join(c.InstallRoot, "bin")
}

// PlatformDir returns <root>/bin/<key>.
func (c *Config) PlatformDir(key platform.Key) string {
	return filepath.Join(c.BinDir(), key.String())
}

// Validate checks the settings needed to launch an installed binary.
// Fetcher-only settings are left to ValidateFetch so a bad release feed
// setting never stops an existing install from running.
func (c *Config) Validate() error {
	var errs []error

	if c.InstallRoot == "" {
		errs = append(errs, errors.New("install root is required"))
	}

	if c.BinaryName == "" {
		errs = append(errs, errors.New("binary name is required"))
	} else if strings.ContainsAny(c.BinaryName, `/\`) || c.BinaryName == "." || c.BinaryName == ".." {
		errs = append(errs, fmt.Errorf("binary name %q must be a plain file name", c.BinaryName))
	}

	return errors.Join(errs...)
}

// ValidateFetch checks everything Validate does plus the release feed
// settings: repo, API base URL and asset rules.
func (c *Config) ValidateFetch() error {
	errs := []error{c.Validate()}

	if !repoPattern.MatchString(c.Repo) {
		errs = append(errs, fmt.Errorf("repo %q must be in owner/name form", c.Repo))
	}

	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base URL is required"))
	}

	for i, rule := range c.Assets {
		if !rule.Key.Valid() {
			errs = append(errs, fmt.Errorf("assets[%d]: unknown platform key %q", i, rule.Key))
		}
		if len(rule.Patterns) == 0 {
			errs = append(errs, fmt.Errorf("assets[%d]: at least one match pattern is required", i))
		}
		for _, p := range rule.Patterns {
			if strings.TrimSpace(p) == "" {
				errs = append(errs, fmt.Errorf("assets[%d]: empty match pattern", i))
			}
		}
	}

	return errors.Join(errs...)
}
