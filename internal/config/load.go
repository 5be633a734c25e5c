package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
	"github.com/spf13/viper"
)

type loadSettings struct {
	installRoot string
	detector    platform.Detector
	overrides   map[string]any
}

// Option configures Load.
type Option func(*loadSettings)

// WithInstallRoot pins the install root, taking precedence over ROKIT_HOME.
func WithInstallRoot(dir string) Option {
	return func(s *loadSettings) {
		s.installRoot = dir
	}
}

// WithDetector sets the detector used for the Lua platform table.
func WithDetector(d platform.Detector) Option {
	return func(s *loadSettings) {
		s.detector = d
	}
}

// WithOverrides injects values typically coming from CLI flags. Empty
// strings are ignored so unset flags do not mask lower layers.
func WithOverrides(overrides map[string]any) Option {
	return func(s *loadSettings) {
		s.overrides = overrides
	}
}

// Load resolves settings using the precedence:
// defaults < rokit.lua < ROKIT_* environment < overrides.
//
// The install root itself cannot be set from rokit.lua since the file is
// looked up inside it.
func Load(ctx context.Context, opts ...Option) (*Config, error) {
	settings := loadSettings{detector: platform.NewDetector()}
	for _, opt := range opts {
		opt(&settings)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(KeyBinaryName, DefaultBinaryName)
	v.SetDefault(KeyRepo, DefaultRepo)
	v.SetDefault(KeyAPIBaseURL, DefaultAPIBaseURL)
	v.SetDefault(KeyDebug, false)

	for k, val := range settings.overrides {
		if s, ok := val.(string); ok && s == "" {
			continue
		}
		v.Set(k, val)
	}
	if settings.installRoot != "" {
		v.Set(KeyInstallRoot, settings.installRoot)
	}

	root := v.GetString(KeyInstallRoot)
	if root == "" {
		var err error
		root, err = defaultInstallRoot()
		if err != nil {
			return nil, fmt.Errorf("resolve install root: %w", err)
		}
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve install root: %w", err)
	}

	assets := DefaultAssetRules()
	fileSettings, err := readSettingsFile(ctx, filepath.Join(root, FileName), settings.detector)
	if err != nil {
		return nil, err
	}
	if fileSettings != nil {
		if err := v.MergeConfigMap(fileSettings.Values); err != nil {
			return nil, fmt.Errorf("merge %s: %w", FileName, err)
		}
		if len(fileSettings.Assets) > 0 {
			assets = fileSettings.Assets
		}
	}

	cfg := &Config{
		InstallRoot: root,
		BinaryName:  v.GetString(KeyBinaryName),
		Repo:        v.GetString(KeyRepo),
		APIBaseURL:  strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		Debug:       v.GetBool(KeyDebug),
		Assets:      assets,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DebugFromEnv reports whether ROKIT_DEBUG is set to a true value. It is
// used to format errors raised before a Config exists.
func DebugFromEnv() bool {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	_ = v.BindEnv(KeyDebug)
	return v.GetBool(KeyDebug)
}

// readSettingsFile returns nil settings when the file does not exist.
func readSettingsFile(ctx context.Context, path string, detector platform.Detector) (*FileSettings, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", FileName, err)
	}

	fileSettings, err := NewParser(detector).ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return fileSettings, nil
}

// defaultInstallRoot is the directory holding the running executable, so a
// launcher shipped next to its bin/ tree finds it without configuration.
func defaultInstallRoot() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolve symlinks: %w", err)
	}
	return filepath.Dir(exe), nil
}
