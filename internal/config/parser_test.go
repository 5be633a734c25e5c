package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
)

func TestParser_ParseString_Empty(t *testing.T) {
	settings, err := NewParser(nil).ParseString(context.Background(), `-- nothing here`)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if len(settings.Values) != 0 || len(settings.Assets) != 0 {
		t.Errorf("expected empty settings, got %+v", settings)
	}
}

func TestParser_ParseString_Full(t *testing.T) {
	code := `
		launcher = {
			binary = "rojo",
			repo = "rojo-rbx/rojo",
			api_base = "https://ghe.example.com/api/v3",
			debug = true,
			assets = {
				{ key = "win32", match = { "Windows" } },
				{ key = "linux", match = "linux-x86_64" },
			},
		}
	`

	settings, err := NewParser(nil).ParseString(context.Background(), code)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	want := map[string]any{
		KeyBinaryName: "rojo",
		KeyRepo:       "rojo-rbx/rojo",
		KeyAPIBaseURL: "https://ghe.example.com/api/v3",
		KeyDebug:      true,
	}
	for k, v := range want {
		if settings.Values[k] != v {
			t.Errorf("Values[%q] = %v, want %v", k, settings.Values[k], v)
		}
	}

	if len(settings.Assets) != 2 {
		t.Fatalf("Assets length = %d, want 2", len(settings.Assets))
	}
	if settings.Assets[0].Key != platform.KeyWin32 || settings.Assets[0].Patterns[0] != "windows" {
		t.Errorf("Assets[0] = %+v, want win32/[windows] (lower-cased)", settings.Assets[0])
	}
	if settings.Assets[1].Key != platform.KeyLinux || settings.Assets[1].Patterns[0] != "linux-x86_64" {
		t.Errorf("Assets[1] = %+v", settings.Assets[1])
	}
}

func TestParser_ParseString_PlatformConditional(t *testing.T) {
	detector := &fixedDetector{info: &platform.Info{OS: "windows", Arch: "amd64", ArchRaw: "amd64"}}
	code := `
		launcher = {
			binary = platform.is_windows and "rokit-win" or "rokit",
			assets = {
				platform.when(platform.key == "win32", { key = "win32", match = { "windows" } }),
				platform.when(platform.key == "linux", { key = "linux", match = { "linux" } }),
			},
		}
	`

	settings, err := NewParser(detector).ParseString(context.Background(), code)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	if settings.Values[KeyBinaryName] != "rokit-win" {
		t.Errorf("binary = %v, want rokit-win", settings.Values[KeyBinaryName])
	}
	if len(settings.Assets) != 1 || settings.Assets[0].Key != platform.KeyWin32 {
		t.Errorf("Assets = %+v, want only win32", settings.Assets)
	}
}

func TestParser_ParseString_Errors(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{name: "syntax_error", code: `launcher = {`},
		{name: "launcher_not_table", code: `launcher = "rokit"`},
		{name: "binary_not_string", code: `launcher = { binary = 42 }`},
		{name: "asset_not_table", code: `launcher = { assets = { "linux" } }`},
		{name: "match_not_strings", code: `launcher = { assets = { { key = "linux", match = { 1 } } } }`},
		{name: "sandbox_escape", code: `os.exit(1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(nil).ParseString(context.Background(), tt.code)
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("ParseString() error = %v, want *ParseError", err)
			}
		})
	}
}

func TestParser_ParseString_DetectorFailure(t *testing.T) {
	detector := &fixedDetector{err: errors.New("boom")}
	_, err := NewParser(detector).ParseString(context.Background(), `launcher = {}`)
	if err == nil || !strings.Contains(err.Error(), "platform detection failed") {
		t.Errorf("ParseString() error = %v, want platform detection failure", err)
	}
}

func TestParser_ParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`launcher = { repo = "a/b" }`), 0o644); err != nil {
		t.Fatal(err)
	}

	settings, err := NewParser(nil).ParseFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if settings.Values[KeyRepo] != "a/b" {
		t.Errorf("repo = %v, want a/b", settings.Values[KeyRepo])
	}

	if _, err := NewParser(nil).ParseFile(context.Background(), filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFormatError(t *testing.T) {
	err := &ParseError{Message: "Lua syntax error", Detail: "line 1: oops\nstack traceback:\n\t[G]: ?"}

	if got := FormatError(err, false); got != "Lua syntax error: line 1: oops" {
		t.Errorf("FormatError(false) = %q", got)
	}
	if got := FormatError(err, true); !strings.Contains(got, "stack traceback") {
		t.Errorf("FormatError(true) = %q, want full detail", got)
	}
	wrapped := fmt.Errorf("load config: load /opt/rokit/rokit.lua: %w", err)
	if got := FormatError(wrapped, false); got != "load config: load /opt/rokit/rokit.lua: Lua syntax error: line 1: oops" {
		t.Errorf("FormatError(wrapped, false) = %q", got)
	}
	if got := FormatError(wrapped, true); !strings.HasPrefix(got, "load config: load /opt/rokit/rokit.lua: Lua syntax error\n\nDetails:\n") {
		t.Errorf("FormatError(wrapped, true) = %q", got)
	}
	if got := FormatError(errors.New("plain"), false); got != "plain" {
		t.Errorf("FormatError(plain) = %q", got)
	}
}
