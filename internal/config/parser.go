package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/rokit-launcher/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// FileSettings holds the values a Lua settings file declared. Values only
// contains keys the file actually set, so it can be merged under the
// environment without masking defaults.
type FileSettings struct {
	Values map[string]any
	Assets []AssetRule
}

// Parser evaluates Lua settings files with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new parser. A nil detector leaves the platform table
// undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile reads and evaluates a Lua settings file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*FileSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return p.ParseString(ctx, string(data))
}

// ParseString evaluates Lua settings from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*FileSettings, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractSettings(L)
}

// ParseError represents a settings file error with a friendly message.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractSettings reads the global "launcher" table. A file that does not
// define it yields empty settings.
func extractSettings(L *lua.LState) (*FileSettings, error) {
	settings := &FileSettings{Values: map[string]any{}}

	global := L.GetGlobal(luaGlobalLauncher)
	if global.Type() == lua.LTNil {
		return settings, nil
	}
	table, ok := global.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: fmt.Sprintf("invalid '%s' table", luaGlobalLauncher),
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	stringFields := map[string]string{
		luaFieldBinary:  KeyBinaryName,
		luaFieldRepo:    KeyRepo,
		luaFieldAPIBase: KeyAPIBaseURL,
	}
	for field, key := range stringFields {
		val := table.RawGetString(field)
		switch val.Type() {
		case lua.LTNil:
		case lua.LTString:
			settings.Values[key] = val.String()
		default:
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid '%s' field", field),
				Detail:  fmt.Sprintf("expected string, got %s", val.Type()),
			}
		}
	}

	if val := table.RawGetString(luaFieldDebug); val.Type() == lua.LTBool {
		settings.Values[KeyDebug] = bool(val.(lua.LBool))
	}

	if val := table.RawGetString(luaFieldAssets); val.Type() == lua.LTTable {
		assets, err := extractAssetRules(val.(*lua.LTable))
		if err != nil {
			return nil, err
		}
		settings.Assets = assets
	}

	return settings, nil
}

// extractAssetRules reads an array of {key = "...", match = {...}} entries.
// nil entries from platform.when() are skipped; a bare string for match is
// accepted as a single pattern.
func extractAssetRules(table *lua.LTable) ([]AssetRule, error) {
	var rules []AssetRule
	var parseErr error

	n := table.Len()
	for i := 1; i <= n; i++ {
		entry := table.RawGetInt(i)
		if entry.Type() == lua.LTNil {
			continue
		}
		ruleTable, ok := entry.(*lua.LTable)
		if !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("invalid assets[%d]", i),
				Detail:  fmt.Sprintf("expected table, got %s", entry.Type()),
			}
		}

		rule := AssetRule{}
		if keyVal := ruleTable.RawGetString(luaFieldKey); keyVal.Type() == lua.LTString {
			rule.Key = platform.Key(keyVal.String())
		}

		switch match := ruleTable.RawGetString(luaFieldMatch).(type) {
		case lua.LString:
			rule.Patterns = append(rule.Patterns, strings.ToLower(string(match)))
		case *lua.LTable:
			match.ForEach(func(_, value lua.LValue) {
				if value.Type() != lua.LTString {
					if parseErr == nil {
						parseErr = &ParseError{
							Message: fmt.Sprintf("invalid assets[%d].match", i),
							Detail:  fmt.Sprintf("expected strings, got %s", value.Type()),
						}
					}
					return
				}
				rule.Patterns = append(rule.Patterns, strings.ToLower(value.String()))
			})
		}
		if parseErr != nil {
			return nil, parseErr
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

// FormatError formats err for user display. A ParseError anywhere in the
// chain has its Lua stack traceback trimmed unless verbose is set, in which
// case the full detail follows the message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	full := err.Error()
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s",
			strings.Replace(full, parseErr.Error(), parseErr.Message, 1), parseErr.Detail)
	}

	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return strings.Replace(full, parseErr.Error(), fmt.Sprintf("%s: %s", parseErr.Message, detail), 1)
}
