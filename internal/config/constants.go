package config

// Lua schema field names and globals
const (
	luaGlobalLauncher = "launcher"
	luaFieldBinary    = "binary"
	luaFieldRepo      = "repo"
	luaFieldAPIBase   = "api_base"
	luaFieldDebug     = "debug"
	luaFieldAssets    = "assets"
	luaFieldKey       = "key"
	luaFieldMatch     = "match"
)

// Setting keys. Each maps to a ROKIT_<KEY> environment variable.
const (
	KeyInstallRoot = "home"
	KeyBinaryName  = "binary"
	KeyRepo        = "repo"
	KeyAPIBaseURL  = "api_base"
	KeyDebug       = "debug"
)

const (
	DefaultBinaryName = "rokit"
	DefaultRepo       = "rojo-rbx/rokit"
	DefaultAPIBaseURL = "https://api.github.com"

	// FileName is the optional Lua settings file looked up in the install root.
	FileName = "rokit.lua"

	envPrefix = "ROKIT"
)
