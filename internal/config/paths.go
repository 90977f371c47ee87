// Package config implements the persistence contract: atomically-written
// TOML settings and JSON state, with env-var-driven path resolution and
// tolerant, fallback-to-defaults loading.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths is the pair of resolved on-disk locations for settings and state.
type Paths struct {
	SettingsPath string
	StatePath    string
}

// ResolvePaths resolves both paths per the documented precedence:
// settings.toml: JEFE_SETTINGS_PATH -> JEFE_CONFIG_DIR/settings.toml -> platform default
// state.json: JEFE_STATE_PATH -> JEFE_STATE_DIR/state.json -> platform default
func ResolvePaths() Paths {
	return Paths{
		SettingsPath: resolveSettingsPath(),
		StatePath:    resolveStatePath(),
	}
}

func resolveSettingsPath() string {
	if p := os.Getenv("JEFE_SETTINGS_PATH"); p != "" {
		return p
	}
	if dir := os.Getenv("JEFE_CONFIG_DIR"); dir != "" {
		return filepath.Join(dir, "settings.toml")
	}
	return filepath.Join(platformDefaultConfigDir(), "settings.toml")
}

func resolveStatePath() string {
	if p := os.Getenv("JEFE_STATE_PATH"); p != "" {
		return p
	}
	if dir := os.Getenv("JEFE_STATE_DIR"); dir != "" {
		return filepath.Join(dir, "state.json")
	}
	return filepath.Join(platformDefaultStateDir(), "state.json")
}

// platformDefaultConfigDir mirrors the platform default used by XDG-aware
// desktop tooling:
//   - macOS:   ~/Library/Application Support/jefe
//   - Linux:   ${XDG_CONFIG_HOME:-~/.config}/jefe
//   - Windows: %APPDATA%\jefe
func platformDefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "jefe")
	}
	return ".jefe"
}

// platformDefaultStateDir has no dedicated Go stdlib accessor; Linux
// resolves XDG_STATE_HOME directly since os.UserCacheDir/UserConfigDir
// don't cover it.
func platformDefaultStateDir() string {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
			return filepath.Join(xdg, "jefe")
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".local", "state", "jefe")
		}
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "jefe")
	}
	return ".jefe"
}
