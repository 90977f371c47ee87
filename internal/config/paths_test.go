package config

import "testing"

func TestResolveSettingsPathPrefersExplicitPath(t *testing.T) {
	t.Setenv("JEFE_SETTINGS_PATH", "/tmp/custom-settings.toml")
	t.Setenv("JEFE_CONFIG_DIR", "/tmp/should-not-use")

	if got := resolveSettingsPath(); got != "/tmp/custom-settings.toml" {
		t.Fatalf("expected explicit path to win, got %q", got)
	}
}

func TestResolveSettingsPathFallsBackToConfigDir(t *testing.T) {
	t.Setenv("JEFE_SETTINGS_PATH", "")
	t.Setenv("JEFE_CONFIG_DIR", "/tmp/cfgdir")

	if got, want := resolveSettingsPath(), "/tmp/cfgdir/settings.toml"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestResolveStatePathPrefersExplicitPath(t *testing.T) {
	t.Setenv("JEFE_STATE_PATH", "/tmp/custom-state.json")
	t.Setenv("JEFE_STATE_DIR", "/tmp/should-not-use")

	if got := resolveStatePath(); got != "/tmp/custom-state.json" {
		t.Fatalf("expected explicit path to win, got %q", got)
	}
}

func TestResolvePathsEndInExpectedFilenames(t *testing.T) {
	t.Setenv("JEFE_SETTINGS_PATH", "")
	t.Setenv("JEFE_STATE_PATH", "")
	t.Setenv("JEFE_CONFIG_DIR", "/tmp/cfgdir")
	t.Setenv("JEFE_STATE_DIR", "/tmp/statedir")

	p := ResolvePaths()
	if p.SettingsPath != "/tmp/cfgdir/settings.toml" {
		t.Fatalf("unexpected settings path %q", p.SettingsPath)
	}
	if p.StatePath != "/tmp/statedir/state.json" {
		t.Fatalf("unexpected state path %q", p.StatePath)
	}
}
