package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettingsHasGreenScreenTheme(t *testing.T) {
	s := DefaultSettings()
	if s.Theme != "green-screen" {
		t.Fatalf("expected green-screen theme, got %q", s.Theme)
	}
	if s.SchemaVersion != SettingsSchemaVersion {
		t.Fatalf("expected schema version %d, got %d", SettingsSchemaVersion, s.SchemaVersion)
	}
}

func TestLoadSettingsFallsBackToDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreWithPaths(Paths{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		StatePath:    filepath.Join(dir, "state.json"),
	})

	settings := store.LoadSettings()
	if settings.Theme != "green-screen" {
		t.Fatalf("expected default theme, got %q", settings.Theme)
	}

	state := store.LoadState()
	if len(state.Repositories) != 0 {
		t.Fatalf("expected empty repositories by default")
	}
}

func TestLoadSettingsFallsBackToDefaultsWhenUnparseable(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.toml")
	if err := os.WriteFile(settingsPath, []byte("not valid = toml = garbage"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	store := NewStoreWithPaths(Paths{SettingsPath: settingsPath, StatePath: filepath.Join(dir, "state.json")})

	settings := store.LoadSettings()
	if settings.Theme != "green-screen" {
		t.Fatalf("expected fallback to default theme on parse failure, got %q", settings.Theme)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreWithPaths(Paths{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		StatePath:    filepath.Join(dir, "state.json"),
	})

	settings := Settings{SchemaVersion: SettingsSchemaVersion, Theme: "dracula"}
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	loaded := store.LoadSettings()
	if loaded.Theme != "dracula" || loaded.SchemaVersion != SettingsSchemaVersion {
		t.Fatalf("round-trip mismatch: %+v", loaded)
	}
}

func TestStateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStoreWithPaths(Paths{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		StatePath:    filepath.Join(dir, "state.json"),
	})

	idx := 2
	state := State{SchemaVersion: StateSchemaVersion, SelectedRepositoryIndex: &idx}
	if err := store.SaveState(state); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	loaded := store.LoadState()
	if loaded.SelectedRepositoryIndex == nil || *loaded.SelectedRepositoryIndex != 2 {
		t.Fatalf("expected selected index to round-trip, got %+v", loaded)
	}
}

// TestAtomicWriteLeavesOriginalIntactOnFailure verifies that a write that
// can't complete (here the temp file cannot be created) never
// touches the pre-existing file — the crash-between-steps safety property.
func TestAtomicWriteLeavesOriginalIntactOnFailure(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.toml")
	store := NewStoreWithPaths(Paths{SettingsPath: settingsPath, StatePath: filepath.Join(dir, "state.json")})

	original := Settings{SchemaVersion: SettingsSchemaVersion, Theme: "original"}
	if err := store.SaveSettings(original); err != nil {
		t.Fatalf("seed save: %v", err)
	}

	// Make the directory read-only so the temp-file create step fails
	// before any rename is attempted.
	if err := os.Chmod(dir, 0o500); err != nil {
		t.Skipf("cannot chmod in this environment: %v", err)
	}
	defer os.Chmod(dir, 0o755)

	broken := Settings{SchemaVersion: SettingsSchemaVersion, Theme: "broken"}
	_ = store.SaveSettings(broken)

	os.Chmod(dir, 0o755)
	loaded := store.LoadSettings()
	if loaded.Theme != "original" {
		t.Fatalf("expected original settings preserved after failed write, got %q", loaded.Theme)
	}
}
