package theme

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultThemeIsGreenScreen(t *testing.T) {
	m := NewManager()
	if m.ActiveTheme().Slug != "green-screen" {
		t.Fatalf("expected green-screen, got %q", m.ActiveTheme().Slug)
	}
}

func TestGreenScreenColorsAreDark(t *testing.T) {
	def := GreenScreen()
	if def.Kind != KindDark {
		t.Fatalf("expected Dark kind, got %v", def.Kind)
	}
	if def.Colors.Background != "#000000" || def.Colors.Foreground != "#6a9955" {
		t.Fatalf("unexpected colors: %+v", def.Colors)
	}
}

func TestResolveUnknownSlugReturnsGreenScreen(t *testing.T) {
	m := NewManager()
	def := m.Resolve("nonexistent")
	if def.Slug != "green-screen" {
		t.Fatalf("expected fallback to green-screen, got %q", def.Slug)
	}
}

func TestSetActiveUnknownFallsBackToGreenScreen(t *testing.T) {
	m := NewManager()
	err := m.SetActive("nonexistent")
	if err == nil {
		t.Fatalf("expected error for unknown slug")
	}
	if m.ActiveTheme().Slug != "green-screen" {
		t.Fatalf("expected active theme reset to green-screen, got %q", m.ActiveTheme().Slug)
	}
}

func TestLoadFromDirSkipsInvalidAndDuplicateFiles(t *testing.T) {
	dir := t.TempDir()
	valid := `{"name":"Dracula","slug":"dracula","kind":"dark","colors":{"background":"#282a36","foreground":"#f8f8f2"}}`
	os.WriteFile(filepath.Join(dir, "dracula.json"), []byte(valid), 0o644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("not json"), 0o644)
	dup := `{"name":"Green Screen Dup","slug":"green-screen","kind":"dark","colors":{}}`
	os.WriteFile(filepath.Join(dir, "dup.json"), []byte(dup), 0o644)

	m := NewManager()
	m.LoadFromDir(dir)

	themes := m.AvailableThemes()
	if len(themes) != 2 {
		t.Fatalf("expected green-screen + dracula only, got %v", themes)
	}
	if err := m.SetActive("dracula"); err != nil {
		t.Fatalf("expected dracula to be loaded: %v", err)
	}
}

func TestResolveFallsBackPerFieldOnBadHex(t *testing.T) {
	c := Colors{Foreground: "not-a-color", AccentSuccess: "#00ff00"}
	resolved := Resolve(c)
	if resolved.FG != greenScreenResolved.FG {
		t.Fatalf("expected fallback fg for invalid hex, got %v", resolved.FG)
	}
	if resolved.Bright != "#00ff00" {
		t.Fatalf("expected parsed accent_success, got %v", resolved.Bright)
	}
}
