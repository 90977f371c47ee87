// Package theme implements theme loading and resolution, with the
// built-in "green-screen" theme as the permanent default and fallback:
// an unresolvable slug never breaks rendering, it just falls back.
package theme

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Kind classifies a theme's overall brightness/rendering family.
type Kind string

const (
	KindDark   Kind = "dark"
	KindLight  Kind = "light"
	KindAnsi   Kind = "ansi"
	KindCustom Kind = "custom"
)

// Colors is a theme's raw "#RRGGBB" hex palette, the on-disk/serialized
// representation.
type Colors struct {
	Background      string `json:"background"`
	Foreground      string `json:"foreground"`
	AccentPrimary   string `json:"accent_primary"`
	AccentSecondary string `json:"accent_secondary"`
	AccentSuccess   string `json:"accent_success"`
	AccentWarning   string `json:"accent_warning"`
	AccentError     string `json:"accent_error"`
	BorderDefault   string `json:"border_default"`
	BorderFocused   string `json:"border_focused"`
	SelectionBG     string `json:"selection_bg"`
	SelectionFG     string `json:"selection_fg"`
}

// GreenScreenColors is the built-in default and fallback palette.
func GreenScreenColors() Colors {
	return Colors{
		Background:      "#000000",
		Foreground:      "#6a9955",
		AccentPrimary:   "#6a9955",
		AccentSecondary: "#6a9955",
		AccentSuccess:   "#00ff00",
		AccentWarning:   "#6a9955",
		AccentError:     "#6a9955",
		BorderDefault:   "#6a9955",
		BorderFocused:   "#00ff00",
		SelectionBG:     "#6a9955",
		SelectionFG:     "#000000",
	}
}

// parseHex validates a "#RRGGBB" string well enough to hand to lipgloss; an
// invalid string causes the caller to fall back to its Green Screen
// default instead.
func parseHex(s string) (lipgloss.Color, bool) {
	if len(s) != 7 || s[0] != '#' {
		return "", false
	}
	if _, err := strconv.ParseUint(s[1:], 16, 32); err != nil {
		return "", false
	}
	return lipgloss.Color(s), true
}

// Resolved is a theme's colors pre-extracted into lipgloss.Color values,
// so rendering code never parses hex or unwraps an Option.
type Resolved struct {
	FG            lipgloss.Color
	Bright        lipgloss.Color
	Dim           lipgloss.Color
	Border        lipgloss.Color
	BorderFocused lipgloss.Color
	BG            lipgloss.Color
	SelFG         lipgloss.Color
	SelBG         lipgloss.Color
}

var greenScreenResolved = Resolved{
	FG:            lipgloss.Color("#6a9955"),
	Bright:        lipgloss.Color("#00ff00"),
	Dim:           lipgloss.Color("#4a7035"),
	Border:        lipgloss.Color("#6a9955"),
	BorderFocused: lipgloss.Color("#00ff00"),
	BG:            lipgloss.Color("#000000"),
	SelFG:         lipgloss.Color("#000000"),
	SelBG:         lipgloss.Color("#6a9955"),
}

// Resolve converts a raw Colors palette into Resolved colors, substituting
// the Green Screen fallback for any field that fails to parse.
func Resolve(c Colors) Resolved {
	pick := func(s string, fallback lipgloss.Color) lipgloss.Color {
		if v, ok := parseHex(s); ok {
			return v
		}
		return fallback
	}
	return Resolved{
		FG:            pick(c.Foreground, greenScreenResolved.FG),
		Bright:        pick(c.AccentSuccess, greenScreenResolved.Bright),
		Dim:           pick(c.AccentSecondary, greenScreenResolved.Dim),
		Border:        pick(c.BorderDefault, greenScreenResolved.Border),
		BorderFocused: pick(c.BorderFocused, greenScreenResolved.BorderFocused),
		BG:            pick(c.Background, greenScreenResolved.BG),
		SelFG:         pick(c.SelectionFG, greenScreenResolved.SelFG),
		SelBG:         pick(c.SelectionBG, greenScreenResolved.SelBG),
	}
}

// Definition is a named, slugged theme.
type Definition struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Kind   Kind   `json:"kind"`
	Colors Colors `json:"colors"`
}

// GreenScreen is the built-in default theme definition.
func GreenScreen() Definition {
	return Definition{Name: "Green Screen", Slug: "green-screen", Kind: KindDark, Colors: GreenScreenColors()}
}

// Manager holds the set of loaded themes and tracks the active one. The
// Green Screen theme is always present at index 0 and can never be
// removed.
type Manager struct {
	themes []Definition
	active int
}

// NewManager returns a Manager seeded with only the Green Screen theme.
func NewManager() *Manager {
	return &Manager{themes: []Definition{GreenScreen()}}
}

// LoadFromDir loads additional theme definitions from *.json files in dir.
// Invalid files, and files whose slug duplicates an already-loaded theme,
// are skipped silently — a broken theme file must never prevent startup.
func (m *Manager) LoadFromDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		var def Definition
		if err := json.Unmarshal(data, &def); err != nil {
			continue
		}
		if m.hasSlug(def.Slug) {
			continue
		}
		m.themes = append(m.themes, def)
	}
}

func (m *Manager) hasSlug(slug string) bool {
	for _, t := range m.themes {
		if t.Slug == slug {
			return true
		}
	}
	return false
}

// AvailableThemes lists every loaded theme's slug.
func (m *Manager) AvailableThemes() []string {
	slugs := make([]string, len(m.themes))
	for i, t := range m.themes {
		slugs[i] = t.Slug
	}
	return slugs
}

// ActiveTheme returns the currently active theme definition.
func (m *Manager) ActiveTheme() Definition {
	return m.themes[m.active]
}

// SetActive switches the active theme by slug. On an unknown slug it
// falls back to Green Screen (index 0) and returns an error describing
// the failed slug — callers surface this as a ThemeResolveFailed warning,
// never a hard failure.
func (m *Manager) SetActive(slug string) error {
	for i, t := range m.themes {
		if t.Slug == slug {
			m.active = i
			return nil
		}
	}
	m.active = 0
	return fmt.Errorf("theme not found: %s", slug)
}

// Resolve looks up a theme by slug without changing the active theme,
// falling back to Green Screen if the slug is unknown.
func (m *Manager) Resolve(slug string) Definition {
	for _, t := range m.themes {
		if t.Slug == slug {
			return t
		}
	}
	return GreenScreen()
}

// WithTheme applies slug as the active theme (ignoring a not-found error,
// since SetActive already falls back) and returns m for chaining during
// construction from persisted settings.
func (m *Manager) WithTheme(slug string) *Manager {
	_ = m.SetActive(slug)
	return m
}
