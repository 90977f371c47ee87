// Package style builds lipgloss styles from a resolved theme palette.
package style

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llxprt/jefe/internal/theme"
)

// Styles is the set of named, reusable lipgloss styles for one theme.
type Styles struct {
	Base            lipgloss.Style
	Bright          lipgloss.Style
	Dim             lipgloss.Style
	Border          lipgloss.Style
	BorderFocused   lipgloss.Style
	Selected        lipgloss.Style
	StatusBar       lipgloss.Style
	ErrorText       lipgloss.Style
	WarningText     lipgloss.Style
	PaneBorder      lipgloss.Style
	PaneBorderFocus lipgloss.Style
	ModalBorder     lipgloss.Style
}

// Build derives Styles from a resolved theme palette.
func Build(resolved theme.Resolved) Styles {
	return Styles{
		Base:          lipgloss.NewStyle().Foreground(resolved.FG).Background(resolved.BG),
		Bright:        lipgloss.NewStyle().Foreground(resolved.Bright).Bold(true),
		Dim:           lipgloss.NewStyle().Foreground(resolved.Dim),
		Border:        lipgloss.NewStyle().Foreground(resolved.Border),
		BorderFocused: lipgloss.NewStyle().Foreground(resolved.BorderFocused).Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(resolved.SelFG).
			Background(resolved.SelBG).
			Bold(true),
		StatusBar:   lipgloss.NewStyle().Foreground(resolved.Dim),
		ErrorText:   lipgloss.NewStyle().Foreground(resolved.Bright).Bold(true),
		WarningText: lipgloss.NewStyle().Foreground(resolved.Dim).Italic(true),
		PaneBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(resolved.Border).
			Padding(0, 1),
		PaneBorderFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(resolved.BorderFocused).
			Padding(0, 1),
		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(resolved.BorderFocused).
			Padding(1, 2),
	}
}
