package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llxprt/jefe/internal/appstate"
	"github.com/llxprt/jefe/internal/domain"
	"github.com/llxprt/jefe/internal/viewer"
)

// windowedMargin is the border left around the frame on each side when
// JEFE_WINDOWED=1, instead of filling the terminal.
const windowedMargin = 2

// frameSize returns the width/height available to the dashboard content:
// the full terminal size, or shrunk by windowedMargin on each side when
// windowed mode is on.
func (m *Model) frameSize() (width, height int) {
	if !m.windowed {
		return m.width, m.height
	}
	width = m.width - 2*windowedMargin
	height = m.height - 2*windowedMargin
	if width < 20 {
		width = m.width
	}
	if height < 10 {
		height = m.height
	}
	return width, height
}

// render produces the full frame. Caller must hold mu (read or write).
func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	width, height := m.frameSize()

	body := m.renderDashboard(width, height)
	if m.state.ScreenMode == appstate.ScreenSplit {
		body = m.renderSplit(width, height)
	}

	sections := []string{body, m.renderStatusBar(width)}

	var frame string
	if modal := m.renderModal(); modal != "" {
		frame = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
	} else {
		frame = lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.windowed {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, frame)
	}
	return frame
}

// renderDashboard lays out the Repositories, Agents, and Terminal panes
// side by side with the focused pane's border highlighted.
func (m *Model) renderDashboard(width, height int) string {
	paneWidth := (width - 6) / 3
	if paneWidth < 16 {
		paneWidth = 16
	}
	paneHeight := height - reservedChromeRows

	repos := m.paneStyle(appstate.PaneRepositories).Width(paneWidth).Height(paneHeight).Render(m.renderRepositoriesPane())
	agents := m.paneStyle(appstate.PaneAgents).Width(paneWidth).Height(paneHeight).Render(m.renderAgentsPane())
	term := m.paneStyle(appstate.PaneTerminal).Width(paneWidth).Height(paneHeight).Render(m.renderTerminalPane())

	return lipgloss.JoinHorizontal(lipgloss.Top, repos, agents, term)
}

func (m *Model) paneStyle(pane appstate.PaneFocus) lipgloss.Style {
	if m.state.PaneFocus == pane {
		return m.styles.PaneBorderFocus
	}
	return m.styles.PaneBorder
}

// searchQuery returns the live query and whether the search modal is open.
func (m *Model) searchQuery() (string, bool) {
	if s, ok := m.state.Modal.(appstate.ModalSearch); ok {
		return s.Query, true
	}
	return "", false
}

func matchesSearch(query, name string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(query))
}

func (m *Model) renderRepositoriesPane() string {
	var lines []string
	lines = append(lines, m.styles.Bright.Render("Repositories"))
	query, searching := m.searchQuery()
	any := false
	for i, r := range m.state.Repositories {
		if searching && !matchesSearch(query, r.Name) {
			continue
		}
		any = true
		prefix := "  "
		line := fmt.Sprintf("%s%s", prefix, r.Name)
		if m.state.HasSelectedRepository && m.state.SelectedRepositoryIndex == i {
			line = m.styles.Selected.Render("> " + r.Name)
		}
		lines = append(lines, line)
	}
	if !any {
		if searching {
			lines = append(lines, m.styles.Dim.Render("  (no matches)"))
		} else {
			lines = append(lines, m.styles.Dim.Render("  (none — press R)"))
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderAgentsPane() string {
	var lines []string
	lines = append(lines, m.styles.Bright.Render("Agents"))

	repo, ok := appstate.SelectedRepository(m.state)
	if !ok {
		lines = append(lines, m.styles.Dim.Render("  (select a repository)"))
		return strings.Join(lines, "\n")
	}

	selected, hasSelected := appstate.SelectedAgent(m.state)
	query, searching := m.searchQuery()

	any := false
	for _, a := range m.state.Agents {
		if a.RepositoryID != repo.ID {
			continue
		}
		if searching && !matchesSearch(query, a.Name) {
			continue
		}
		any = true
		line := fmt.Sprintf("  %s %s", statusGlyph(a.Status), a.Name)
		if hasSelected && a.ID == selected.ID {
			line = m.styles.Selected.Render(fmt.Sprintf("> %s %s", statusGlyph(a.Status), a.Name))
		}
		lines = append(lines, line)
	}
	if !any {
		if searching {
			lines = append(lines, m.styles.Dim.Render("  (no matches)"))
		} else {
			lines = append(lines, m.styles.Dim.Render("  (none — press a)"))
		}
	}
	return strings.Join(lines, "\n")
}

func statusGlyph(s domain.AgentStatus) string {
	switch s {
	case domain.StatusRunning:
		return "●"
	case domain.StatusWaiting:
		return "◐"
	case domain.StatusPaused:
		return "‖"
	case domain.StatusErrored:
		return "✗"
	case domain.StatusCompleted:
		return "✓"
	case domain.StatusDead:
		return "○"
	default:
		return "·"
	}
}

// renderTerminalPane renders the attached agent's live terminal snapshot, if
// any, to plain text: the pane shows characters only, not per-cell color,
// whether or not it holds focus.
func (m *Model) renderTerminalPane() string {
	title := m.styles.Bright.Render("Terminal")
	snap, ok := m.snapshotLocked()
	if !ok {
		return title + "\n" + m.styles.Dim.Render("  (not attached)")
	}
	return title + "\n" + renderSnapshot(snap)
}

func renderSnapshot(snap viewer.TerminalSnapshot) string {
	var b strings.Builder
	for _, row := range snap.Cells {
		for _, c := range row {
			if c.Char == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteRune(c.Char)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// renderSplit renders the Split screen: the repository list as a
// reorderable list, with the grabbed row highlighted while grab mode is
// active.
func (m *Model) renderSplit(width, height int) string {
	var lines []string
	lines = append(lines, m.styles.Bright.Render("Repositories (split view)"))
	for i, r := range m.state.Repositories {
		line := fmt.Sprintf("  %s", r.Name)
		switch {
		case m.state.HasSplitGrab && m.state.SplitGrabIndex == i:
			line = m.styles.Selected.Render("  [grabbed] " + r.Name)
		case m.state.HasSelectedRepository && m.state.SelectedRepositoryIndex == i:
			line = m.styles.Selected.Render("> " + r.Name)
		}
		lines = append(lines, line)
	}
	return m.styles.PaneBorderFocus.Width(width - 2).Height(height - reservedChromeRows).Render(strings.Join(lines, "\n"))
}

// renderModal renders the active modal centered over the dashboard, or ""
// when no modal is open.
func (m *Model) renderModal() string {
	switch modal := m.state.Modal.(type) {
	case appstate.ModalNone:
		return ""
	case appstate.ModalHelp:
		return m.styles.ModalBorder.Render(m.help.View(m.keys))
	case appstate.ModalSearch:
		return m.styles.ModalBorder.Render("Search: " + modal.Query)
	case appstate.ModalNewRepository:
		return m.styles.ModalBorder.Render(renderRepositoryForm("New Repository", modal.Fields, modal.Focus))
	case appstate.ModalEditRepository:
		return m.styles.ModalBorder.Render(renderRepositoryForm("Edit Repository", modal.Fields, modal.Focus))
	case appstate.ModalNewAgent:
		return m.styles.ModalBorder.Render(renderAgentForm("New Agent", modal.Fields, modal.Focus))
	case appstate.ModalEditAgent:
		return m.styles.ModalBorder.Render(renderAgentForm("Edit Agent", modal.Fields, modal.Focus))
	case appstate.ModalConfirmDeleteRepository:
		return m.styles.ModalBorder.Render("Delete this repository and all its agents? (enter to confirm, esc to cancel)")
	case appstate.ModalConfirmDeleteAgent:
		text := "Delete this agent? (enter to confirm, esc to cancel)\n"
		text += fmt.Sprintf("Delete working directory too: %s (d to toggle)", checkbox(modal.DeleteWorkDir))
		return m.styles.ModalBorder.Render(text)
	case appstate.ModalConfirmKillAgent:
		return m.styles.ModalBorder.Render("Kill this agent's running session? (enter to confirm, esc to cancel)")
	}
	return ""
}

func checkbox(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

func renderRepositoryForm(title string, f appstate.RepositoryFormFields, focus appstate.RepositoryFormFocus) string {
	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(formField("Name", f.Name, focus == appstate.RepoFocusName))
	b.WriteString(formField("Base dir", f.BaseDir, focus == appstate.RepoFocusBaseDir))
	b.WriteString(formField("Default profile", f.DefaultProfile, focus == appstate.RepoFocusDefaultProfile))
	return b.String()
}

func renderAgentForm(title string, f appstate.AgentFormFields, focus appstate.AgentFormFocus) string {
	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString(formField("Name", f.Name, focus == appstate.AgentFocusName))
	b.WriteString(formField("Description", f.Description, focus == appstate.AgentFocusDescription))
	b.WriteString(formField("Work dir", f.WorkDir, focus == appstate.AgentFocusWorkDir))
	b.WriteString(formField("Profile", f.Profile, focus == appstate.AgentFocusProfile))
	b.WriteString(formField("Mode flags", f.Mode, focus == appstate.AgentFocusMode))
	b.WriteString(fmt.Sprintf("[%s] Pass --continue %s\n", checkboxMark(f.PassContinue), focusMark(focus == appstate.AgentFocusPassContinue)))
	return b.String()
}

func formField(label, value string, focused bool) string {
	return fmt.Sprintf("%s: %s%s\n", label, value, focusMark(focused))
}

func focusMark(focused bool) string {
	if focused {
		return " <"
	}
	return ""
}

func checkboxMark(v bool) string {
	if v {
		return "x"
	}
	return " "
}

// renderStatusBar renders the bottom bar: an error/warning banner when
// present, otherwise the short key-hint line.
func (m *Model) renderStatusBar(width int) string {
	if m.state.HasError {
		return m.styles.ErrorText.Width(width).Render("Error: " + m.state.ErrorMessage)
	}
	if m.state.HasWarning {
		return m.styles.WarningText.Width(width).Render("Warning: " + m.state.WarningMessage)
	}

	var hints []string
	for _, b := range m.keys.ShortHelp() {
		hints = append(hints, b.Help().Key+":"+b.Help().Desc)
	}
	return m.styles.StatusBar.Width(width).Render(strings.Join(hints, "  "))
}
