package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llxprt/jefe/internal/appstate"
	"github.com/llxprt/jefe/internal/viewer"
)

// teaKeyToEvent translates a raw key event into an appstate.Event under the
// given InputMode. The returned bool is false when the key has no meaning
// in this mode and should be dropped.
func (m *Model) teaKeyToEvent(msg tea.KeyMsg, mode appstate.InputMode) (appstate.Event, bool) {
	switch mode {
	case appstate.InputHelp:
		return m.teaKeyToHelpEvent(msg)
	case appstate.InputForm:
		return teaKeyToFormEvent(msg)
	case appstate.InputConfirm:
		return m.teaKeyToConfirmEvent(msg)
	default:
		return m.teaKeyToNormalEvent(msg)
	}
}

func (m *Model) teaKeyToHelpEvent(msg tea.KeyMsg) (appstate.Event, bool) {
	if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) {
		return appstate.CloseModal{}, true
	}
	return nil, false
}

// teaKeyToConfirmEvent handles a confirm/delete/kill modal. Enter performs
// the action named by the modal: a kill confirmation fires KillAgent
// directly, since Apply's reducer has no generic "confirm" verb for it;
// delete confirmations route through SubmitForm, which Apply does know how
// to turn into a repository/agent removal.
func (m *Model) teaKeyToConfirmEvent(msg tea.KeyMsg) (appstate.Event, bool) {
	if key.Matches(msg, m.keys.Escape) {
		return appstate.CloseModal{}, true
	}
	if key.Matches(msg, m.keys.Enter) {
		if confirm, ok := m.state.Modal.(appstate.ModalConfirmKillAgent); ok {
			return appstate.KillAgent{ID: confirm.ID}, true
		}
		return appstate.SubmitForm{}, true
	}
	if _, ok := m.state.Modal.(appstate.ModalConfirmDeleteAgent); ok {
		if msg.String() == "d" {
			return appstate.ToggleDeleteWorkDir{}, true
		}
	}
	return nil, false
}

// teaKeyToFormEvent translates keys while a create/edit form owns input
// focus: Tab/Shift+Tab move focus, Enter submits, Esc cancels, Backspace
// edits, and any other printable rune is appended to the focused field.
func teaKeyToFormEvent(msg tea.KeyMsg) (appstate.Event, bool) {
	switch msg.Type {
	case tea.KeyTab:
		return appstate.FormNextField{}, true
	case tea.KeyShiftTab:
		return appstate.FormPrevField{}, true
	case tea.KeyEnter:
		return appstate.SubmitForm{}, true
	case tea.KeyEsc:
		return appstate.CloseModal{}, true
	case tea.KeyBackspace:
		return appstate.FormBackspace{}, true
	case tea.KeySpace:
		return appstate.FormChar{Char: ' '}, true
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return appstate.FormChar{Char: msg.Runes[0]}, true
		}
	}
	return nil, false
}

// teaKeyToNormalEvent translates keys on the dashboard/split screens, where
// no modal owns input focus.
func (m *Model) teaKeyToNormalEvent(msg tea.KeyMsg) (appstate.Event, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return appstate.Quit{}, true
	case key.Matches(msg, m.keys.Help):
		return appstate.OpenHelp{}, true
	case key.Matches(msg, m.keys.Search):
		return appstate.OpenSearch{}, true
	case key.Matches(msg, m.keys.ToggleTerminalFocus):
		return appstate.ToggleTerminalFocus{}, true
	case key.Matches(msg, m.keys.Tab):
		return appstate.CyclePaneFocus{}, true
	case key.Matches(msg, m.keys.Up):
		return m.upOrGrabEvent(), true
	case key.Matches(msg, m.keys.Down):
		return m.downOrGrabEvent(), true
	case key.Matches(msg, m.keys.Left):
		return appstate.NavigateLeft{}, true
	case key.Matches(msg, m.keys.Right):
		return appstate.NavigateRight{}, true
	case key.Matches(msg, m.keys.EnterSplit):
		return appstate.EnterSplitMode{}, true
	case key.Matches(msg, m.keys.ExitSplit) && m.state.ScreenMode == appstate.ScreenSplit:
		return appstate.ExitSplitMode{}, true
	case key.Matches(msg, m.keys.EnterGrab) && m.state.ScreenMode == appstate.ScreenSplit:
		return m.toggleGrabEvent(), true
	case key.Matches(msg, m.keys.NewRepository):
		return appstate.OpenNewRepository{}, true
	case key.Matches(msg, m.keys.NewAgent):
		return m.openNewAgentEvent(), true
	case key.Matches(msg, m.keys.Edit):
		return m.openEditEvent(), true
	case key.Matches(msg, m.keys.Delete):
		return m.openDeleteEvent(), true
	case key.Matches(msg, m.keys.Kill):
		return m.openKillEvent(), true
	case key.Matches(msg, m.keys.Relaunch):
		return m.relaunchEvent(), true
	}
	return nil, false
}

// upOrGrabEvent routes Up to grab-mode reordering when grab mode is active,
// otherwise to plain navigation.
func (m *Model) upOrGrabEvent() appstate.Event {
	if m.state.HasSplitGrab {
		return appstate.GrabMoveUp{}
	}
	return appstate.NavigateUp{}
}

func (m *Model) downOrGrabEvent() appstate.Event {
	if m.state.HasSplitGrab {
		return appstate.GrabMoveDown{}
	}
	return appstate.NavigateDown{}
}

func (m *Model) toggleGrabEvent() appstate.Event {
	if m.state.HasSplitGrab {
		return appstate.ExitGrabMode{}
	}
	return appstate.EnterGrabMode{}
}

func (m *Model) openNewAgentEvent() appstate.Event {
	repo, ok := appstate.SelectedRepository(m.state)
	if !ok {
		return appstate.OpenHelp{}
	}
	return appstate.OpenNewAgent{RepositoryID: repo.ID}
}

func (m *Model) openEditEvent() appstate.Event {
	if m.state.PaneFocus == appstate.PaneAgents {
		if agent, ok := appstate.SelectedAgent(m.state); ok {
			return appstate.OpenEditAgent{ID: agent.ID}
		}
		return nil
	}
	if repo, ok := appstate.SelectedRepository(m.state); ok {
		return appstate.OpenEditRepository{ID: repo.ID}
	}
	return nil
}

func (m *Model) openDeleteEvent() appstate.Event {
	if m.state.PaneFocus == appstate.PaneAgents {
		if agent, ok := appstate.SelectedAgent(m.state); ok {
			return appstate.OpenDeleteAgent{ID: agent.ID}
		}
		return nil
	}
	if repo, ok := appstate.SelectedRepository(m.state); ok {
		return appstate.OpenDeleteRepository{ID: repo.ID}
	}
	return nil
}

func (m *Model) openKillEvent() appstate.Event {
	if agent, ok := appstate.SelectedAgent(m.state); ok {
		return appstate.OpenKillAgent{ID: agent.ID}
	}
	return nil
}

func (m *Model) relaunchEvent() appstate.Event {
	if agent, ok := appstate.SelectedAgent(m.state); ok {
		return appstate.RelaunchAgent{ID: agent.ID}
	}
	return nil
}

// toKeyInput converts a tea.KeyMsg into the framework-agnostic KeyInput
// shape appstate.RouteSearchKey expects.
func toKeyInput(msg tea.KeyMsg) appstate.KeyInput {
	switch msg.Type {
	case tea.KeyEsc:
		return appstate.KeyInput{Special: appstate.KeySpecialEsc}
	case tea.KeyEnter:
		return appstate.KeyInput{Special: appstate.KeySpecialEnter}
	case tea.KeyBackspace:
		return appstate.KeyInput{Special: appstate.KeySpecialBackspace}
	case tea.KeyUp:
		return appstate.KeyInput{Special: appstate.KeySpecialUp}
	case tea.KeyDown:
		return appstate.KeyInput{Special: appstate.KeySpecialDown}
	case tea.KeyLeft:
		return appstate.KeyInput{Special: appstate.KeySpecialLeft}
	case tea.KeyRight:
		return appstate.KeyInput{Special: appstate.KeySpecialRight}
	case tea.KeySpace:
		return appstate.KeyInput{Char: ' ', HasChar: true, Alt: msg.Alt}
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return appstate.KeyInput{Char: msg.Runes[0], HasChar: true, Alt: msg.Alt}
		}
	}
	return appstate.KeyInput{}
}

// teaKeyToViewerInput converts a tea.KeyMsg into the (rune, SpecialKey,
// KeyModifiers) triple viewer.EncodeKey expects, for forwarding keystrokes
// to the attached agent's PTY while the terminal pane has capture focus.
func teaKeyToViewerInput(msg tea.KeyMsg) (rune, viewer.SpecialKey, viewer.KeyModifiers) {
	mods := viewer.KeyModifiers{Alt: msg.Alt}

	switch msg.Type {
	case tea.KeyEnter:
		return 0, viewer.KeyEnter, mods
	case tea.KeyBackspace:
		return 0, viewer.KeyBackspace, mods
	case tea.KeyTab:
		return 0, viewer.KeyTab, mods
	case tea.KeyEsc:
		return 0, viewer.KeyEscape, mods
	case tea.KeyUp:
		return 0, viewer.KeyUp, mods
	case tea.KeyDown:
		return 0, viewer.KeyDown, mods
	case tea.KeyRight:
		return 0, viewer.KeyRight, mods
	case tea.KeyLeft:
		return 0, viewer.KeyLeft, mods
	case tea.KeyHome:
		return 0, viewer.KeyHome, mods
	case tea.KeyEnd:
		return 0, viewer.KeyEnd, mods
	case tea.KeyPgUp:
		return 0, viewer.KeyPageUp, mods
	case tea.KeyPgDown:
		return 0, viewer.KeyPageDown, mods
	case tea.KeyDelete:
		return 0, viewer.KeyDelete, mods
	case tea.KeySpace:
		return ' ', viewer.KeyNone, mods
	case tea.KeyRunes:
		if len(msg.Runes) == 1 {
			return msg.Runes[0], viewer.KeyNone, mods
		}
		return 0, viewer.KeyNone, mods
	}

	if n, ok := controlKeyRune(msg.Type); ok {
		mods.Control = true
		return n, viewer.KeyNone, mods
	}
	return 0, viewer.KeyNone, mods
}

// controlKeyRune maps bubbletea's dedicated Ctrl+letter KeyTypes back to the
// plain letter rune, so EncodeKey's single Control-handling branch can
// derive the low-5-bits control code uniformly.
func controlKeyRune(t tea.KeyType) (rune, bool) {
	switch t {
	case tea.KeyCtrlA:
		return 'a', true
	case tea.KeyCtrlB:
		return 'b', true
	case tea.KeyCtrlC:
		return 'c', true
	case tea.KeyCtrlD:
		return 'd', true
	case tea.KeyCtrlE:
		return 'e', true
	case tea.KeyCtrlK:
		return 'k', true
	case tea.KeyCtrlL:
		return 'l', true
	case tea.KeyCtrlU:
		return 'u', true
	case tea.KeyCtrlW:
		return 'w', true
	}
	return 0, false
}
