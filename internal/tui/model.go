// Package tui wires the pure appstate reducer, the runtime manager, and the
// persistence/theme layers into an interactive bubbletea program.
package tui

import (
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llxprt/jefe/internal/appstate"
	"github.com/llxprt/jefe/internal/config"
	"github.com/llxprt/jefe/internal/domain"
	"github.com/llxprt/jefe/internal/runtime"
	"github.com/llxprt/jefe/internal/style"
	"github.com/llxprt/jefe/internal/theme"
	"github.com/llxprt/jefe/internal/viewer"
)

// tickInterval drives the periodic re-render and agent liveness poll; the
// attached Viewer's reader goroutine produces no bubbletea message on its
// own, so nothing else pushes fresh frames into the program.
const tickInterval = 200 * time.Millisecond

// reservedChromeRows is the number of terminal rows consumed by the status
// bar and pane borders, subtracted from the window size before resizing the
// attached Viewer.
const reservedChromeRows = 4

// bannerLifetime is how long an error/warning banner stays on the status bar
// before it auto-clears: wall-clock time since the banner first appeared,
// checked on each tick.
const bannerLifetime = 4 * time.Second

type tickMsg struct{}

// Model is the top-level bubbletea model. mu protects every field View()
// reads; Update holds the write lock while mutating, View takes the read
// lock while rendering.
type Model struct {
	state   appstate.AppState
	manager *runtime.Manager
	store   *config.Store
	themes  *theme.Manager
	styles  style.Styles
	keys    KeyMap
	help    help.Model

	width, height int

	// windowed, when set from JEFE_WINDOWED=1, leaves a margin around the
	// frame instead of filling the terminal, so the real terminal chrome
	// stays visible around it for debugging.
	windowed bool

	// bannerSetAt is when the current error/warning banner first appeared;
	// zero while no banner is showing. Apply itself has no notion of time,
	// so the auto-clear deadline is tracked here instead.
	bannerSetAt time.Time

	mu sync.RWMutex
}

// New builds a Model from its collaborators, seeded from persisted state and
// settings. windowed leaves a margin around the rendered frame instead of
// filling the terminal (JEFE_WINDOWED=1), for debugging.
func New(store *config.Store, manager *runtime.Manager, themes *theme.Manager, windowed bool) *Model {
	settings := store.LoadSettings()
	themes.WithTheme(settings.Theme)

	saved := store.LoadState()
	st := appstate.New()
	st.Repositories = saved.Repositories
	st.Agents = saved.Agents
	if saved.SelectedRepositoryIndex != nil {
		st.SelectedRepositoryIndex = *saved.SelectedRepositoryIndex
		st.HasSelectedRepository = true
	}
	if saved.SelectedAgentIndex != nil {
		st.SelectedAgentIndex = *saved.SelectedAgentIndex
		st.HasSelectedAgent = true
	}

	return &Model{
		state:    st,
		manager:  manager,
		store:    store,
		themes:   themes,
		styles:   style.Build(theme.Resolve(themes.ActiveTheme().Colors)),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		width:    80,
		height:   24,
		windowed: windowed,
	}
}

// Init starts the tick loop.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update dispatches incoming bubbletea messages, translating raw tea.KeyMsg
// values into appstate.Event values (or raw terminal bytes, while the
// terminal pane has capture focus) and persisting state after every
// mutation.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		_ = m.manager.Resize(msg.Height-reservedChromeRows, msg.Width)
		return m, nil

	case tickMsg:
		if m.refreshAgentStatusesLocked() {
			m.saveLocked()
		}
		m.expireBannerLocked()
		return m, tick()

	case tea.KeyMsg:
		return m.handleKeyLocked(msg)
	}

	return m, nil
}

// handleKeyLocked routes a key event by the active InputMode. Caller must
// hold mu.
func (m *Model) handleKeyLocked(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := appstate.InputModeFor(m.state)

	if mode == appstate.InputTerminalCapture {
		if msg.Type == tea.KeyF12 {
			m.applyLocked(appstate.ToggleTerminalFocus{})
			return m, nil
		}
		return m, m.forwardKeyToViewerLocked(msg)
	}

	if mode == appstate.InputSearch {
		return m.handleSearchKeyLocked(msg)
	}

	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if ev, ok := m.teaKeyToEvent(msg, mode); ok {
		if _, isQuit := ev.(appstate.Quit); isQuit {
			return m, tea.Quit
		}
		m.applyLocked(ev)
	}
	return m, nil
}

// handleSearchKeyLocked routes a key while the search modal owns input
// focus, per appstate.RouteSearchKey; a reroute replays the key through the
// normal navigation path after closing the modal.
func (m *Model) handleSearchKeyLocked(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	route, ch := appstate.RouteSearchKey(toKeyInput(msg))
	switch route {
	case appstate.SearchEditQueryChar:
		m.applyLocked(appstate.FormChar{Char: ch})
	case appstate.SearchBackspace:
		m.applyLocked(appstate.FormBackspace{})
	case appstate.SearchCloseAndConsume:
		m.applyLocked(appstate.CloseModal{})
	case appstate.SearchCloseAndReroute:
		m.applyLocked(appstate.CloseModal{})
		if ev, ok := m.teaKeyToEvent(msg, appstate.InputNormal); ok {
			m.applyLocked(ev)
		}
	}
	return m, nil
}

// forwardKeyToViewerLocked encodes msg as a terminal input byte sequence and
// writes it to the attached Viewer.
func (m *Model) forwardKeyToViewerLocked(msg tea.KeyMsg) tea.Cmd {
	ch, special, mods := teaKeyToViewerInput(msg)
	b := viewer.EncodeKey(ch, special, mods)
	if len(b) == 0 {
		return nil
	}
	if err := m.manager.WriteInput(b); err != nil {
		m.applyLocked(appstate.PersistenceSaveFailed{Message: err.Error()})
	}
	return nil
}

// applyLocked runs ev through the pure reducer, performs the runtime side
// effects a handful of events require, and persists the resulting state.
// Some side effects (killing sessions belonging to a repository about to be
// deleted) need the modal/state as it stood BEFORE ev applies, since Apply
// itself already removed the affected domain objects by the time it
// returns. Caller must hold mu.
func (m *Model) applyLocked(ev appstate.Event) {
	prevModal := m.state.Modal
	agentsByRepo := m.state.Agents

	m.state = appstate.Apply(m.state, ev)
	m.runSideEffectsLocked(ev, prevModal, agentsByRepo)
	m.trackBannerLocked()
	m.saveLocked()
}

// trackBannerLocked stamps bannerSetAt the moment a banner first appears and
// clears the stamp once the banner itself is gone, so expireBannerLocked has
// a deadline to compare against.
func (m *Model) trackBannerLocked() {
	if !m.state.HasError && !m.state.HasWarning {
		m.bannerSetAt = time.Time{}
		return
	}
	if m.bannerSetAt.IsZero() {
		m.bannerSetAt = time.Now()
	}
}

// expireBannerLocked auto-clears a banner that has been showing longer than
// bannerLifetime, via the same ClearError/ClearWarning events a manual
// dismissal would use.
func (m *Model) expireBannerLocked() {
	if m.bannerSetAt.IsZero() || time.Since(m.bannerSetAt) < bannerLifetime {
		return
	}
	if m.state.HasError {
		m.state = appstate.Apply(m.state, appstate.ClearError{})
	}
	if m.state.HasWarning {
		m.state = appstate.Apply(m.state, appstate.ClearWarning{})
	}
	m.bannerSetAt = time.Time{}
}

// runSideEffectsLocked performs the Runtime Manager calls that accompany
// certain events; Apply itself only ever updates view/domain state, it
// never touches the runtime.
func (m *Model) runSideEffectsLocked(ev appstate.Event, prevModal appstate.Modal, prevAgents []domain.Agent) {
	switch e := ev.(type) {
	case appstate.SelectAgent:
		m.attachSelectedLocked()
	case appstate.KillAgent:
		if err := m.manager.Kill(e.ID); err != nil {
			m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
		}
	case appstate.RelaunchAgent:
		if err := m.manager.Relaunch(e.ID); err != nil {
			m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
		}
	case appstate.SubmitForm:
		m.runSubmitFormSideEffectsLocked(prevModal, prevAgents)
	case appstate.SetTheme:
		if err := m.themes.SetActive(e.Slug); err != nil {
			m.state = appstate.Apply(m.state, appstate.ThemeResolveFailed{Message: err.Error()})
		}
		m.styles = style.Build(theme.Resolve(m.themes.ActiveTheme().Colors))
	}
}

// runSubmitFormSideEffectsLocked dispatches the runtime action matching the
// modal that was open when SubmitForm fired: spawn a session for a freshly
// created agent, or kill every live session belonging to a repository (or
// single agent) that a confirm modal just deleted.
func (m *Model) runSubmitFormSideEffectsLocked(prevModal appstate.Modal, prevAgents []domain.Agent) {
	switch modal := prevModal.(type) {
	case appstate.ModalNewAgent:
		m.spawnIfNewAgentFormLocked()
	case appstate.ModalConfirmDeleteRepository:
		for _, a := range prevAgents {
			if a.RepositoryID == modal.ID {
				m.killQuietlyLocked(a.ID)
			}
		}
	case appstate.ModalConfirmDeleteAgent:
		m.killQuietlyLocked(modal.ID)
	}
}

// killQuietlyLocked tears down id's runtime session ahead of a domain-level
// delete; ErrSessionNotFound is expected whenever the agent was never
// spawned and is not surfaced as a warning.
func (m *Model) killQuietlyLocked(id domain.AgentId) {
	_ = m.manager.Kill(id)
}

// attachSelectedLocked attaches the runtime manager to the currently
// selected agent, spawning its backend session first if it is not live.
func (m *Model) attachSelectedLocked() {
	agent, ok := m.selectedAgentLocked()
	if !ok {
		return
	}
	if !m.manager.IsAlive(agent.ID) {
		if err := m.manager.SpawnSession(agent.ID, agent.Signature()); err != nil {
			m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
			return
		}
	}
	if err := m.manager.Attach(agent.ID); err != nil {
		m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
	}
}

// spawnIfNewAgentFormLocked spawns a backend session for an agent just
// created via the New Agent form; Apply has already appended the
// domain.Agent to state.Agents by the time this runs.
func (m *Model) spawnIfNewAgentFormLocked() {
	agent, ok := m.selectedAgentLocked()
	if !ok {
		return
	}
	if err := m.manager.SpawnSession(agent.ID, agent.Signature()); err != nil {
		m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
	}
}

func (m *Model) selectedAgentLocked() (domain.Agent, bool) {
	return appstate.SelectedAgent(m.state)
}

// refreshAgentStatusesLocked polls runtime liveness for every agent whose
// status claims to be running and folds any discrepancy back through Apply
// as an AgentStatusChanged event. Reports whether any status changed, so the
// caller only pays for a save when there is something new to persist.
func (m *Model) refreshAgentStatusesLocked() bool {
	changed := false
	for _, a := range m.state.Agents {
		if a.Status != domain.StatusRunning {
			continue
		}
		if !m.manager.IsAlive(a.ID) {
			m.state = appstate.Apply(m.state, appstate.AgentStatusChanged{ID: a.ID, Status: domain.StatusDead})
			changed = true
		}
	}
	return changed
}

// saveLocked persists the current AppState to the config Store, folding a
// failure back through Apply as a PersistenceSaveFailed event rather than
// propagating an error the caller has nowhere to show.
func (m *Model) saveLocked() {
	state := config.State{
		SchemaVersion:           config.StateSchemaVersion,
		Repositories:            m.state.Repositories,
		Agents:                  m.state.Agents,
		SelectedRepositoryIndex: optionalIndex(m.state.HasSelectedRepository, m.state.SelectedRepositoryIndex),
		SelectedAgentIndex:      optionalIndex(m.state.HasSelectedAgent, m.state.SelectedAgentIndex),
	}
	if err := m.store.SaveState(state); err != nil {
		m.state = appstate.Apply(m.state, appstate.PersistenceSaveFailed{Message: err.Error()})
	}
}

func optionalIndex(has bool, idx int) *int {
	if !has {
		return nil
	}
	v := idx
	return &v
}

// View renders the current frame under a read lock.
func (m *Model) View() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.render()
}

// snapshotLocked returns the attached Viewer's terminal snapshot, if any.
// Caller must hold mu (read or write).
func (m *Model) snapshotLocked() (viewer.TerminalSnapshot, bool) {
	return m.manager.Snapshot()
}
