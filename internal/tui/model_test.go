package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llxprt/jefe/internal/appstate"
	"github.com/llxprt/jefe/internal/config"
	"github.com/llxprt/jefe/internal/domain"
	"github.com/llxprt/jefe/internal/runtime"
	"github.com/llxprt/jefe/internal/session"
	"github.com/llxprt/jefe/internal/theme"
	"github.com/llxprt/jefe/internal/viewer"
)

// fakeGateway records calls instead of shelling out to a real multiplexer,
// mirroring internal/runtime's own test fake.
type fakeGateway struct {
	sessions  map[string]bool
	killOrder []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sessions: make(map[string]bool)}
}

func (g *fakeGateway) CreateSession(name, workDir string, sig domain.LaunchSignature) error {
	g.sessions[name] = true
	return nil
}

func (g *fakeGateway) KillSession(name string) error {
	g.killOrder = append(g.killOrder, name)
	delete(g.sessions, name)
	return nil
}

func (g *fakeGateway) SessionExists(name string) bool       { return g.sessions[name] }
func (g *fakeGateway) StyleSession(name, style string) error { return nil }

type fakeViewer struct {
	alive bool
}

func (v *fakeViewer) WriteInput(b []byte) error                   { return nil }
func (v *fakeViewer) Resize(rows, cols int) error                 { return nil }
func (v *fakeViewer) Snapshot() (viewer.TerminalSnapshot, bool)   { return viewer.TerminalSnapshot{}, v.alive }
func (v *fakeViewer) MouseReportingActive() bool                  { return false }
func (v *fakeViewer) BracketedPasteActive() bool                  { return false }
func (v *fakeViewer) IsAlive() bool                               { return v.alive }
func (v *fakeViewer) MarkDead()                                   { v.alive = false }
func (v *fakeViewer) Close()                                      {}

func fakeFactory() runtime.ViewerFactory {
	return func(sessionName string, rows, cols int) (runtime.Viewer, error) {
		return &fakeViewer{alive: true}, nil
	}
}

func newTestModel(t *testing.T) *Model {
	m, _ := newTestModelWithGateway(t)
	return m
}

func newTestModelWithGateway(t *testing.T) (*Model, *fakeGateway) {
	t.Helper()
	dir := t.TempDir()
	store := config.NewStoreWithPaths(config.Paths{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		StatePath:    filepath.Join(dir, "state.json"),
	})
	gw := newFakeGateway()
	manager := runtime.New(gw, fakeFactory())
	m := New(store, manager, theme.NewManager(), false)
	m.width, m.height = 120, 40
	return m, gw
}

func withRepoAndAgent(m *Model) (domain.RepositoryId, domain.AgentId) {
	m.applyLocked(appstate.OpenNewRepository{})
	m.applyLocked(appstate.FormChar{Char: 'r'})
	m.applyLocked(appstate.FormChar{Char: '1'})
	m.applyLocked(appstate.SubmitForm{})
	repo := m.state.Repositories[0]

	m.applyLocked(appstate.OpenNewAgent{RepositoryID: repo.ID})
	m.applyLocked(appstate.FormChar{Char: 'a'})
	m.applyLocked(appstate.FormChar{Char: '1'})
	m.applyLocked(appstate.SubmitForm{})
	agent := m.state.Agents[0]
	return repo.ID, agent.ID
}

func TestDeleteRepositoryKillsItsAgentSessions(t *testing.T) {
	m, gw := newTestModelWithGateway(t)
	repoID, agentID := withRepoAndAgent(m)

	sessionName := session.SessionNameFor(agentID)
	if !gw.sessions[sessionName] {
		t.Fatalf("expected %s spawned when the agent was created", sessionName)
	}

	m.applyLocked(appstate.OpenDeleteRepository{ID: repoID})
	m.applyLocked(appstate.SubmitForm{})

	foundKill := false
	for _, name := range gw.killOrder {
		if name == sessionName {
			foundKill = true
		}
	}
	if !foundKill {
		t.Fatalf("expected %s killed when the repository was deleted, killOrder=%v", sessionName, gw.killOrder)
	}
	if len(m.state.Repositories) != 0 {
		t.Fatalf("expected repository removed, got %d", len(m.state.Repositories))
	}
	if len(m.state.Agents) != 0 {
		t.Fatalf("expected agent removed, got %d", len(m.state.Agents))
	}
}

func TestKillConfirmDistinctFromDeleteConfirm(t *testing.T) {
	m := newTestModel(t)
	_, agentID := withRepoAndAgent(m)

	m.applyLocked(appstate.OpenKillAgent{ID: agentID})
	if _, ok := m.state.Modal.(appstate.ModalConfirmKillAgent); !ok {
		t.Fatalf("expected ModalConfirmKillAgent, got %T", m.state.Modal)
	}

	msg := tea.KeyMsg{Type: tea.KeyEnter}
	ev, ok := m.teaKeyToConfirmEvent(msg)
	if !ok {
		t.Fatal("expected an event for Enter on kill confirm")
	}
	if _, ok := ev.(appstate.KillAgent); !ok {
		t.Fatalf("expected KillAgent event, got %T", ev)
	}

	// An agent still present in state.Agents after a kill confirms the
	// distinction from delete: killing a session never removes the domain
	// record, only the running process.
	m.applyLocked(ev)
	found := false
	for _, a := range m.state.Agents {
		if a.ID == agentID {
			found = true
		}
	}
	if !found {
		t.Fatal("KillAgent must not remove the agent from state")
	}
}

func TestDeleteAgentConfirmRoutesThroughSubmitForm(t *testing.T) {
	m := newTestModel(t)
	_, agentID := withRepoAndAgent(m)

	m.applyLocked(appstate.OpenDeleteAgent{ID: agentID})
	msg := tea.KeyMsg{Type: tea.KeyEnter}
	ev, ok := m.teaKeyToConfirmEvent(msg)
	if !ok {
		t.Fatal("expected an event for Enter on delete confirm")
	}
	if _, ok := ev.(appstate.SubmitForm); !ok {
		t.Fatalf("expected SubmitForm event, got %T", ev)
	}

	m.applyLocked(ev)
	for _, a := range m.state.Agents {
		if a.ID == agentID {
			t.Fatal("expected agent removed after delete confirm SubmitForm")
		}
	}
}

func TestSearchModeReroutesNavigationKeys(t *testing.T) {
	m := newTestModel(t)
	withRepoAndAgent(m)

	m.applyLocked(appstate.OpenSearch{})
	if appstate.InputModeFor(m.state) != appstate.InputSearch {
		t.Fatal("expected search input mode after OpenSearch")
	}

	m.handleSearchKeyLocked(tea.KeyMsg{Type: tea.KeyDown})

	if appstate.InputModeFor(m.state) != appstate.InputNormal {
		t.Fatalf("expected search modal closed and rerouted, mode=%v", appstate.InputModeFor(m.state))
	}
}

func TestSearchModeAppendsQueryChar(t *testing.T) {
	m := newTestModel(t)

	m.applyLocked(appstate.OpenSearch{})
	m.handleSearchKeyLocked(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	modal, ok := m.state.Modal.(appstate.ModalSearch)
	if !ok {
		t.Fatalf("expected ModalSearch still open, got %T", m.state.Modal)
	}
	if modal.Query != "x" {
		t.Fatalf("expected query %q, got %q", "x", modal.Query)
	}
}

func TestTerminalCaptureModeForwardsKeysToViewer(t *testing.T) {
	m := newTestModel(t)
	_, agentID := withRepoAndAgent(m)

	m.applyLocked(appstate.SelectAgent{Index: 0})
	m.applyLocked(appstate.CyclePaneFocus{})
	m.applyLocked(appstate.CyclePaneFocus{})
	m.applyLocked(appstate.ToggleTerminalFocus{})

	if appstate.InputModeFor(m.state) != appstate.InputTerminalCapture {
		t.Fatalf("expected terminal capture mode, got %v", appstate.InputModeFor(m.state))
	}

	_, cmd := m.handleKeyLocked(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd != nil {
		t.Fatal("forwarding a key to the viewer should not itself produce a tea.Cmd")
	}

	_, cmd = m.handleKeyLocked(tea.KeyMsg{Type: tea.KeyF12})
	if appstate.InputModeFor(m.state) == appstate.InputTerminalCapture {
		t.Fatal("F12 must exit terminal capture mode even while forwarding")
	}
}

func TestSearchFiltersRepositoriesBySubstring(t *testing.T) {
	m := newTestModel(t)
	m.applyLocked(appstate.OpenNewRepository{})
	for _, c := range "alpha" {
		m.applyLocked(appstate.FormChar{Char: c})
	}
	m.applyLocked(appstate.SubmitForm{})
	m.applyLocked(appstate.OpenNewRepository{})
	for _, c := range "beta" {
		m.applyLocked(appstate.FormChar{Char: c})
	}
	m.applyLocked(appstate.SubmitForm{})

	m.applyLocked(appstate.OpenSearch{})
	for _, c := range "AL" {
		m.applyLocked(appstate.FormChar{Char: c})
	}

	out := m.renderRepositoriesPane()
	if !strings.Contains(out, "alpha") {
		t.Fatalf("expected alpha to survive a case-insensitive substring match, got %q", out)
	}
	if strings.Contains(out, "beta") {
		t.Fatalf("expected beta to be filtered out by query %q, got %q", "AL", out)
	}
}

func TestSearchShowsNoMatchesWhenQueryExcludesEverything(t *testing.T) {
	m := newTestModel(t)
	withRepoAndAgent(m)

	m.applyLocked(appstate.OpenSearch{})
	for _, c := range "zzz" {
		m.applyLocked(appstate.FormChar{Char: c})
	}

	out := m.renderRepositoriesPane()
	if !strings.Contains(out, "no matches") {
		t.Fatalf("expected a no-matches placeholder, got %q", out)
	}
}

func TestKeyRoutingByInputMode(t *testing.T) {
	m := newTestModel(t)

	if ev, ok := m.teaKeyToEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}}, appstate.InputNormal); !ok {
		t.Fatal("expected R to route to a normal-mode event")
	} else if _, ok := ev.(appstate.OpenNewRepository); !ok {
		t.Fatalf("expected OpenNewRepository, got %T", ev)
	}

	if _, ok := m.teaKeyToEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'R'}}, appstate.InputHelp); ok {
		t.Fatal("R should have no meaning while the help modal owns input")
	}

	if ev, ok := m.teaKeyToEvent(tea.KeyMsg{Type: tea.KeyEsc}, appstate.InputHelp); !ok {
		t.Fatal("expected Esc to close the help modal")
	} else if _, ok := ev.(appstate.CloseModal); !ok {
		t.Fatalf("expected CloseModal, got %T", ev)
	}
}
