package appstate

import (
	"testing"

	"github.com/llxprt/jefe/internal/domain"
)

func twoRepoState() AppState {
	s := New()
	s.Repositories = []domain.Repository{
		{ID: "r1", Name: "Repo One"},
		{ID: "r2", Name: "Repo Two"},
	}
	s.Agents = []domain.Agent{
		{ID: "a1", RepositoryID: "r1", Name: "Agent One"},
		{ID: "a2", RepositoryID: "r1", Name: "Agent Two"},
		{ID: "a3", RepositoryID: "r2", Name: "Agent Three"},
	}
	s = Apply(s, SelectRepository{Index: 0})
	return s
}

func TestDefaultStateHasNoSelection(t *testing.T) {
	s := New()
	if s.HasSelectedRepository || s.HasSelectedAgent {
		t.Fatalf("expected no selection in default state")
	}
	if s.ScreenMode != ScreenDashboard {
		t.Fatalf("expected Dashboard screen by default")
	}
}

func TestNavigateDownMovesRepositorySelection(t *testing.T) {
	s := twoRepoState()
	s = Apply(s, NavigateDown{})
	if !s.HasSelectedRepository || s.SelectedRepositoryIndex != 1 {
		t.Fatalf("expected repository index 1, got %d (has=%v)", s.SelectedRepositoryIndex, s.HasSelectedRepository)
	}
}

func TestNavigateDownClampsAtEnd(t *testing.T) {
	s := twoRepoState()
	s = Apply(s, NavigateDown{})
	s = Apply(s, NavigateDown{})
	if s.SelectedRepositoryIndex != 1 {
		t.Fatalf("expected clamp at last index, got %d", s.SelectedRepositoryIndex)
	}
}

func TestAgentSelectionScopedToRepository(t *testing.T) {
	s := twoRepoState()
	s.PaneFocus = PaneAgents
	s = Apply(s, NavigateDown{})
	agent, ok := SelectedAgent(s)
	if !ok || agent.ID != "a2" {
		t.Fatalf("expected a2 selected within r1, got %+v ok=%v", agent, ok)
	}

	// Switching repository must re-scope the agent selection.
	s = Apply(s, SelectRepository{Index: 1})
	agent, ok = SelectedAgent(s)
	if !ok || agent.ID != "a3" {
		t.Fatalf("expected a3 selected after switching to r2, got %+v ok=%v", agent, ok)
	}
}

func TestTerminalFocusGateDropsNavigation(t *testing.T) {
	s := twoRepoState()
	s.TerminalFocused = true
	before := s.SelectedRepositoryIndex
	s = Apply(s, NavigateDown{})
	if s.SelectedRepositoryIndex != before {
		t.Fatalf("expected navigation to be dropped while terminal focused")
	}
}

func TestTerminalFocusGateAllowsCyclePaneFocus(t *testing.T) {
	s := twoRepoState()
	s.TerminalFocused = true
	s.PaneFocus = PaneRepositories
	s = Apply(s, CyclePaneFocus{})
	if s.PaneFocus != PaneAgents {
		t.Fatalf("expected CyclePaneFocus to still apply while terminal focused")
	}
}

func TestKillAgentMarksDeadWithoutRemoving(t *testing.T) {
	s := twoRepoState()
	s = Apply(s, KillAgent{ID: "a1"})
	found := false
	for _, a := range s.Agents {
		if a.ID == "a1" {
			found = true
			if a.Status != domain.StatusDead {
				t.Fatalf("expected a1 status Dead, got %s", a.Status)
			}
		}
	}
	if !found {
		t.Fatalf("expected a1 to remain in Agents after kill")
	}
}

func TestOpenNewAgentDerivesDefaultsFromRepository(t *testing.T) {
	s := New()
	s.Repositories = []domain.Repository{{ID: "r1", BaseDir: "/work/r1", DefaultProfile: "prof"}}
	s = Apply(s, OpenNewAgent{RepositoryID: "r1"})
	m, ok := s.Modal.(ModalNewAgent)
	if !ok {
		t.Fatalf("expected ModalNewAgent, got %T", s.Modal)
	}
	if m.Fields.WorkDir != "/work/r1" || m.Fields.Profile != "prof" || m.Fields.Mode != "--yolo" || !m.Fields.PassContinue {
		t.Fatalf("unexpected default fields: %+v", m.Fields)
	}
}

func TestAgentWorkDirAutoDerivesFromNameUntilManuallyEdited(t *testing.T) {
	s := New()
	s.Repositories = []domain.Repository{{ID: "r1", BaseDir: "/work/r1"}}
	s = Apply(s, OpenNewAgent{RepositoryID: "r1"})
	s = Apply(s, FormChar{Char: 'f'})
	s = Apply(s, FormChar{Char: 'o'})
	s = Apply(s, FormChar{Char: 'o'})

	m := s.Modal.(ModalNewAgent)
	if m.Fields.WorkDir != "/work/r1/foo" {
		t.Fatalf("expected auto-derived work dir, got %q", m.Fields.WorkDir)
	}

	// Switch focus to WorkDir and edit manually; further name edits must
	// stop overwriting it.
	s = Apply(s, FormNextField{})
	s = Apply(s, FormNextField{})
	m = s.Modal.(ModalNewAgent)
	if m.Focus != AgentFocusWorkDir {
		t.Fatalf("expected focus on WorkDir, got %v", m.Focus)
	}
	s = Apply(s, FormChar{Char: '2'})
	m = s.Modal.(ModalNewAgent)
	if !m.WorkDirManual {
		t.Fatalf("expected work_dir_manual to be set after direct edit")
	}
	if m.Fields.WorkDir != "/work/r1/foo2" {
		t.Fatalf("expected manual edit appended, got %q", m.Fields.WorkDir)
	}
}

func TestSubmitNewRepositoryRequiresName(t *testing.T) {
	s := New()
	s = Apply(s, OpenNewRepository{})
	s = Apply(s, SubmitForm{})
	if _, ok := s.Modal.(ModalNewRepository); !ok {
		t.Fatalf("expected modal to remain open on empty name, got %T", s.Modal)
	}
}

func TestSubmitNewRepositoryCreatesSlugAndSelects(t *testing.T) {
	s := New()
	s = Apply(s, OpenNewRepository{})
	for _, c := range "My Repo" {
		s = Apply(s, FormChar{Char: c})
	}
	s = Apply(s, SubmitForm{})

	if _, ok := s.Modal.(ModalNone); !ok {
		t.Fatalf("expected modal closed after submit, got %T", s.Modal)
	}
	if len(s.Repositories) != 1 {
		t.Fatalf("expected one repository, got %d", len(s.Repositories))
	}
	if s.Repositories[0].Slug != "my-repo" {
		t.Fatalf("expected slug my-repo, got %q", s.Repositories[0].Slug)
	}
	if !s.HasSelectedRepository || s.SelectedRepositoryIndex != 0 {
		t.Fatalf("expected new repository selected")
	}
}

func TestGrabModeReordersRepositories(t *testing.T) {
	s := twoRepoState()
	s = Apply(s, EnterGrabMode{})
	s = Apply(s, SelectRepository{Index: 1})
	s = Apply(s, EnterGrabMode{})
	s = Apply(s, GrabMoveUp{})

	if s.Repositories[0].ID != "r2" || s.Repositories[1].ID != "r1" {
		t.Fatalf("expected swap, got %v", s.Repositories)
	}
	if s.SelectedRepositoryIndex != 0 {
		t.Fatalf("expected selection to follow the moved repository")
	}
}

func TestRouteSearchKeyPlainCharEditsQuery(t *testing.T) {
	route, c := RouteSearchKey(KeyInput{Char: 'x', HasChar: true})
	if route != SearchEditQueryChar || c != 'x' {
		t.Fatalf("expected EditQueryChar 'x', got %v %q", route, c)
	}
}

func TestRouteSearchKeyEscCloses(t *testing.T) {
	route, _ := RouteSearchKey(KeyInput{Special: KeySpecialEsc})
	if route != SearchCloseAndConsume {
		t.Fatalf("expected CloseAndConsume, got %v", route)
	}
}

func TestRouteSearchKeyArrowReroutes(t *testing.T) {
	route, _ := RouteSearchKey(KeyInput{Special: KeySpecialUp})
	if route != SearchCloseAndReroute {
		t.Fatalf("expected CloseAndReroute, got %v", route)
	}
}

func TestInputModeForStateReflectsModalAndFocus(t *testing.T) {
	s := New()
	if InputModeFor(s) != InputNormal {
		t.Fatalf("expected Normal for default state")
	}
	s.Modal = ModalHelp{}
	if InputModeFor(s) != InputHelp {
		t.Fatalf("expected Help")
	}
	s.Modal = ModalNone{}
	s.TerminalFocused = true
	s.PaneFocus = PaneTerminal
	if InputModeFor(s) != InputTerminalCapture {
		t.Fatalf("expected TerminalCapture")
	}
}
