package appstate

import (
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/llxprt/jefe/internal/domain"
	"github.com/llxprt/jefe/internal/util"
)

// Apply produces the next AppState for an incoming event. It is a pure
// function: state in, state out, no side effects beyond generating a random
// id for a newly created entity and touching the filesystem to create a new
// agent or repository's working directory (mkdir -p, matching a
// freshly-created entity needing a directory to exist before the backend
// session starts), and removing an agent's working directory when a delete
// asks for it.
//
// When the terminal pane holds keyboard focus, navigation/selection events
// are dropped untouched (they are meant for the attached PTY, not the UI);
// CyclePaneFocus and every other event still apply.
func Apply(state AppState, ev Event) AppState {
	if state.TerminalFocused && isNavigationEvent(ev) {
		return state
	}

	switch e := ev.(type) {
	case NavigateUp:
		state = handleNavigateUp(state)
	case NavigateDown:
		state = handleNavigateDown(state)
	case NavigateRight, CyclePaneFocus:
		state.PaneFocus = nextPane(state.PaneFocus)
	case NavigateLeft:
		state.PaneFocus = prevPane(state.PaneFocus)
	case SelectRepository:
		if e.Index >= 0 && e.Index < len(state.Repositories) {
			state.SelectedRepositoryIndex = e.Index
			state.HasSelectedRepository = true
		}
	case SelectAgent:
		if repoID, ok := selectedRepositoryID(state); ok {
			visible := agentIndicesForRepository(state, repoID)
			if e.Index >= 0 && e.Index < len(visible) {
				state.SelectedAgentIndex = visible[e.Index]
				state.HasSelectedAgent = true
			}
		}
	case ToggleTerminalFocus:
		state.TerminalFocused = !state.TerminalFocused
	case EnterSplitMode:
		state.ScreenMode = ScreenSplit
	case ExitSplitMode:
		state.ScreenMode = ScreenDashboard
		state.HasSplitFilter = false
		state.HasSplitGrab = false
	case EnterGrabMode:
		if state.HasSelectedRepository {
			state.SplitGrabIndex = state.SelectedRepositoryIndex
			state.HasSplitGrab = true
		}
	case ExitGrabMode:
		state.HasSplitGrab = false
	case GrabMoveUp:
		state = grabMoveUp(state)
	case GrabMoveDown:
		state = grabMoveDown(state)
	case SetSplitFilter:
		state.HasSplitFilter = !e.Clear
		state.SplitFilter = e.RepositoryID
	case OpenHelp:
		state.Modal = ModalHelp{}
	case OpenSearch:
		state.Modal = ModalSearch{}
	case CloseModal:
		state.Modal = ModalNone{}
	case SubmitForm:
		state = handleSubmitForm(state)
	case FormChar:
		state = handleFormChar(state, e.Char)
	case FormBackspace:
		state = handleFormBackspace(state)
	case FormNextField:
		state = handleFormNextField(state)
	case FormPrevField:
		state = handleFormPrevField(state)
	case FormToggleCheckbox:
		state = handleFormToggleCheckbox(state)
	case OpenNewRepository:
		state.Modal = ModalNewRepository{}
	case OpenEditRepository:
		state.Modal = openEditRepository(state, e.ID)
	case OpenDeleteRepository:
		state.Modal = ModalConfirmDeleteRepository{ID: e.ID}
	case OpenNewAgent:
		state.Modal = openNewAgent(state, e.RepositoryID)
	case OpenEditAgent:
		state.Modal = openEditAgent(state, e.ID)
	case OpenDeleteAgent:
		state.Modal = ModalConfirmDeleteAgent{ID: e.ID}
	case OpenKillAgent:
		state.Modal = ModalConfirmKillAgent{ID: e.ID}
	case ToggleDeleteWorkDir:
		if m, ok := state.Modal.(ModalConfirmDeleteAgent); ok {
			m.DeleteWorkDir = !m.DeleteWorkDir
			state.Modal = m
		}
	case KillAgent:
		setAgentStatus(state, e.ID, domain.StatusDead)
	case AgentStatusChanged:
		setAgentStatus(state, e.ID, e.Status)
	case PersistenceLoadSuccess, ClearError:
		state.HasError = false
	case PersistenceLoadFailed:
		state.HasError = true
		state.ErrorMessage = e.Message
	case PersistenceSaveFailed:
		state.HasError = true
		state.ErrorMessage = e.Message
	case ThemeResolveFailed:
		state.HasWarning = true
		state.WarningMessage = e.Message
	case ClearWarning:
		state.HasWarning = false
	// No-op: handled by the caller (runtime manager / persistence layer /
	// theme resolver), not by the pure reducer.
	case RelaunchAgent, PersistenceSaveSuccess, SetTheme, Quit:
	}

	rebuildRepositoryAgentIDs(&state)
	normalizeSelectionIndices(&state)
	return state
}

func nextPane(p PaneFocus) PaneFocus {
	switch p {
	case PaneRepositories:
		return PaneAgents
	case PaneAgents:
		return PaneTerminal
	default:
		return PaneRepositories
	}
}

func prevPane(p PaneFocus) PaneFocus {
	switch p {
	case PaneRepositories:
		return PaneTerminal
	case PaneAgents:
		return PaneRepositories
	default:
		return PaneAgents
	}
}

func selectedRepositoryID(state AppState) (domain.RepositoryId, bool) {
	if !state.HasSelectedRepository || state.SelectedRepositoryIndex >= len(state.Repositories) {
		return "", false
	}
	return state.Repositories[state.SelectedRepositoryIndex].ID, true
}

func agentIndicesForRepository(state AppState, repoID domain.RepositoryId) []int {
	var out []int
	for i, a := range state.Agents {
		if a.RepositoryID == repoID {
			out = append(out, i)
		}
	}
	return out
}

// rebuildRepositoryAgentIDs recomputes every repository's AgentIDs cache
// from the authoritative Agents slice. Must run after every mutation.
func rebuildRepositoryAgentIDs(state *AppState) {
	for i := range state.Repositories {
		state.Repositories[i].AgentIDs = nil
	}
	for _, a := range state.Agents {
		for i := range state.Repositories {
			if state.Repositories[i].ID == a.RepositoryID {
				state.Repositories[i].AgentIDs = append(state.Repositories[i].AgentIDs, a.ID)
				break
			}
		}
	}
}

// normalizeSelectionIndices clamps/repairs selection after any mutation:
// a missing repository selection becomes the first repository whenever any
// exist; an out-of-range repository index is clamped to the last
// repository; the agent selection is reset to the first visible agent in the selected
// repository when the previous selection no longer belongs to it.
func normalizeSelectionIndices(state *AppState) {
	if len(state.Repositories) == 0 {
		state.HasSelectedRepository = false
		state.HasSelectedAgent = false
		return
	}

	if !state.HasSelectedRepository {
		state.SelectedRepositoryIndex = 0
		state.HasSelectedRepository = true
	}
	if state.SelectedRepositoryIndex >= len(state.Repositories) {
		state.SelectedRepositoryIndex = len(state.Repositories) - 1
	}

	repoID, ok := selectedRepositoryID(*state)
	if !ok {
		state.HasSelectedAgent = false
		return
	}

	visible := agentIndicesForRepository(*state, repoID)
	if len(visible) == 0 {
		state.HasSelectedAgent = false
		return
	}

	if state.HasSelectedAgent {
		for _, idx := range visible {
			if idx == state.SelectedAgentIndex {
				return
			}
		}
	}
	state.SelectedAgentIndex = visible[0]
	state.HasSelectedAgent = true
}

func handleNavigateUp(state AppState) AppState {
	switch state.PaneFocus {
	case PaneRepositories:
		if state.HasSelectedRepository && state.SelectedRepositoryIndex > 0 {
			state.SelectedRepositoryIndex--
		}
	case PaneAgents:
		repoID, ok := selectedRepositoryID(state)
		if !ok {
			state.HasSelectedAgent = false
			return state
		}
		visible := agentIndicesForRepository(state, repoID)
		if len(visible) == 0 {
			state.HasSelectedAgent = false
			return state
		}
		local := localIndexOf(visible, state)
		switch {
		case local > 0:
			state.SelectedAgentIndex = visible[local-1]
		case local < 0:
			state.SelectedAgentIndex = visible[0]
			state.HasSelectedAgent = true
		}
	}
	return state
}

func handleNavigateDown(state AppState) AppState {
	switch state.PaneFocus {
	case PaneRepositories:
		if state.HasSelectedRepository {
			max := len(state.Repositories) - 1
			if state.SelectedRepositoryIndex < max {
				state.SelectedRepositoryIndex++
			}
		}
	case PaneAgents:
		repoID, ok := selectedRepositoryID(state)
		if !ok {
			state.HasSelectedAgent = false
			return state
		}
		visible := agentIndicesForRepository(state, repoID)
		if len(visible) == 0 {
			state.HasSelectedAgent = false
			return state
		}
		local := localIndexOf(visible, state)
		switch {
		case local >= 0 && local+1 < len(visible):
			state.SelectedAgentIndex = visible[local+1]
		case local < 0:
			state.SelectedAgentIndex = visible[0]
			state.HasSelectedAgent = true
		}
	}
	return state
}

func localIndexOf(visible []int, state AppState) int {
	if !state.HasSelectedAgent {
		return -1
	}
	for i, idx := range visible {
		if idx == state.SelectedAgentIndex {
			return i
		}
	}
	return -1
}

func grabMoveUp(state AppState) AppState {
	if state.HasSplitGrab && state.SplitGrabIndex > 0 && state.SplitGrabIndex < len(state.Repositories) {
		i := state.SplitGrabIndex
		state.Repositories[i], state.Repositories[i-1] = state.Repositories[i-1], state.Repositories[i]
		state.SplitGrabIndex = i - 1
		state.SelectedRepositoryIndex = i - 1
		state.HasSelectedRepository = true
	}
	return state
}

func grabMoveDown(state AppState) AppState {
	if state.HasSplitGrab && state.SplitGrabIndex+1 < len(state.Repositories) {
		i := state.SplitGrabIndex
		state.Repositories[i], state.Repositories[i+1] = state.Repositories[i+1], state.Repositories[i]
		state.SplitGrabIndex = i + 1
		state.SelectedRepositoryIndex = i + 1
		state.HasSelectedRepository = true
	}
	return state
}

func setAgentStatus(state AppState, id domain.AgentId, status domain.AgentStatus) {
	for i := range state.Agents {
		if state.Agents[i].ID == id {
			state.Agents[i].Status = status
			return
		}
	}
}

func openEditRepository(state AppState, id domain.RepositoryId) Modal {
	for _, r := range state.Repositories {
		if r.ID == id {
			return ModalEditRepository{
				ID: id,
				Fields: RepositoryFormFields{
					Name:           r.Name,
					BaseDir:        r.BaseDir,
					DefaultProfile: r.DefaultProfile,
				},
			}
		}
	}
	return ModalEditRepository{ID: id}
}

func openNewAgent(state AppState, repoID domain.RepositoryId) Modal {
	baseDir, profile := "", ""
	for _, r := range state.Repositories {
		if r.ID == repoID {
			baseDir, profile = r.BaseDir, r.DefaultProfile
			break
		}
	}
	return ModalNewAgent{
		RepositoryID: repoID,
		Fields: AgentFormFields{
			WorkDir:      baseDir,
			Profile:      profile,
			Mode:         "--yolo",
			PassContinue: true,
		},
	}
}

func openEditAgent(state AppState, id domain.AgentId) Modal {
	for _, a := range state.Agents {
		if a.ID == id {
			return ModalEditAgent{
				ID: id,
				Fields: AgentFormFields{
					Name:         a.Name,
					Description:  a.Description,
					WorkDir:      a.WorkDir,
					Profile:      a.Profile,
					Mode:         strings.Join(a.ModeFlags, " "),
					PassContinue: a.PassContinue,
				},
			}
		}
	}
	return ModalEditAgent{ID: id}
}

func handleFormChar(state AppState, c rune) AppState {
	switch m := state.Modal.(type) {
	case ModalSearch:
		m.Query += string(c)
		state.Modal = m
	case ModalNewRepository:
		setRepositoryField(&m.Fields, m.Focus, appendRune(repositoryFieldValue(m.Fields, m.Focus), c))
		state.Modal = m
	case ModalEditRepository:
		setRepositoryField(&m.Fields, m.Focus, appendRune(repositoryFieldValue(m.Fields, m.Focus), c))
		state.Modal = m
	case ModalNewAgent:
		switch m.Focus {
		case AgentFocusName:
			m.Fields.Name += string(c)
			if !m.WorkDirManual {
				m.Fields.WorkDir = deriveAgentWorkDir(state, m.RepositoryID, m.Fields.Name)
			}
		case AgentFocusWorkDir:
			m.Fields.WorkDir += string(c)
			m.WorkDirManual = true
		case AgentFocusPassContinue:
			if c == ' ' || c == 'x' || c == 'X' {
				m.Fields.PassContinue = !m.Fields.PassContinue
			}
		default:
			setAgentField(&m.Fields, m.Focus, appendRune(agentFieldValue(m.Fields, m.Focus), c))
		}
		state.Modal = m
	case ModalEditAgent:
		if m.Focus == AgentFocusPassContinue {
			if c == ' ' || c == 'x' || c == 'X' {
				m.Fields.PassContinue = !m.Fields.PassContinue
			}
		} else {
			setAgentField(&m.Fields, m.Focus, appendRune(agentFieldValue(m.Fields, m.Focus), c))
		}
		state.Modal = m
	}
	return state
}

func appendRune(s string, c rune) string { return s + string(c) }

func popLast(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	return string(r[:len(r)-1])
}

func handleFormBackspace(state AppState) AppState {
	switch m := state.Modal.(type) {
	case ModalSearch:
		m.Query = popLast(m.Query)
		state.Modal = m
	case ModalNewRepository:
		setRepositoryField(&m.Fields, m.Focus, popLast(repositoryFieldValue(m.Fields, m.Focus)))
		state.Modal = m
	case ModalEditRepository:
		setRepositoryField(&m.Fields, m.Focus, popLast(repositoryFieldValue(m.Fields, m.Focus)))
		state.Modal = m
	case ModalNewAgent:
		setAgentField(&m.Fields, m.Focus, popLast(agentFieldValue(m.Fields, m.Focus)))
		if m.Focus == AgentFocusWorkDir {
			m.WorkDirManual = true
		} else if m.Focus == AgentFocusName && !m.WorkDirManual {
			m.Fields.WorkDir = deriveAgentWorkDir(state, m.RepositoryID, m.Fields.Name)
		}
		state.Modal = m
	case ModalEditAgent:
		setAgentField(&m.Fields, m.Focus, popLast(agentFieldValue(m.Fields, m.Focus)))
		state.Modal = m
	}
	return state
}

func handleFormNextField(state AppState) AppState {
	switch m := state.Modal.(type) {
	case ModalNewRepository:
		m.Focus = m.Focus.Next()
		state.Modal = m
	case ModalEditRepository:
		m.Focus = m.Focus.Next()
		state.Modal = m
	case ModalNewAgent:
		m.Focus = m.Focus.Next()
		state.Modal = m
	case ModalEditAgent:
		m.Focus = m.Focus.Next()
		state.Modal = m
	}
	return state
}

func handleFormPrevField(state AppState) AppState {
	switch m := state.Modal.(type) {
	case ModalNewRepository:
		m.Focus = m.Focus.Prev()
		state.Modal = m
	case ModalEditRepository:
		m.Focus = m.Focus.Prev()
		state.Modal = m
	case ModalNewAgent:
		m.Focus = m.Focus.Prev()
		state.Modal = m
	case ModalEditAgent:
		m.Focus = m.Focus.Prev()
		state.Modal = m
	}
	return state
}

func handleFormToggleCheckbox(state AppState) AppState {
	switch m := state.Modal.(type) {
	case ModalNewAgent:
		if m.Focus == AgentFocusPassContinue {
			m.Fields.PassContinue = !m.Fields.PassContinue
			state.Modal = m
		}
	case ModalEditAgent:
		if m.Focus == AgentFocusPassContinue {
			m.Fields.PassContinue = !m.Fields.PassContinue
			state.Modal = m
		}
	case ModalConfirmDeleteAgent:
		m.DeleteWorkDir = !m.DeleteWorkDir
		state.Modal = m
	}
	return state
}

func repositoryFieldValue(f RepositoryFormFields, focus RepositoryFormFocus) string {
	switch focus {
	case RepoFocusBaseDir:
		return f.BaseDir
	case RepoFocusDefaultProfile:
		return f.DefaultProfile
	default:
		return f.Name
	}
}

func setRepositoryField(f *RepositoryFormFields, focus RepositoryFormFocus, v string) {
	switch focus {
	case RepoFocusBaseDir:
		f.BaseDir = v
	case RepoFocusDefaultProfile:
		f.DefaultProfile = v
	default:
		f.Name = v
	}
}

func agentFieldValue(f AgentFormFields, focus AgentFormFocus) string {
	switch focus {
	case AgentFocusDescription:
		return f.Description
	case AgentFocusWorkDir:
		return f.WorkDir
	case AgentFocusProfile:
		return f.Profile
	case AgentFocusMode:
		return f.Mode
	default:
		return f.Name
	}
}

func setAgentField(f *AgentFormFields, focus AgentFormFocus, v string) {
	switch focus {
	case AgentFocusDescription:
		f.Description = v
	case AgentFocusWorkDir:
		f.WorkDir = v
	case AgentFocusProfile:
		f.Profile = v
	case AgentFocusMode:
		f.Mode = v
	default:
		f.Name = v
	}
}

// deriveAgentWorkDir auto-derives a new agent's work_dir from its name
// slug under the repository's base dir, used while the user has not yet
// hand-edited the WorkDir field directly.
func deriveAgentWorkDir(state AppState, repoID domain.RepositoryId, name string) string {
	baseDir := "/tmp"
	for _, r := range state.Repositories {
		if r.ID == repoID {
			baseDir = r.BaseDir
			break
		}
	}
	slug := domain.Slugify(name)
	if slug == "" {
		return baseDir
	}
	return util.TrimTrailingSlash(baseDir) + "/" + slug
}

func normalizeProfile(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" || trimmed == "[]" {
		return ""
	}
	return v
}

// generateID produces a fresh UUIDv4 text id. Callers that need
// determinism (tests) should not rely on its exact value.
func generateID() string {
	return uuid.New().String()
}

func handleSubmitForm(state AppState) AppState {
	switch m := state.Modal.(type) {
	case ModalNewRepository:
		if repo, ok := createRepositoryFromFields(m.Fields); ok {
			state.Repositories = append(state.Repositories, repo)
			state.SelectedRepositoryIndex = len(state.Repositories) - 1
			state.HasSelectedRepository = true
			state.Modal = ModalNone{}
		}
	case ModalEditRepository:
		if m.Fields.Name == "" {
			return state
		}
		for i := range state.Repositories {
			if state.Repositories[i].ID == m.ID {
				updateRepositoryFromFields(&state.Repositories[i], m.Fields)
				break
			}
		}
		state.Modal = ModalNone{}
	case ModalNewAgent:
		nextDisplay := len(state.Agents) + 1
		if agent, ok := createAgentFromFields(m.RepositoryID, m.Fields, nextDisplay); ok {
			state.Agents = append(state.Agents, agent)
			state.SelectedAgentIndex = len(state.Agents) - 1
			state.HasSelectedAgent = true
			state.Modal = ModalNone{}
		}
	case ModalEditAgent:
		if m.Fields.Name == "" {
			return state
		}
		for i := range state.Agents {
			if state.Agents[i].ID == m.ID {
				updateAgentFromFields(&state.Agents[i], m.Fields)
				break
			}
		}
		state.Modal = ModalNone{}
	case ModalConfirmDeleteRepository:
		state = deleteRepository(state, m.ID)
		state.Modal = ModalNone{}
	case ModalConfirmDeleteAgent:
		state = deleteAgent(state, m.ID, m.DeleteWorkDir)
		state.Modal = ModalNone{}
	default:
		state.Modal = ModalNone{}
	}
	return state
}

// deleteRepository removes repo and every agent it owns. The caller's
// runtime layer is responsible for killing any live session for those
// agents, using the agent list as it stood before this event; Apply only
// ever touches view/domain state.
func deleteRepository(state AppState, id domain.RepositoryId) AppState {
	repos := state.Repositories[:0:0]
	for _, r := range state.Repositories {
		if r.ID != id {
			repos = append(repos, r)
		}
	}
	state.Repositories = repos

	agents := state.Agents[:0:0]
	for _, a := range state.Agents {
		if a.RepositoryID != id {
			agents = append(agents, a)
		}
	}
	state.Agents = agents
	return state
}

// deleteAgent removes agent id. When deleteWorkDir is set its working
// directory is also removed from disk; a removal failure is non-fatal,
// matching the tolerant-persistence posture elsewhere in this package.
func deleteAgent(state AppState, id domain.AgentId, deleteWorkDir bool) AppState {
	agents := state.Agents[:0:0]
	for _, a := range state.Agents {
		if a.ID == id {
			if deleteWorkDir && a.WorkDir != "" {
				_ = os.RemoveAll(a.WorkDir)
			}
			continue
		}
		agents = append(agents, a)
	}
	state.Agents = agents
	return state
}

func createRepositoryFromFields(f RepositoryFormFields) (domain.Repository, bool) {
	if f.Name == "" {
		return domain.Repository{}, false
	}
	slug := domain.Slugify(f.Name)
	baseDir := f.BaseDir
	if baseDir == "" {
		baseDir = "/tmp/" + slug
	} else {
		baseDir = util.ExpandHome(baseDir)
	}
	_ = os.MkdirAll(baseDir, 0o755)

	return domain.Repository{
		ID:             domain.RepositoryId(generateID()),
		Name:           f.Name,
		Slug:           slug,
		BaseDir:        baseDir,
		DefaultProfile: normalizeProfile(f.DefaultProfile),
	}, true
}

func updateRepositoryFromFields(repo *domain.Repository, f RepositoryFormFields) {
	repo.Name = f.Name
	repo.Slug = domain.Slugify(f.Name)
	if f.BaseDir != "" {
		repo.BaseDir = util.ExpandHome(f.BaseDir)
	}
	repo.DefaultProfile = normalizeProfile(f.DefaultProfile)
}

func createAgentFromFields(repoID domain.RepositoryId, f AgentFormFields, displayIndex int) (domain.Agent, bool) {
	if f.Name == "" {
		return domain.Agent{}, false
	}
	workDir := util.ExpandHome(f.WorkDir)
	_ = os.MkdirAll(workDir, 0o755)

	modeFlags := []string{"--yolo"}
	if trimmed := strings.TrimSpace(f.Mode); trimmed != "" {
		modeFlags = strings.Fields(trimmed)
	}

	return domain.Agent{
		ID:           domain.AgentId(generateID()),
		RepositoryID: repoID,
		Name:         f.Name,
		Description:  f.Description,
		WorkDir:      workDir,
		Profile:      normalizeProfile(f.Profile),
		ModeFlags:    modeFlags,
		PassContinue: f.PassContinue,
		Status:       domain.StatusRunning,
	}, true
}

func updateAgentFromFields(agent *domain.Agent, f AgentFormFields) {
	agent.Name = f.Name
	agent.Description = f.Description
	if f.WorkDir != "" {
		newDir := util.ExpandHome(f.WorkDir)
		if newDir != agent.WorkDir {
			_ = os.MkdirAll(newDir, 0o755)
		}
		agent.WorkDir = newDir
	}
	agent.Profile = normalizeProfile(f.Profile)
	if trimmed := strings.TrimSpace(f.Mode); trimmed != "" {
		agent.ModeFlags = strings.Fields(trimmed)
	} else {
		agent.ModeFlags = []string{"--yolo"}
	}
	agent.PassContinue = f.PassContinue
}

// SelectedRepository returns the currently selected repository, if any.
func SelectedRepository(state AppState) (domain.Repository, bool) {
	if !state.HasSelectedRepository || state.SelectedRepositoryIndex >= len(state.Repositories) {
		return domain.Repository{}, false
	}
	return state.Repositories[state.SelectedRepositoryIndex], true
}

// SelectedAgent returns the currently selected agent, if any, scoped to the
// selected repository.
func SelectedAgent(state AppState) (domain.Agent, bool) {
	repoID, ok := selectedRepositoryID(state)
	if !ok || !state.HasSelectedAgent || state.SelectedAgentIndex >= len(state.Agents) {
		return domain.Agent{}, false
	}
	agent := state.Agents[state.SelectedAgentIndex]
	if agent.RepositoryID != repoID {
		return domain.Agent{}, false
	}
	return agent, true
}
