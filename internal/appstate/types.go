// Package appstate implements the Application State module: a pure
// apply(state, event) reducer plus the view-state types (screens, panes,
// modals, forms) that sit on top of the persisted domain model.
package appstate

import "github.com/llxprt/jefe/internal/domain"

// AgentFormFields holds the editable fields of the agent create/edit form.
type AgentFormFields struct {
	Name         string
	Description  string
	WorkDir      string
	Profile      string
	Mode         string
	PassContinue bool
}

// AgentFormFocus identifies the focused field in an agent form.
type AgentFormFocus int

const (
	AgentFocusName AgentFormFocus = iota
	AgentFocusDescription
	AgentFocusWorkDir
	AgentFocusProfile
	AgentFocusMode
	AgentFocusPassContinue
)

// Next returns the next field in tab order, wrapping after PassContinue.
func (f AgentFormFocus) Next() AgentFormFocus {
	if f == AgentFocusPassContinue {
		return AgentFocusName
	}
	return f + 1
}

// Prev returns the previous field in tab order, wrapping before Name.
func (f AgentFormFocus) Prev() AgentFormFocus {
	if f == AgentFocusName {
		return AgentFocusPassContinue
	}
	return f - 1
}

// RepositoryFormFields holds the editable fields of the repository
// create/edit form.
type RepositoryFormFields struct {
	Name           string
	BaseDir        string
	DefaultProfile string
}

// RepositoryFormFocus identifies the focused field in a repository form.
type RepositoryFormFocus int

const (
	RepoFocusName RepositoryFormFocus = iota
	RepoFocusBaseDir
	RepoFocusDefaultProfile
)

// Next returns the next field in tab order, wrapping after DefaultProfile.
func (f RepositoryFormFocus) Next() RepositoryFormFocus {
	if f == RepoFocusDefaultProfile {
		return RepoFocusName
	}
	return f + 1
}

// Prev returns the previous field in tab order, wrapping before Name.
func (f RepositoryFormFocus) Prev() RepositoryFormFocus {
	if f == RepoFocusName {
		return RepoFocusDefaultProfile
	}
	return f - 1
}

// Modal is the sum type of modal/form states. Exactly one concrete type
// below satisfies it at any time; ModalNone represents no modal.
type Modal interface{ isModal() }

type ModalNone struct{}

type ModalHelp struct{}

type ModalSearch struct{ Query string }

type ModalNewRepository struct {
	Fields RepositoryFormFields
	Focus  RepositoryFormFocus
}

type ModalEditRepository struct {
	ID     domain.RepositoryId
	Fields RepositoryFormFields
	Focus  RepositoryFormFocus
}

type ModalConfirmDeleteRepository struct{ ID domain.RepositoryId }

type ModalNewAgent struct {
	RepositoryID  domain.RepositoryId
	Fields        AgentFormFields
	Focus         AgentFormFocus
	WorkDirManual bool
}

type ModalEditAgent struct {
	ID     domain.AgentId
	Fields AgentFormFields
	Focus  AgentFormFocus
}

type ModalConfirmDeleteAgent struct {
	ID            domain.AgentId
	DeleteWorkDir bool
}

type ModalConfirmKillAgent struct{ ID domain.AgentId }

func (ModalNone) isModal()                    {}
func (ModalHelp) isModal()                    {}
func (ModalSearch) isModal()                  {}
func (ModalNewRepository) isModal()           {}
func (ModalEditRepository) isModal()          {}
func (ModalConfirmDeleteRepository) isModal() {}
func (ModalNewAgent) isModal()                {}
func (ModalEditAgent) isModal()               {}
func (ModalConfirmDeleteAgent) isModal()      {}
func (ModalConfirmKillAgent) isModal()        {}

// ScreenMode is the top-level screen the dashboard is rendering.
type ScreenMode int

const (
	ScreenDashboard ScreenMode = iota
	ScreenSplit
)

// PaneFocus identifies which pane has keyboard focus within a screen.
type PaneFocus int

const (
	PaneRepositories PaneFocus = iota
	PaneAgents
	PaneTerminal
)

// AppState is the single source of truth for the dashboard's view layer.
type AppState struct {
	Repositories []domain.Repository
	Agents       []domain.Agent

	SelectedRepositoryIndex int
	HasSelectedRepository   bool
	SelectedAgentIndex      int
	HasSelectedAgent        bool

	ScreenMode      ScreenMode
	PaneFocus       PaneFocus
	TerminalFocused bool

	Modal Modal

	SplitFilter    domain.RepositoryId
	HasSplitFilter bool
	SplitGrabIndex int
	HasSplitGrab   bool

	ErrorMessage   string
	HasError       bool
	WarningMessage string
	HasWarning     bool
}

// New returns the zero-value AppState: no selection, Dashboard screen,
// Repositories pane focused, no modal.
func New() AppState {
	return AppState{Modal: ModalNone{}}
}
