package appstate

import "github.com/llxprt/jefe/internal/domain"

// Event is the sum type of all application events driving Apply.
type Event interface{ isEvent() }

// Navigation
type NavigateUp struct{}
type NavigateDown struct{}
type NavigateLeft struct{}
type NavigateRight struct{}
type SelectRepository struct{ Index int }
type SelectAgent struct{ Index int }

// Focus
type CyclePaneFocus struct{}
type ToggleTerminalFocus struct{}

// Screen mode
type EnterSplitMode struct{}
type ExitSplitMode struct{}

// Grab mode (split view reordering)
type EnterGrabMode struct{}
type ExitGrabMode struct{}
type GrabMoveUp struct{}
type GrabMoveDown struct{}
type SetSplitFilter struct {
	RepositoryID domain.RepositoryId
	Clear        bool
}

// Modal/form actions
type OpenHelp struct{}
type OpenSearch struct{}
type CloseModal struct{}
type SubmitForm struct{}

// Form input events
type FormChar struct{ Char rune }
type FormBackspace struct{}
type FormNextField struct{}
type FormPrevField struct{}
type FormToggleCheckbox struct{}

// CRUD
type OpenNewRepository struct{}
type OpenEditRepository struct{ ID domain.RepositoryId }
type OpenDeleteRepository struct{ ID domain.RepositoryId }
type OpenNewAgent struct{ RepositoryID domain.RepositoryId }
type OpenEditAgent struct{ ID domain.AgentId }
type OpenDeleteAgent struct{ ID domain.AgentId }
type OpenKillAgent struct{ ID domain.AgentId }
type ToggleDeleteWorkDir struct{}

// Lifecycle
type KillAgent struct{ ID domain.AgentId }
type RelaunchAgent struct{ ID domain.AgentId }
type AgentStatusChanged struct {
	ID     domain.AgentId
	Status domain.AgentStatus
}

// Persistence results
type PersistenceLoadSuccess struct{}
type PersistenceLoadFailed struct{ Message string }
type PersistenceSaveSuccess struct{}
type PersistenceSaveFailed struct{ Message string }

// Theme
type SetTheme struct{ Slug string }
type ThemeResolveFailed struct{ Message string }

// System
type Quit struct{}
type ClearError struct{}
type ClearWarning struct{}

func (NavigateUp) isEvent()             {}
func (NavigateDown) isEvent()           {}
func (NavigateLeft) isEvent()           {}
func (NavigateRight) isEvent()          {}
func (SelectRepository) isEvent()       {}
func (SelectAgent) isEvent()            {}
func (CyclePaneFocus) isEvent()         {}
func (ToggleTerminalFocus) isEvent()    {}
func (EnterSplitMode) isEvent()         {}
func (ExitSplitMode) isEvent()          {}
func (EnterGrabMode) isEvent()          {}
func (ExitGrabMode) isEvent()           {}
func (GrabMoveUp) isEvent()             {}
func (GrabMoveDown) isEvent()           {}
func (SetSplitFilter) isEvent()         {}
func (OpenHelp) isEvent()               {}
func (OpenSearch) isEvent()             {}
func (CloseModal) isEvent()             {}
func (SubmitForm) isEvent()             {}
func (FormChar) isEvent()               {}
func (FormBackspace) isEvent()          {}
func (FormNextField) isEvent()          {}
func (FormPrevField) isEvent()          {}
func (FormToggleCheckbox) isEvent()     {}
func (OpenNewRepository) isEvent()      {}
func (OpenEditRepository) isEvent()     {}
func (OpenDeleteRepository) isEvent()   {}
func (OpenNewAgent) isEvent()           {}
func (OpenEditAgent) isEvent()          {}
func (OpenDeleteAgent) isEvent()        {}
func (OpenKillAgent) isEvent()          {}
func (ToggleDeleteWorkDir) isEvent()    {}
func (KillAgent) isEvent()              {}
func (RelaunchAgent) isEvent()          {}
func (AgentStatusChanged) isEvent()     {}
func (PersistenceLoadSuccess) isEvent() {}
func (PersistenceLoadFailed) isEvent()  {}
func (PersistenceSaveSuccess) isEvent() {}
func (PersistenceSaveFailed) isEvent()  {}
func (SetTheme) isEvent()               {}
func (ThemeResolveFailed) isEvent()     {}
func (Quit) isEvent()                   {}
func (ClearError) isEvent()             {}
func (ClearWarning) isEvent()           {}

// isNavigationEvent reports whether ev is one of the navigation/selection
// events that the terminal-focus gate drops while the terminal pane has
// keyboard focus.
func isNavigationEvent(ev Event) bool {
	switch ev.(type) {
	case NavigateUp, NavigateDown, NavigateLeft, NavigateRight, SelectRepository, SelectAgent:
		return true
	default:
		return false
	}
}
