package runtime

import (
	"fmt"

	"github.com/llxprt/jefe/internal/domain"
)

// ErrorKind enumerates the runtime fault kinds the Manager can return.
type ErrorKind int

const (
	ErrSessionNotFound ErrorKind = iota
	ErrAttachFailed
	ErrSpawnFailed
	ErrKillFailed
	ErrAlreadyRunning
	ErrNotRunning
	ErrNoAttachedViewer
	ErrWriteFailed
	ErrResizeFailed
)

// Error is a single runtime-fault type: a classified kind plus either an
// agent id or a free-form cause, rather than one Go error type per kind.
type Error struct {
	Kind    ErrorKind
	AgentID domain.AgentId
	Cause   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrSessionNotFound:
		return fmt.Sprintf("session not found: %s", e.AgentID)
	case ErrAttachFailed:
		return fmt.Sprintf("attach failed: %s", e.Cause)
	case ErrSpawnFailed:
		return fmt.Sprintf("spawn failed: %s", e.Cause)
	case ErrKillFailed:
		return fmt.Sprintf("kill failed: %s", e.Cause)
	case ErrAlreadyRunning:
		return fmt.Sprintf("agent already running: %s", e.AgentID)
	case ErrNotRunning:
		return fmt.Sprintf("agent not running: %s", e.AgentID)
	case ErrNoAttachedViewer:
		return "no attached viewer"
	case ErrWriteFailed:
		return fmt.Sprintf("write failed: %s", e.Cause)
	case ErrResizeFailed:
		return fmt.Sprintf("resize failed: %s", e.Cause)
	default:
		return "unknown runtime error"
	}
}

func errAgent(kind ErrorKind, id domain.AgentId) *Error { return &Error{Kind: kind, AgentID: id} }
func errCause(kind ErrorKind, cause string) *Error      { return &Error{Kind: kind, Cause: cause} }
