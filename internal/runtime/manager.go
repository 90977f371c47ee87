// Package runtime implements the Runtime Manager: the core orchestrator
// that holds at most one Viewer and one attached agent identity, and
// coordinates the teardown-before-spawn ordering during an attach switch.
package runtime

import (
	"sync"

	"github.com/llxprt/jefe/internal/domain"
	"github.com/llxprt/jefe/internal/session"
	"github.com/llxprt/jefe/internal/viewer"
)

// Gateway is the narrow capability the Manager needs from the Multiplexer
// Gateway. A fake implementation lets tests drive the full Manager against
// a recording/stub backend.
type Gateway interface {
	CreateSession(name, workDir string, sig domain.LaunchSignature) error
	KillSession(name string) error
	SessionExists(name string) bool
	StyleSession(name, style string) error
}

// Viewer is the narrow capability the Manager needs from a live Viewer. A
// fake implementation returning a canned TerminalSnapshot must satisfy this
// contract for tests.
type Viewer interface {
	WriteInput(b []byte) error
	Resize(rows, cols int) error
	Snapshot() (viewer.TerminalSnapshot, bool)
	MouseReportingActive() bool
	BracketedPasteActive() bool
	IsAlive() bool
	MarkDead()
	Close()
}

// ViewerFactory spawns a new Viewer attached to sessionName at the given
// size. Swappable so tests can inject a fake Viewer.
type ViewerFactory func(sessionName string, rows, cols int) (Viewer, error)

// DefaultViewerFactory spawns a real pty-backed Viewer.
func DefaultViewerFactory(sessionName string, rows, cols int) (Viewer, error) {
	return viewer.Spawn(sessionName, rows, cols)
}

// Manager is the core orchestrator. All operations are synchronous and
// serialized against each other by mu; the only physical parallelism is
// each Viewer's own reader goroutine.
type Manager struct {
	mu sync.Mutex

	registry  *session.Registry
	gateway   Gateway
	newViewer ViewerFactory

	current     Viewer
	attachedID  domain.AgentId
	hasAttached bool

	rows, cols int
}

// New returns a Manager with default (80x24) cached viewer dimensions.
func New(gateway Gateway, factory ViewerFactory) *Manager {
	return &Manager{
		registry:  session.New(),
		gateway:   gateway,
		newViewer: factory,
		rows:      24,
		cols:      80,
	}
}

// SpawnSession creates a detached backend session for id and records it in
// the live table.
func (m *Manager) SpawnSession(id domain.AgentId, sig domain.LaunchSignature) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registry.IsLive(id) {
		return errAgent(ErrAlreadyRunning, id)
	}

	name := session.SessionNameFor(id)
	if err := m.gateway.CreateSession(name, sig.WorkDir, sig); err != nil {
		return errCause(ErrSpawnFailed, err.Error())
	}

	if _, err := m.registry.Insert(id, sig); err != nil {
		// Already excluded by the IsLive check above; defensive only.
		return errAgent(ErrAlreadyRunning, id)
	}
	return nil
}

// Attach switches the current Viewer to id's session. If id is already the
// attached agent this is a no-op. Otherwise the outgoing Viewer is fully
// torn down (teardownOutgoing) before the replacement is spawned: this
// ordering prevents the backend multiplexer from racing a new attach client
// against a not-yet-closed old one.
func (m *Manager) Attach(id domain.AgentId) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs, ok := m.registry.Get(id)
	if !ok {
		return errAgent(ErrSessionNotFound, id)
	}

	if m.hasAttached && m.attachedID == id {
		return nil
	}

	m.teardownOutgoing()

	v, err := m.newViewer(rs.SessionName, m.rows, m.cols)
	if err != nil {
		return errCause(ErrSpawnFailed, err.Error())
	}

	m.current = v
	m.attachedID = id
	m.hasAttached = true
	m.registry.SetAttached(id)
	return nil
}

// teardownOutgoing takes ownership of the current Viewer out of the slot
// and closes it (kill child, mark dead, bounded join) before returning.
// Callers must hold mu.
func (m *Manager) teardownOutgoing() {
	if m.current == nil {
		return
	}
	outgoing := m.current
	m.current = nil
	m.hasAttached = false
	m.registry.ClearAttached()
	outgoing.MarkDead()
	outgoing.Close()
}

// Detach clears the attached flag and destroys the current Viewer, if any.
func (m *Manager) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardownOutgoing()
}

// Kill removes id from the live table, moves its signature to the dead
// table, tears down the Viewer if id was attached, and kills the backend
// session. A backend SessionNotFound is treated as a silent success (the
// signature still moves to dead); only unexpected kill failures surface as
// a warning-level error.
func (m *Manager) Kill(id domain.AgentId) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rs, ok := m.registry.Get(id)
	if !ok {
		return errAgent(ErrSessionNotFound, id)
	}

	m.registry.Remove(id)

	if m.hasAttached && m.attachedID == id {
		m.teardownOutgoing()
	}

	if err := m.gateway.KillSession(rs.SessionName); err != nil {
		return errCause(ErrKillFailed, err.Error())
	}
	return nil
}

// Relaunch consumes id's dead signature and spawns a fresh session with it.
func (m *Manager) Relaunch(id domain.AgentId) error {
	m.mu.Lock()
	if m.registry.IsLive(id) {
		m.mu.Unlock()
		return errAgent(ErrAlreadyRunning, id)
	}
	sig, ok := m.registry.ConsumeDead(id)
	m.mu.Unlock()

	if !ok {
		return errAgent(ErrNotRunning, id)
	}
	return m.SpawnSession(id, sig)
}

// IsAlive always actively probes the gateway for any id present in the live
// table; it never trusts a cached bit.
func (m *Manager) IsAlive(id domain.AgentId) bool {
	m.mu.Lock()
	rs, ok := m.registry.Get(id)
	m.mu.Unlock()
	if !ok {
		return false
	}
	return m.gateway.SessionExists(rs.SessionName)
}

// Snapshot returns the current Viewer's snapshot, or false if no Viewer is
// attached.
func (m *Manager) Snapshot() (viewer.TerminalSnapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return viewer.TerminalSnapshot{}, false
	}
	return m.current.Snapshot()
}

// WriteInput forwards bytes to the attached Viewer.
func (m *Manager) WriteInput(b []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return &Error{Kind: ErrNoAttachedViewer}
	}
	if err := m.current.WriteInput(b); err != nil {
		return errCause(ErrWriteFailed, err.Error())
	}
	return nil
}

// Resize updates the cached dimensions used for future Viewer spawns and
// resizes the current Viewer, if any.
func (m *Manager) Resize(rows, cols int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows, m.cols = rows, cols
	if m.current == nil {
		return nil
	}
	if err := m.current.Resize(rows, cols); err != nil {
		return errCause(ErrResizeFailed, err.Error())
	}
	return nil
}

// AttachedAgent returns the currently attached agent id, if any.
func (m *Manager) AttachedAgent() (domain.AgentId, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attachedID, m.hasAttached
}

// MouseReportingActive reports whether the attached Viewer's application
// has requested mouse reporting.
func (m *Manager) MouseReportingActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.MouseReportingActive()
}

// BracketedPasteActive reports whether the attached Viewer's application
// has enabled bracketed paste.
func (m *Manager) BracketedPasteActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil && m.current.BracketedPasteActive()
}
