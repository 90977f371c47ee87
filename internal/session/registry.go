// Package session implements the Session Registry: the mapping from agent
// identity to backend session name and launch signature, split into a live
// table and a dead-signature table for relaunch.
package session

import (
	"errors"
	"sync"

	"github.com/llxprt/jefe/internal/domain"
)

// ErrAlreadyRunning is returned by Insert when the agent id is already
// present in the live table.
var ErrAlreadyRunning = errors.New("agent already running")

// RuntimeSession is a live agent's backend binding.
type RuntimeSession struct {
	AgentID     domain.AgentId
	SessionName string
	Signature   domain.LaunchSignature
	Attached    bool
}

// SessionNameFor derives the deterministic backend session name for an
// agent id.
func SessionNameFor(id domain.AgentId) string {
	return "jefe-" + string(id)
}

// Registry holds the two disjoint tables: live RuntimeSessions and dead
// LaunchSignatures. An agent id appears in at most one of them at any time.
type Registry struct {
	mu   sync.Mutex
	live map[domain.AgentId]*RuntimeSession
	dead map[domain.AgentId]domain.LaunchSignature
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		live: make(map[domain.AgentId]*RuntimeSession),
		dead: make(map[domain.AgentId]domain.LaunchSignature),
	}
}

// Insert records a newly spawned session for id, clearing any prior dead
// signature. Fails with ErrAlreadyRunning if id is already live.
func (r *Registry) Insert(id domain.AgentId, sig domain.LaunchSignature) (*RuntimeSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.live[id]; ok {
		return nil, ErrAlreadyRunning
	}

	rs := &RuntimeSession{AgentID: id, SessionName: SessionNameFor(id), Signature: sig}
	r.live[id] = rs
	delete(r.dead, id)
	return rs, nil
}

// Get returns the live RuntimeSession for id, if any.
func (r *Registry) Get(id domain.AgentId) (*RuntimeSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rs, ok := r.live[id]
	return rs, ok
}

// IsLive reports whether id currently has a live session.
func (r *Registry) IsLive(id domain.AgentId) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.live[id]
	return ok
}

// Remove moves id's signature from the live table into the dead table and
// returns it. A no-op (ok=false) if id was not live.
func (r *Registry) Remove(id domain.AgentId) (domain.LaunchSignature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rs, ok := r.live[id]
	if !ok {
		return domain.LaunchSignature{}, false
	}
	delete(r.live, id)
	r.dead[id] = rs.Signature
	return rs.Signature, true
}

// ConsumeDead removes and returns id's dead signature, if present.
func (r *Registry) ConsumeDead(id domain.AgentId) (domain.LaunchSignature, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sig, ok := r.dead[id]
	if ok {
		delete(r.dead, id)
	}
	return sig, ok
}

// SetAttached clears the attached flag on every live session, then sets it
// on id (if live). Preserves the at-most-one-attached invariant.
func (r *Registry) SetAttached(id domain.AgentId) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rs := range r.live {
		rs.Attached = false
	}
	if rs, ok := r.live[id]; ok {
		rs.Attached = true
	}
}

// ClearAttached clears the attached flag on every live session.
func (r *Registry) ClearAttached() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rs := range r.live {
		rs.Attached = false
	}
}
