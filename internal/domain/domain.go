// Package domain holds the persisted entity types shared by the orchestration
// core: agents, repositories, and the launch parameters used to start them.
package domain

import "strings"

// AgentId is an opaque stable identifier for an Agent.
type AgentId string

// RepositoryId is an opaque stable identifier for a Repository, disjoint
// from AgentId's namespace.
type RepositoryId string

// LaunchSignature is the reproducible recipe used to start an agent process.
type LaunchSignature struct {
	WorkDir      string   `json:"work_dir"`
	Profile      string   `json:"profile"`
	ModeFlags    []string `json:"mode_flags"`
	PassContinue bool     `json:"pass_continue"`
}

// AgentStatus is the lifecycle status of an Agent.
type AgentStatus string

const (
	StatusQueued    AgentStatus = "queued"
	StatusRunning   AgentStatus = "running"
	StatusCompleted AgentStatus = "completed"
	StatusErrored   AgentStatus = "errored"
	StatusWaiting   AgentStatus = "waiting"
	StatusPaused    AgentStatus = "paused"
	StatusDead      AgentStatus = "dead"
)

// Agent is a persisted, long-running coding-assistant process pinned to a
// working directory. Every Agent must reference an existing Repository at
// persistence time.
type Agent struct {
	ID           AgentId      `json:"id"`
	RepositoryID RepositoryId `json:"repository_id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	WorkDir      string       `json:"work_dir"`
	Profile      string       `json:"profile"`
	ModeFlags    []string     `json:"mode_flags"`
	PassContinue bool         `json:"pass_continue"`
	Status       AgentStatus  `json:"status"`
}

// Signature derives the LaunchSignature for spawning this agent.
func (a Agent) Signature() LaunchSignature {
	return LaunchSignature{
		WorkDir:      a.WorkDir,
		Profile:      a.Profile,
		ModeFlags:    append([]string(nil), a.ModeFlags...),
		PassContinue: a.PassContinue,
	}
}

// Repository is a logical grouping of agents sharing a base directory and
// default profile. AgentIDs is a derived cache rebuilt after every state
// transition; it is never the source of truth.
type Repository struct {
	ID             RepositoryId `json:"id"`
	Name           string       `json:"name"`
	Slug           string       `json:"slug"`
	BaseDir        string       `json:"base_dir"`
	DefaultProfile string       `json:"default_profile"`
	AgentIDs       []AgentId    `json:"agent_ids"`
}

// Slugify lowercases name, replaces spaces with dashes, and keeps only
// alphanumerics and dashes, matching the form-submission slug derivation
// rule.
func Slugify(name string) string {
	lower := strings.ToLower(strings.TrimSpace(name))
	lower = strings.ReplaceAll(lower, " ", "-")

	var b strings.Builder
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}
