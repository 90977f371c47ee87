// Package tmux implements the Multiplexer Gateway: a thin synchronous
// wrapper around the four tmux operations the orchestration core needs.
// Every other component reaches the backend multiplexer only through this
// package.
package tmux

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/llxprt/jefe/internal/domain"
)

// FaultCategory classifies a Gateway failure.
type FaultCategory int

const (
	FaultSpawn FaultCategory = iota
	FaultKill
	FaultProbe
	FaultStyle
)

func (c FaultCategory) String() string {
	switch c {
	case FaultSpawn:
		return "spawn"
	case FaultKill:
		return "kill"
	case FaultProbe:
		return "probe"
	case FaultStyle:
		return "style"
	default:
		return "unknown"
	}
}

// Error is a Gateway failure: a fault category plus a free-form cause.
type Error struct {
	Category FaultCategory
	Cause    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Category, e.Cause)
}

func newError(category FaultCategory, cause string) *Error {
	return &Error{Category: category, Cause: cause}
}

// agentBin resolves the opaque agent binary name from JEFE_AGENT_BIN,
// defaulting to "agent" on $PATH.
func agentBin() string {
	if v := os.Getenv("JEFE_AGENT_BIN"); v != "" {
		return v
	}
	return "agent"
}

// Gateway wraps tmux subprocess invocations.
type Gateway struct {
	bin string
}

// New returns a Gateway that invokes the tmux binary on $PATH.
func New() *Gateway {
	return &Gateway{bin: "tmux"}
}

// run executes a tmux command and returns trimmed stdout and raw stderr.
func (g *Gateway) run(args ...string) (stdout string, stderr string, err error) {
	cmd := exec.Command(g.bin, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err = cmd.Run()
	return strings.TrimSpace(outBuf.String()), strings.TrimSpace(errBuf.String()), err
}

// isRecoverableFault reports whether stderr carries one of the known
// recoverable multiplexer fault signatures.
func isRecoverableFault(stderr string) bool {
	return strings.Contains(stderr, "fork failed") || strings.Contains(stderr, "Device not configured")
}

// commandArgs composes the agent command line per the invariant order:
// binary, --profile-load <profile> if non-empty, each non-empty mode flag
// in order, then --continue if pass_continue.
func commandArgs(sig domain.LaunchSignature) []string {
	args := []string{agentBin()}
	if sig.Profile != "" {
		args = append(args, "--profile-load", sig.Profile)
	}
	for _, flag := range sig.ModeFlags {
		if flag != "" {
			args = append(args, flag)
		}
	}
	if sig.PassContinue {
		args = append(args, "--continue")
	}
	return args
}

// CreateSession creates a detached tmux session named name, in workDir,
// running the agent command derived from sig. Any existing session with the
// same name is killed first (best-effort). On a recoverable multiplexer
// fault, the server is reset and the create is retried exactly once.
func (g *Gateway) CreateSession(name, workDir string, sig domain.LaunchSignature) error {
	_ = g.KillSession(name)

	if err := g.createSessionOnce(name, workDir, sig); err != nil {
		var gwErr *Error
		stderr := ""
		if e, ok := err.(*Error); ok {
			gwErr = e
			stderr = e.Cause
		}
		if gwErr != nil && isRecoverableFault(stderr) {
			_, _, _ = g.run("kill-server")
			if retryErr := g.createSessionOnce(name, workDir, sig); retryErr != nil {
				return retryErr
			}
			return nil
		}
		return err
	}
	return nil
}

func (g *Gateway) createSessionOnce(name, workDir string, sig domain.LaunchSignature) error {
	args := []string{"new-session", "-d", "-s", name, "-c", workDir}
	args = append(args, commandArgs(sig)...)
	_, stderr, err := g.run(args...)
	if err != nil {
		if stderr == "" {
			stderr = err.Error()
		}
		return newError(FaultSpawn, stderr)
	}
	return nil
}

// KillSession terminates a session. Absence of the session is treated as
// success (idempotent kill).
func (g *Gateway) KillSession(name string) error {
	_, stderr, err := g.run("kill-session", "-t", name)
	if err != nil {
		if strings.Contains(stderr, "session not found") || strings.Contains(stderr, "can't find session") ||
			strings.Contains(stderr, "no server running") || strings.Contains(stderr, "error connecting to") {
			return nil
		}
		if stderr == "" {
			stderr = err.Error()
		}
		return newError(FaultKill, stderr)
	}
	return nil
}

// SessionExists reports whether a session by this exact name exists.
// Never fails; any probe error is treated as absence.
func (g *Gateway) SessionExists(name string) bool {
	_, _, err := g.run("has-session", "-t", "="+name)
	return err == nil
}

// StyleSession applies a best-effort status-bar style. Failures are
// silently ignored; a cosmetic style call should never surface as a fault.
func (g *Gateway) StyleSession(name, style string) error {
	_, _, _ = g.run("set-option", "-t", name, "status-style", style)
	return nil
}
