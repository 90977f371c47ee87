package tmux

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/llxprt/jefe/internal/domain"
)

func TestCommandArgsOrdering(t *testing.T) {
	sig := domain.LaunchSignature{
		Profile:      "default",
		ModeFlags:    []string{"--yolo", "", "--verbose"},
		PassContinue: true,
	}
	t.Setenv("JEFE_AGENT_BIN", "claude")

	got := commandArgs(sig)
	want := []string{"claude", "--profile-load", "default", "--yolo", "--verbose", "--continue"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("commandArgs() = %v, want %v", got, want)
	}
}

func TestCommandArgsOmitsEmptyProfileAndContinue(t *testing.T) {
	t.Setenv("JEFE_AGENT_BIN", "claude")
	got := commandArgs(domain.LaunchSignature{})
	want := []string{"claude"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("commandArgs() = %v, want %v", got, want)
	}
}

func TestAgentBinDefaultsWhenUnset(t *testing.T) {
	t.Setenv("JEFE_AGENT_BIN", "")
	if got := agentBin(); got != "agent" {
		t.Fatalf("agentBin() = %q, want %q", got, "agent")
	}
}

func TestAgentBinHonorsEnvOverride(t *testing.T) {
	t.Setenv("JEFE_AGENT_BIN", "claude")
	if got := agentBin(); got != "claude" {
		t.Fatalf("agentBin() = %q, want %q", got, "claude")
	}
}

func TestIsRecoverableFault(t *testing.T) {
	cases := []struct {
		stderr string
		want   bool
	}{
		{"fork failed: out of memory", true},
		{"open terminal failed: Device not configured", true},
		{"duplicate session: foo", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isRecoverableFault(c.stderr); got != c.want {
			t.Errorf("isRecoverableFault(%q) = %v, want %v", c.stderr, got, c.want)
		}
	}
}

func TestFaultCategoryString(t *testing.T) {
	cases := map[FaultCategory]string{
		FaultSpawn: "spawn",
		FaultKill:  "kill",
		FaultProbe: "probe",
		FaultStyle: "style",
	}
	for cat, want := range cases {
		if got := cat.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(cat), got, want)
		}
	}
}

func TestErrorFormatsCategoryAndCause(t *testing.T) {
	err := newError(FaultKill, "no server running")
	want := "kill failed: no server running"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

// writeFakeTmux writes a POSIX shell script standing in for the tmux binary,
// so CreateSession's kill-then-create and retry-once-on-recoverable-fault
// behavior can be exercised without a real multiplexer. createExitCodes is
// consumed one per "new-session" invocation; once exhausted every further
// invocation fails with "fork failed" and exit status 1.
func writeFakeTmux(t *testing.T, createExitCodes []string) string {
	t.Helper()
	dir := t.TempDir()
	script := filepath.Join(dir, "tmux")
	counter := filepath.Join(dir, "new-session-calls")

	var cases strings.Builder
	for i, code := range createExitCodes {
		fmt.Fprintf(&cases, "  %d) %s ;;\n", i+1, code)
	}

	content := fmt.Sprintf(`#!/bin/sh
case "$1" in
  new-session)
    n=$(cat %q 2>/dev/null || echo 0)
    n=$((n+1))
    echo "$n" > %q
    case "$n" in
%s    *) echo "fork failed" 1>&2; exit 1 ;;
    esac
    ;;
  kill-session)
    echo "session not found" 1>&2
    exit 1
    ;;
  kill-server)
    exit 0
    ;;
  has-session)
    exit 1
    ;;
  *)
    exit 0
    ;;
esac
`, counter, counter, cases.String())

	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write fake tmux: %v", err)
	}
	return script
}

func TestCreateSessionRetriesOnceOnRecoverableFault(t *testing.T) {
	bin := writeFakeTmux(t, []string{
		`echo "fork failed" 1>&2; exit 1`,
		`exit 0`,
	})
	gw := &Gateway{bin: bin}

	if err := gw.CreateSession("sess-1", "/tmp", domain.LaunchSignature{}); err != nil {
		t.Fatalf("CreateSession() = %v, want nil after one retry", err)
	}
}

func TestCreateSessionFailsAfterSingleRetryExhausted(t *testing.T) {
	bin := writeFakeTmux(t, []string{
		`echo "fork failed" 1>&2; exit 1`,
		`echo "fork failed" 1>&2; exit 1`,
	})
	gw := &Gateway{bin: bin}

	err := gw.CreateSession("sess-1", "/tmp", domain.LaunchSignature{})
	if err == nil {
		t.Fatal("CreateSession() = nil, want an error after the retry also fails")
	}
}

func TestCreateSessionDoesNotRetryUnrecoverableFault(t *testing.T) {
	bin := writeFakeTmux(t, []string{
		`echo "duplicate session: sess-1" 1>&2; exit 1`,
	})
	gw := &Gateway{bin: bin}

	err := gw.CreateSession("sess-1", "/tmp", domain.LaunchSignature{})
	if err == nil {
		t.Fatal("CreateSession() = nil, want an unrecoverable error surfaced without a retry")
	}

	var gwErr *Error
	if e, ok := err.(*Error); ok {
		gwErr = e
	}
	if gwErr == nil || gwErr.Category != FaultSpawn {
		t.Fatalf("expected a FaultSpawn Error, got %v", err)
	}
}

func TestKillSessionTreatsSessionNotFoundAsSuccess(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "tmux")
	content := `#!/bin/sh
case "$1" in
  kill-session)
    echo "can't find session" 1>&2
    exit 1
    ;;
  *)
    exit 0
    ;;
esac
`
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write fake tmux: %v", err)
	}
	gw := &Gateway{bin: script}

	if err := gw.KillSession("whatever"); err != nil {
		t.Fatalf("KillSession() = %v, want nil for an already-gone session", err)
	}
}

func TestSessionExistsFalseOnProbeError(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "tmux")
	content := `#!/bin/sh
exit 1
`
	if err := os.WriteFile(script, []byte(content), 0o755); err != nil {
		t.Fatalf("write fake tmux: %v", err)
	}
	gw := &Gateway{bin: script}

	if gw.SessionExists("whatever") {
		t.Fatal("SessionExists() = true, want false when the probe itself errors")
	}
}
