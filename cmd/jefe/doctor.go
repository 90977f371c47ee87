package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/llxprt/jefe/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that jefe's runtime dependencies are in place",
	Long: `doctor verifies the environment jefe needs to run:

  - tmux-binary       tmux is installed and on PATH
  - agent-binary      the coding-agent binary (JEFE_AGENT_BIN, default "agent") resolves
  - config-writable   the settings.toml directory can be created/written
  - state-writable    the state.json directory can be created/written`,
	RunE: runDoctor,
}

type doctorCheck struct {
	name string
	run  func() error
}

func runDoctor(cmd *cobra.Command, args []string) error {
	paths := config.ResolvePaths()
	checks := []doctorCheck{
		{"tmux-binary", checkTmuxBinary},
		{"agent-binary", checkAgentBinary},
		{"config-writable", func() error { return checkDirWritable(paths.SettingsPath) }},
		{"state-writable", func() error { return checkDirWritable(paths.StatePath) }},
	}

	failed := 0
	for _, c := range checks {
		if err := c.run(); err != nil {
			failed++
			fmt.Printf("FAIL  %-16s %v\n", c.name, err)
			continue
		}
		fmt.Printf("OK    %-16s\n", c.name)
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}

func checkTmuxBinary() error {
	if _, err := exec.LookPath("tmux"); err != nil {
		return fmt.Errorf("tmux not found on PATH")
	}
	return nil
}

func checkAgentBinary() error {
	bin := os.Getenv("JEFE_AGENT_BIN")
	if bin == "" {
		bin = "agent"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return fmt.Errorf("%s not found on PATH (set JEFE_AGENT_BIN)", bin)
	}
	return nil
}

func checkDirWritable(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".jefe-doctor-*")
	if err != nil {
		return fmt.Errorf("cannot write to %s: %w", dir, err)
	}
	name := probe.Name()
	probe.Close()
	os.Remove(name)
	return nil
}
