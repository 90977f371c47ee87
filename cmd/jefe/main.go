// Command jefe launches the dashboard TUI that supervises long-lived coding
// agent sessions, one per repository, bound to tmux-like multiplexer
// sessions.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llxprt/jefe/internal/config"
	"github.com/llxprt/jefe/internal/lock"
	"github.com/llxprt/jefe/internal/runtime"
	"github.com/llxprt/jefe/internal/theme"
	"github.com/llxprt/jefe/internal/tmux"
	"github.com/llxprt/jefe/internal/tui"
)

func main() {
	closeLog := setupLogging()
	defer closeLog()

	if err := rootCmd.Execute(); err != nil {
		slog.Error("jefe exited with error", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setupLogging wires log/slog per JEFE_LOG_FILE/JEFE_LOG: logging is
// discarded entirely unless JEFE_LOG_FILE names a writable path. The level
// defaults to debug — every message logged here is this application's own,
// so "info generally, debug for this application" collapses to plain
// debug — unless JEFE_LOG names a level explicitly. Returns a cleanup func
// that closes the log file, if any.
func setupLogging() func() {
	level := slog.LevelDebug
	switch strings.ToLower(os.Getenv("JEFE_LOG")) {
	case "error":
		level = slog.LevelError
	case "warn", "warning":
		level = slog.LevelWarn
	case "info":
		level = slog.LevelInfo
	case "debug", "":
		level = slog.LevelDebug
	}

	var w io.Writer = io.Discard
	var f *os.File
	if path := os.Getenv("JEFE_LOG_FILE"); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
				w, f = file, file
			}
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return func() {
		if f != nil {
			f.Close()
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "jefe",
	Short: "Supervise long-lived coding agents, one per repository",
	Long: `jefe is a terminal dashboard for running many coding-agent processes
side by side, each bound to its own repository and multiplexer session.

Running jefe with no subcommand launches the dashboard.`,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	paths := config.ResolvePaths()
	slog.Info("resolved paths", "settings", paths.SettingsPath, "state", paths.StatePath)

	stateDir := filepath.Dir(paths.StatePath)
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	instanceLock, err := lock.Acquire(filepath.Join(stateDir, "jefe.lock"))
	if err != nil {
		return fmt.Errorf("another jefe instance is already running: %w", err)
	}
	defer instanceLock.Release()

	store := config.NewStoreWithPaths(paths)
	gateway := tmux.New()
	manager := runtime.New(gateway, runtime.DefaultViewerFactory)
	themes := theme.NewManager()
	if dir := os.Getenv("JEFE_THEMES_DIR"); dir != "" {
		themes.LoadFromDir(dir)
	}

	windowed := os.Getenv("JEFE_WINDOWED") == "1"
	model := tui.New(store, manager, themes, windowed)

	slog.Info("starting dashboard", "windowed", windowed)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
