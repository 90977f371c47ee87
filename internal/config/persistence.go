package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/llxprt/jefe/internal/domain"
)

const (
	SettingsSchemaVersion = 1
	StateSchemaVersion    = 1
)

// Settings is the user-editable settings.toml document.
type Settings struct {
	SchemaVersion int    `toml:"schema_version"`
	Theme         string `toml:"theme"`
}

// DefaultSettings returns the baseline settings: schema_version stamped,
// theme defaulted to the built-in "green-screen" palette.
func DefaultSettings() Settings {
	return Settings{SchemaVersion: SettingsSchemaVersion, Theme: "green-screen"}
}

// State is the operational state.json document: the full repository/agent
// set plus the last UI selection.
type State struct {
	SchemaVersion           int                 `json:"schema_version"`
	Repositories            []domain.Repository `json:"repositories"`
	Agents                  []domain.Agent      `json:"agents"`
	SelectedRepositoryIndex *int                `json:"selected_repository_index"`
	SelectedAgentIndex      *int                `json:"selected_agent_index"`
}

// DefaultState returns the baseline empty state.
func DefaultState() State {
	return State{SchemaVersion: StateSchemaVersion}
}

// Store loads and atomically saves Settings/State at a fixed pair of
// resolved paths.
type Store struct {
	paths Paths
}

// NewStore resolves paths via the documented env-var precedence.
func NewStore() *Store { return &Store{paths: ResolvePaths()} }

// NewStoreWithPaths builds a Store against explicit paths, for tests.
func NewStoreWithPaths(paths Paths) *Store { return &Store{paths: paths} }

// LoadSettings returns the on-disk settings, or DefaultSettings if the file
// is missing. A present-but-unparseable file also falls back to defaults
// rather than failing startup — persistence is tolerant by design.
func (s *Store) LoadSettings() Settings {
	data, err := os.ReadFile(s.paths.SettingsPath)
	if err != nil {
		return DefaultSettings()
	}
	var settings Settings
	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings()
	}
	return settings
}

// LoadState returns the on-disk state, or DefaultState if the file is
// missing or fails to parse.
func (s *Store) LoadState() State {
	data, err := os.ReadFile(s.paths.StatePath)
	if err != nil {
		return DefaultState()
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return DefaultState()
	}
	return state
}

// SaveSettings serializes settings as pretty TOML and writes it atomically.
func (s *Store) SaveSettings(settings Settings) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(settings); err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	return atomicWrite(s.paths.SettingsPath, buf.Bytes())
}

// SaveState serializes state as pretty JSON and writes it atomically.
func (s *Store) SaveState(state State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize state: %w", err)
	}
	return atomicWrite(s.paths.StatePath, data)
}

// atomicWrite writes content to a temp file in the same directory, fsyncs
// it, then renames it over path — the rename is atomic on every platform
// this project targets, so a crash mid-write never corrupts the existing
// file.
func atomicWrite(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
