package storage

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	stateDir  = ".ui_automation"
	stateFile = "state.json"
)

type browserState struct {
	statePath string
}

// DefaultStatePath - returns the state file location under the home directory
func DefaultStatePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, stateDir, stateFile)
}

// NewBrowserState - creates session state storage backed by the file at path
func NewBrowserState(path string) interfaces.StateStore {
	if path == "" {
		path = DefaultStatePath()
	}
	return &browserState{statePath: path}
}

// SaveState - saves cookies and local storage to file
func (s *browserState) SaveState(state *entities.SessionState) error {
	if state == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.statePath), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode browser state: %w", err)
	}
	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write browser state: %w", err)
	}
	return os.Rename(tmp, s.statePath)
}

// LoadState - loads session state from file, nil when nothing was saved yet
func (s *browserState) LoadState() (*entities.SessionState, error) {
	data, err := os.ReadFile(s.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read browser state: %w", err)
	}

	var state entities.SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode browser state %s: %w", s.statePath, err)
	}
	return &state, nil
}
