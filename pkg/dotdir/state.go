package dotdir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	stateFile = "last_ingest.json"
)

// IngestState summarizes the most recent successful ingestion run.
type IngestState struct {
	DataDir     string    `json:"data_dir"`
	Metadata    string    `json:"metadata"`
	Index       string    `json:"index"`
	Model       string    `json:"model"`
	Documents   int       `json:"documents"`
	Chunks      int       `json:"chunks"`
	Dimensions  int       `json:"dimensions"`
	FailedFiles []string  `json:"failed_files,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// LoadIngestState loads the state from a target .policyqa/last_ingest.json.
// Returns nil, nil if nothing has been ingested yet.
func (m *Manager) LoadIngestState(overrideDir string) (*IngestState, error) {
	dir, err := m.Target(overrideDir)
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return nil, nil
	}

	data, err := os.ReadFile(filepath.Join(dir, stateFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading ingest state: %w", err)
	}

	state := &IngestState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing ingest state: %w", err)
	}

	return state, nil
}

// SaveIngestState persists state to a target .policyqa/last_ingest.json.
func (m *Manager) SaveIngestState(state *IngestState, overrideDir string) error {
	if state == nil {
		return errors.New("cannot save nil ingest state")
	}

	dir, err := m.Target(overrideDir)
	if err != nil {
		return err
	}
	if dir == "" {
		return errors.New("no policyqa directory, run policyqa init")
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ingest state: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, stateFile), data, 0o600); err != nil {
		return fmt.Errorf("writing ingest state: %w", err)
	}

	return nil
}

// ClearIngestState removes the state file. Returns nil if it doesn't exist.
func (m *Manager) ClearIngestState(overrideDir string) error {
	dir, err := m.Target(overrideDir)
	if err != nil || dir == "" {
		return err
	}

	if err := os.Remove(filepath.Join(dir, stateFile)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing ingest state: %w", err)
	}

	return nil
}
