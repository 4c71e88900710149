// Package store persists the change-detection state as a single JSON file.
// The file is read once at the start of a run and replaced wholesale at the
// end; there is no merging and no locking against concurrent invocations.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/i474232898/airport-weather-alerts/internal/alert"
)

// FileStore is a file-backed implementation of alert.StateStore.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted state. A missing file is a normal first run and
// yields an empty state rather than an error.
func (s *FileStore) Load() (alert.State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return alert.NewState(), nil
		}
		return alert.NewState(), fmt.Errorf("read state file: %w", err)
	}

	var state alert.State
	if err := json.Unmarshal(data, &state); err != nil {
		return alert.NewState(), fmt.Errorf("parse state file: %w", err)
	}
	if state.LastPeaks == nil {
		state.LastPeaks = make(map[string]float64)
	}
	return state, nil
}

// Save replaces the state file with the given state.
func (s *FileStore) Save(state alert.State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
