package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playpals/studio/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds persistent UI preferences that carry across sessions.
type UIState struct {
	Theme string `json:"theme"`
	// LastForm is the form id opened most recently.
	LastForm string `json:"last_form,omitempty"`
}

// DefaultUIState returns the state used when nothing has been saved.
func DefaultUIState() *UIState {
	return &UIState{Theme: "dark"}
}

// Load reads the UI state from <dataDir>/ui-state.json.
// Returns default state if the file doesn't exist or on error.
func Load(dataDir string) *UIState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultUIState()
	}
	if err != nil {
		logger.Warn("Failed to read UI state file: %v", err)
		return DefaultUIState()
	}

	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	if state.Theme != "dark" && state.Theme != "light" {
		state.Theme = "dark"
	}

	return state
}

// Save writes the UI state to <dataDir>/ui-state.json, creating the data
// directory if needed.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	path := filepath.Join(dataDir, fileName)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}

// Exists reports whether a UI state file has been saved in dataDir.
func Exists(dataDir string) bool {
	_, err := os.Stat(filepath.Join(dataDir, fileName))
	return err == nil
}
