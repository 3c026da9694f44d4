package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// State is what the editor remembers between runs.
type State struct {
	Version   int    `toml:"version"`
	LastTab   string `toml:"last_tab"`
	LastLevel string `toml:"last_level,omitempty"`
	Brush     string `toml:"brush,omitempty"`
	Stage     string `toml:"stage,omitempty"`
}

func DefaultState() *State {
	return &State{Version: 1, LastTab: "Enemies", Brush: "Road"}
}

// LoadState reads the state file. A missing file gives the default state.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultState(), nil
		}
		return nil, fmt.Errorf("reading state file: %w", err)
	}

	state := DefaultState()
	if err := toml.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing state file: %w", err)
	}
	return state, nil
}

// SaveState writes the state file atomically (write temp + rename).
func SaveState(path string, state *State) error {
	data, err := toml.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating state dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming state file: %w", err)
	}
	return nil
}
