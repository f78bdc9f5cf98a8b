package config

import (
	"errors"
	"os"
	"time"

	"github.com/goccy/go-json"
)

// State is the small piece of mutable data the sync keeps between runs.
// It lives in its own file so configuration itself can stay immutable.
type State struct {
	LastSync *time.Time `json:"last_sync"`
}

func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &State{}, nil
		}
		return nil, err
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func SaveState(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
