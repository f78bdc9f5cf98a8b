package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	ts := time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, SaveState(path, &State{LastSync: &ts}))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	require.NotNil(t, loaded.LastSync)
	assert.True(t, loaded.LastSync.Equal(ts))
}

func TestLoadStateMissingFile(t *testing.T) {
	st, err := LoadState(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.NoError(t, err)
	assert.Nil(t, st.LastSync)
}

func TestLoadStateCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, SaveState(path, &State{}))

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := LoadState(path)
	require.Error(t, err)
}
