package infra

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
	st := &State{
		Name:            "scraper-app",
		Region:          "us-east-1",
		Image:           "xerrion/scraper-app:latest",
		KeyName:         "scraper-app-key-abc123",
		KeyPath:         "/tmp/scraper-app-key-abc123.pem",
		SecurityGroupID: "sg-0123456789abcdef0",
		InstanceID:      "i-0123456789abcdef0",
		InstanceIP:      "203.0.113.7",
		AllowHTTP:       true,
		CreatedAt:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, st.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, st, loaded)

	require.NoError(t, RemoveState(path))
	_, err = LoadState(path)
	require.ErrorIs(t, err, ErrStateNotFound)

	// Removing twice is fine.
	require.NoError(t, RemoveState(path))
}

func TestLoadStateRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err := LoadState(path)
	require.ErrorIs(t, err, ErrStateRead)
}
