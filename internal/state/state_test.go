package state

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastUsernameRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := Open(path)
	require.NoError(t, err)

	username, err := store.LastUsername()
	require.NoError(t, err)
	assert.Empty(t, username, "fresh store has no last username")

	require.NoError(t, store.SetLastUsername("octocat"))
	require.NoError(t, store.Close())

	// Survives a restart.
	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	username, err = store.LastUsername()
	require.NoError(t, err)
	assert.Equal(t, "octocat", username)
}

func TestSetLastUsernameOverwrites(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SetLastUsername("octocat"))
	require.NoError(t, store.SetLastUsername("torvalds"))

	username, err := store.LastUsername()
	require.NoError(t, err)
	assert.Equal(t, "torvalds", username)
}
