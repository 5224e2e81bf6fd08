package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSchemaIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	database, err := New(path)
	require.NoError(t, err)
	_, err = database.CreateUser("alice", "k1")
	require.NoError(t, err)
	require.NoError(t, database.Close())

	// Reopening an existing database must not fail or lose rows.
	database, err = New(path)
	require.NoError(t, err)
	defer database.Close()

	user, err := database.GetUser("alice")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
}
