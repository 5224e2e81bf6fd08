package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSavePromptUpsertKeepsID(t *testing.T) {
	database := newTestDB(t)

	userID, err := database.CreateUser("alice", "k1")
	require.NoError(t, err)

	id, err := database.SavePrompt(userID, "assistant", "v1")
	require.NoError(t, err)

	// Same name again: content replaced, id stable, no duplicate row.
	again, err := database.SavePrompt(userID, "assistant", "v2")
	require.NoError(t, err)
	require.Equal(t, id, again)

	prompts, err := database.GetUserPrompts(userID)
	require.NoError(t, err)
	require.Len(t, prompts, 1)
	require.Equal(t, "assistant", prompts[0].Name)
	require.Equal(t, "v2", prompts[0].Content)
}

func TestSavePromptSameNameDifferentUsers(t *testing.T) {
	database := newTestDB(t)

	aliceID, err := database.CreateUser("alice", "k1")
	require.NoError(t, err)
	bobID, err := database.CreateUser("bob", "k2")
	require.NoError(t, err)

	aliceTmpl, err := database.SavePrompt(aliceID, "assistant", "for alice")
	require.NoError(t, err)
	bobTmpl, err := database.SavePrompt(bobID, "assistant", "for bob")
	require.NoError(t, err)
	require.NotEqual(t, aliceTmpl, bobTmpl)

	tmpl, err := database.GetPrompt(bobTmpl)
	require.NoError(t, err)
	require.Equal(t, "for bob", tmpl.Content)
}

func TestGetUserPromptsOrderedByName(t *testing.T) {
	database := newTestDB(t)

	userID, err := database.CreateUser("alice", "k1")
	require.NoError(t, err)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := database.SavePrompt(userID, name, "content")
		require.NoError(t, err)
	}

	prompts, err := database.GetUserPrompts(userID)
	require.NoError(t, err)
	require.Len(t, prompts, 3)
	require.Equal(t, "alpha", prompts[0].Name)
	require.Equal(t, "mid", prompts[1].Name)
	require.Equal(t, "zeta", prompts[2].Name)
}

func TestGetPromptNotFound(t *testing.T) {
	database := newTestDB(t)

	_, err := database.GetPrompt(42)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePrompt(t *testing.T) {
	database := newTestDB(t)

	userID, err := database.CreateUser("alice", "k1")
	require.NoError(t, err)
	id, err := database.SavePrompt(userID, "assistant", "v1")
	require.NoError(t, err)

	deleted, err := database.DeletePrompt(id)
	require.NoError(t, err)
	require.True(t, deleted)

	_, err = database.GetPrompt(id)
	require.ErrorIs(t, err, ErrNotFound)

	deleted, err = database.DeletePrompt(id)
	require.NoError(t, err)
	require.False(t, deleted)
}
