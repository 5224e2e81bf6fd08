package db

import (
	"fmt"
	"testing"

	"github.com/Niloux/chat-module/internal/models"
	"github.com/stretchr/testify/require"
)

func TestMessagesKeepAppendOrder(t *testing.T) {
	database := newTestDB(t)

	convID, err := database.CreateConversation(1, "t1", "deepseek-chat")
	require.NoError(t, err)

	roles := []models.Role{models.RoleSystem, models.RoleUser, models.RoleAssistant, models.RoleUser, models.RoleAssistant}
	for i, role := range roles {
		_, err := database.AddMessage(convID, role, fmt.Sprintf("message %d", i), "")
		require.NoError(t, err)
	}

	history, err := database.GetConversationMessages(convID)
	require.NoError(t, err)
	require.Len(t, history, len(roles))
	for i, msg := range history {
		require.Equal(t, roles[i], msg.Role)
		require.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
	}

	// The API projection has the same entries in the same order, with
	// reasoning always absent.
	projection, err := database.GetFormattedMessages(convID)
	require.NoError(t, err)
	require.Len(t, projection, len(roles))
	for i, msg := range projection {
		require.Equal(t, history[i].Role, msg.Role)
		require.Equal(t, history[i].Content, msg.Content)
	}
}

func TestReasoningStoredButStrippedFromProjection(t *testing.T) {
	database := newTestDB(t)

	convID, err := database.CreateConversation(1, "t1", "deepseek-reasoner")
	require.NoError(t, err)
	_, err = database.AddMessage(convID, models.RoleAssistant, "42", "thinking step by step")
	require.NoError(t, err)

	history, err := database.GetConversationMessages(convID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "thinking step by step", history[0].Reasoning)

	projection, err := database.GetFormattedMessages(convID)
	require.NoError(t, err)
	require.Len(t, projection, 1)
	require.Equal(t, models.ChatMessage{Role: models.RoleAssistant, Content: "42"}, projection[0])
}

func TestAddMessageRejectsUnknownRole(t *testing.T) {
	database := newTestDB(t)

	convID, err := database.CreateConversation(1, "t1", "deepseek-chat")
	require.NoError(t, err)

	_, err = database.AddMessage(convID, models.Role("moderator"), "hello", "")
	require.ErrorIs(t, err, ErrInvalidRole)

	history, err := database.GetConversationMessages(convID)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestMultipleSystemRowsAreKept(t *testing.T) {
	database := newTestDB(t)

	convID, err := database.CreateConversation(1, "t1", "deepseek-chat")
	require.NoError(t, err)

	_, err = database.AddMessage(convID, models.RoleSystem, "first prompt", "")
	require.NoError(t, err)
	_, err = database.AddMessage(convID, models.RoleSystem, "second prompt", "")
	require.NoError(t, err)

	history, err := database.GetConversationMessages(convID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "first prompt", history[0].Content)
	require.Equal(t, "second prompt", history[1].Content)
}

func TestSearchMessages(t *testing.T) {
	database := newTestDB(t)

	convID, err := database.CreateConversation(1, "t1", "deepseek-chat")
	require.NoError(t, err)
	otherID, err := database.CreateConversation(1, "t2", "deepseek-chat")
	require.NoError(t, err)

	_, err = database.AddMessage(convID, models.RoleUser, "how is the weather today", "")
	require.NoError(t, err)
	_, err = database.AddMessage(convID, models.RoleAssistant, "it is sunny", "")
	require.NoError(t, err)
	_, err = database.AddMessage(otherID, models.RoleUser, "weather elsewhere", "")
	require.NoError(t, err)

	matches, err := database.SearchMessages(convID, "weather")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, convID, matches[0].ConvID)
	require.Equal(t, "how is the weather today", matches[0].Content)
}
