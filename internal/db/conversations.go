package db

import (
	"database/sql"
	"errors"

	"github.com/Niloux/chat-module/internal/models"
)

// CreateConversation does not check that userID exists; an orphaned
// conversation is representable.
func (db *Database) CreateConversation(userID int64, title, model string) (int64, error) {
	query := `
        INSERT INTO conversations (user_id, title, model, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING conversation_id`

	var id int64
	if err := db.db.QueryRow(query, userID, title, model).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (db *Database) GetConversation(conversationID int64) (*models.Conversation, error) {
	query := `
        SELECT conversation_id, user_id, title, model, created_at
        FROM conversations
        WHERE conversation_id = ?`

	var conv models.Conversation
	err := db.db.QueryRow(query, conversationID).Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Model, &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetUserConversations returns the user's conversations, most recent first.
func (db *Database) GetUserConversations(userID int64) ([]models.Conversation, error) {
	query := `
        SELECT conversation_id, user_id, title, model, created_at
        FROM conversations
        WHERE user_id = ?
        ORDER BY created_at DESC, conversation_id DESC`

	rows, err := db.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var conv models.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.Model, &conv.CreatedAt); err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// UpdateConversationModel reports whether a row was affected.
func (db *Database) UpdateConversationModel(conversationID int64, model string) (bool, error) {
	result, err := db.db.Exec("UPDATE conversations SET model = ? WHERE conversation_id = ?", model, conversationID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteConversation removes a conversation and all of its messages in a
// single transaction. Reports whether the conversation row was affected.
func (db *Database) DeleteConversation(conversationID int64) (bool, error) {
	tx, err := db.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages WHERE conversation_id = ?", conversationID); err != nil {
		return false, err
	}

	result, err := tx.Exec("DELETE FROM conversations WHERE conversation_id = ?", conversationID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}
