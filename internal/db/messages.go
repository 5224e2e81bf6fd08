package db

import (
	"database/sql"

	"github.com/Niloux/chat-module/internal/models"
)

// AddMessage appends a message to the conversation transcript. The log is
// append-only: rows are never updated, and only whole-conversation deletion
// removes them. Reasoning may be empty; it is stored as NULL.
func (db *Database) AddMessage(conversationID int64, role models.Role, content, reasoning string) (int64, error) {
	if !role.Valid() {
		return 0, ErrInvalidRole
	}

	query := `
        INSERT INTO messages (conversation_id, role, content, reasoning_content, created_at)
        VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING message_id`

	var reasoningArg any
	if reasoning != "" {
		reasoningArg = reasoning
	}

	var id int64
	if err := db.db.QueryRow(query, conversationID, role, content, reasoningArg).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// GetConversationMessages returns the full transcript in append order,
// including every system row ever appended.
func (db *Database) GetConversationMessages(conversationID int64) ([]models.Message, error) {
	query := `
        SELECT message_id, conversation_id, role, content, reasoning_content, created_at
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, message_id ASC`

	rows, err := db.db.Query(query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// GetFormattedMessages returns the transcript projected to role and content
// for submission to the completion API, in the same order as
// GetConversationMessages.
func (db *Database) GetFormattedMessages(conversationID int64) ([]models.ChatMessage, error) {
	query := `
        SELECT role, content
        FROM messages
        WHERE conversation_id = ?
        ORDER BY created_at ASC, message_id ASC`

	rows, err := db.db.Query(query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var msg models.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// SearchMessages runs a full-text query over a conversation's messages.
func (db *Database) SearchMessages(conversationID int64, query string) ([]models.Message, error) {
	rows, err := db.db.Query(`
        SELECT m.message_id, m.conversation_id, m.role, m.content, m.reasoning_content, m.created_at
        FROM messages m
        JOIN messages_fts fts ON m.message_id = fts.docid
        WHERE fts.content MATCH ? AND m.conversation_id = ?
        ORDER BY m.created_at ASC, m.message_id ASC`, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func scanMessage(rows *sql.Rows) (models.Message, error) {
	var msg models.Message
	var reasoning sql.NullString
	if err := rows.Scan(&msg.ID, &msg.ConvID, &msg.Role, &msg.Content, &reasoning, &msg.CreatedAt); err != nil {
		return models.Message{}, err
	}
	msg.Reasoning = reasoning.String
	return msg, nil
}
