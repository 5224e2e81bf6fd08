package db

import (
	"database/sql"
	"errors"

	"github.com/Niloux/chat-module/internal/models"
)

// SavePrompt inserts a prompt template, or, when the (user, name) pair
// already exists, overwrites its content and returns the existing id.
func (db *Database) SavePrompt(userID int64, name, content string) (int64, error) {
	query := `
        INSERT INTO prompt_templates (user_id, name, content, created_at)
        VALUES (?, ?, ?, CURRENT_TIMESTAMP)
        RETURNING template_id`

	var id int64
	err := db.db.QueryRow(query, userID, name, content).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !isUniqueViolation(err) {
		return 0, err
	}

	// Name taken: update in place, then fetch the original id.
	if _, err := db.db.Exec(
		"UPDATE prompt_templates SET content = ? WHERE user_id = ? AND name = ?",
		content, userID, name); err != nil {
		return 0, err
	}
	err = db.db.QueryRow(
		"SELECT template_id FROM prompt_templates WHERE user_id = ? AND name = ?",
		userID, name).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (db *Database) GetPrompt(templateID int64) (*models.PromptTemplate, error) {
	query := `
        SELECT template_id, user_id, name, content, created_at
        FROM prompt_templates
        WHERE template_id = ?`

	var tmpl models.PromptTemplate
	err := db.db.QueryRow(query, templateID).Scan(&tmpl.ID, &tmpl.UserID, &tmpl.Name, &tmpl.Content, &tmpl.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// GetUserPrompts returns the user's templates ordered by name.
func (db *Database) GetUserPrompts(userID int64) ([]models.PromptTemplate, error) {
	query := `
        SELECT template_id, user_id, name, content, created_at
        FROM prompt_templates
        WHERE user_id = ?
        ORDER BY name ASC`

	rows, err := db.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]models.PromptTemplate, 0)
	for rows.Next() {
		var tmpl models.PromptTemplate
		if err := rows.Scan(&tmpl.ID, &tmpl.UserID, &tmpl.Name, &tmpl.Content, &tmpl.CreatedAt); err != nil {
			return nil, err
		}
		templates = append(templates, tmpl)
	}
	return templates, rows.Err()
}

// DeletePrompt reports whether a row was affected.
func (db *Database) DeletePrompt(templateID int64) (bool, error) {
	result, err := db.db.Exec("DELETE FROM prompt_templates WHERE template_id = ?", templateID)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
