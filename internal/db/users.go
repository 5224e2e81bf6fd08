package db

import (
	"database/sql"
	"errors"

	"github.com/Niloux/chat-module/internal/models"
)

func (db *Database) CreateUser(username, apiKey string) (int64, error) {
	query := `
        INSERT INTO users (username, api_key, created_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        RETURNING user_id`

	var id int64
	if err := db.db.QueryRow(query, username, apiKey).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateUsername
		}
		return 0, err
	}
	return id, nil
}

func (db *Database) GetUser(username string) (*models.User, error) {
	query := `
        SELECT user_id, username, api_key, created_at
        FROM users
        WHERE username = ?`

	var user models.User
	err := db.db.QueryRow(query, username).Scan(&user.ID, &user.Username, &user.APIKey, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (db *Database) GetUserAPIKey(userID int64) (string, error) {
	var apiKey string
	err := db.db.QueryRow("SELECT api_key FROM users WHERE user_id = ?", userID).Scan(&apiKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return apiKey, nil
}

// UpdateUserAPIKey silently succeeds when userID has no matching row;
// callers must not rely on an error signal here.
func (db *Database) UpdateUserAPIKey(userID int64, apiKey string) error {
	_, err := db.db.Exec("UPDATE users SET api_key = ? WHERE user_id = ?", apiKey, userID)
	return err
}
