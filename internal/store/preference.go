package store

import (
	"database/sql"
	"fmt"
)

// PreferenceStore is a per-user key-value store for UI state the client
// wants to survive reloads (expanded supermarkets and sections).
type PreferenceStore struct {
	db *sql.DB
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// Get returns the stored value for key, or empty string when unset.
func (s *PreferenceStore) Get(userID int64, key string) (string, error) {
	var value string
	err := s.db.QueryRow(
		`SELECT value FROM user_preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get preference: %w", err)
	}
	return value, nil
}

func (s *PreferenceStore) Set(userID int64, key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO user_preferences (user_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value`,
		userID, key, value,
	)
	if err != nil {
		return fmt.Errorf("set preference: %w", err)
	}
	return nil
}

func (s *PreferenceStore) Remove(userID int64, key string) error {
	_, err := s.db.Exec(
		`DELETE FROM user_preferences WHERE user_id = ? AND key = ?`,
		userID, key,
	)
	if err != nil {
		return fmt.Errorf("remove preference: %w", err)
	}
	return nil
}
