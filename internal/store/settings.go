package store

import (
	"database/sql"
	"fmt"
	"time"
)

const settingColumns = `id, key, value, COALESCE(description, ''), created_at, updated_at`

func scanSetting(scan func(dest ...interface{}) error) (*Setting, error) {
	st := &Setting{}
	err := scan(&st.ID, &st.Key, &st.Value, &st.Description, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListSettings retrieves all settings ordered by key
func (s *Store) ListSettings() ([]*Setting, error) {
	var settings []*Setting
	err := s.QueryRows(
		"SELECT "+settingColumns+" FROM settings ORDER BY key ASC",
		func(rows *sql.Rows) error {
			st, err := scanSetting(rows.Scan)
			if err != nil {
				return err
			}
			settings = append(settings, st)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// GetSetting retrieves a setting by key, returning (nil, nil) when absent
func (s *Store) GetSetting(key string) (*Setting, error) {
	var st *Setting
	err := s.QueryRow(
		"SELECT "+settingColumns+" FROM settings WHERE key = ?",
		func(row *sql.Row) error {
			var scanErr error
			st, scanErr = scanSetting(row.Scan)
			return scanErr
		},
		key,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return st, nil
}

// SetSetting inserts or updates a setting by key, refreshing updated_at on
// every write. The description is only written on first insert unless a
// non-empty value is supplied.
func (s *Store) SetSetting(key, value, description string) error {
	now := time.Now().UTC()
	_, err := s.Exec(`
		INSERT INTO settings (key, value, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			description = CASE WHEN excluded.description != ''
				THEN excluded.description ELSE settings.description END,
			updated_at = excluded.updated_at
	`, key, value, description, now, now)

	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// CountSettings returns the number of stored settings
func (s *Store) CountSettings() (int, error) {
	var count int
	err := s.QueryRow(
		"SELECT COUNT(*) FROM settings",
		func(row *sql.Row) error { return row.Scan(&count) },
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count settings: %w", err)
	}
	return count, nil
}
