package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

const pluginColumns = `id, name, COALESCE(vendor, ''), COALESCE(version, ''),
	COALESCE(category, ''), sub_categories, COALESCE(sdk_version, ''),
	COALESCE(cid, ''), path, is_valid, COALESCE(error, ''),
	COALESCE(flags, 0), COALESCE(cardinality, 0), COALESCE(key, ''),
	created_at, updated_at`

func scanPlugin(scan func(dest ...interface{}) error) (*Plugin, error) {
	p := &Plugin{}
	err := scan(
		&p.ID, &p.Name, &p.Vendor, &p.Version,
		&p.Category, &p.SubCategories, &p.SDKVersion,
		&p.CID, &p.Path, &p.IsValid, &p.Error,
		&p.Flags, &p.Cardinality, &p.Key,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// PluginExists reports whether a plugin with the given id is stored
func (s *Store) PluginExists(id string) (bool, error) {
	var count int
	err := s.QueryRow(
		"SELECT COUNT(*) FROM plugins WHERE id = ?",
		func(row *sql.Row) error { return row.Scan(&count) },
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to check plugin existence: %w", err)
	}
	return count > 0, nil
}

// InsertPlugin inserts a new plugin record with created_at = updated_at = now
func (s *Store) InsertPlugin(p *Plugin) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := s.Exec(`
		INSERT INTO plugins (id, name, vendor, version, category, sub_categories,
			sdk_version, cid, path, is_valid, error, flags, cardinality, key,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Vendor, p.Version, p.Category, p.SubCategories,
		p.SDKVersion, p.CID, p.Path, p.IsValid, p.Error, p.Flags, p.Cardinality,
		p.Key, now, now)

	if err != nil {
		return fmt.Errorf("failed to insert plugin %s: %w", p.ID, err)
	}
	return nil
}

// UpdatePlugin replaces all scanner-owned fields of an existing record and
// bumps updated_at. The user-supplied key and created_at are preserved.
func (s *Store) UpdatePlugin(p *Plugin) error {
	now := time.Now().UTC()
	p.UpdatedAt = now

	_, err := s.Exec(`
		UPDATE plugins SET
			name = ?, vendor = ?, version = ?, category = ?, sub_categories = ?,
			sdk_version = ?, cid = ?, path = ?, is_valid = ?, error = ?,
			flags = ?, cardinality = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Vendor, p.Version, p.Category, p.SubCategories,
		p.SDKVersion, p.CID, p.Path, p.IsValid, p.Error,
		p.Flags, p.Cardinality, now, p.ID)

	if err != nil {
		return fmt.Errorf("failed to update plugin %s: %w", p.ID, err)
	}
	return nil
}

// GetPluginByID retrieves a plugin by id, returning (nil, nil) when absent
func (s *Store) GetPluginByID(id string) (*Plugin, error) {
	var p *Plugin
	err := s.QueryRow(
		"SELECT "+pluginColumns+" FROM plugins WHERE id = ?",
		func(row *sql.Row) error {
			var scanErr error
			p, scanErr = scanPlugin(row.Scan)
			return scanErr
		},
		id,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plugin: %w", err)
	}
	return p, nil
}

// ListPlugins retrieves all plugins ordered by name ascending
func (s *Store) ListPlugins() ([]*Plugin, error) {
	var plugins []*Plugin
	err := s.QueryRows(
		"SELECT "+pluginColumns+" FROM plugins ORDER BY name ASC",
		func(rows *sql.Rows) error {
			p, err := scanPlugin(rows.Scan)
			if err != nil {
				return err
			}
			plugins = append(plugins, p)
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plugins: %w", err)
	}
	return plugins, nil
}

// SearchPlugins returns plugins whose name, vendor or path contains the
// term, case-insensitively, ordered by name ascending
func (s *Store) SearchPlugins(term string) ([]*Plugin, error) {
	pattern := "%" + strings.ToLower(term) + "%"

	var plugins []*Plugin
	err := s.QueryRows(`
		SELECT `+pluginColumns+` FROM plugins
		WHERE LOWER(name) LIKE ?
		   OR LOWER(COALESCE(vendor, '')) LIKE ?
		   OR LOWER(path) LIKE ?
		ORDER BY name ASC
	`,
		func(rows *sql.Rows) error {
			p, err := scanPlugin(rows.Scan)
			if err != nil {
				return err
			}
			plugins = append(plugins, p)
			return nil
		},
		pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search plugins: %w", err)
	}
	return plugins, nil
}

// pluginFieldColumns maps updatable field names to their columns. Identity
// and timestamps are never updatable through this path.
var pluginFieldColumns = map[string]string{
	"name":          "name",
	"vendor":        "vendor",
	"version":       "version",
	"category":      "category",
	"subCategories": "sub_categories",
	"sdkVersion":    "sdk_version",
	"cid":           "cid",
	"path":          "path",
	"isValid":       "is_valid",
	"error":         "error",
	"flags":         "flags",
	"cardinality":   "cardinality",
	"key":           "key",
}

// UpdatePluginFields updates a subset of columns on an existing record and
// bumps updated_at. Unknown field names are rejected. Returns the number of
// affected rows (0 when the id is absent).
func (s *Store) UpdatePluginFields(id string, fields map[string]interface{}) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("no fields to update")
	}

	// Deterministic column order keeps the statement stable
	names := make([]string, 0, len(fields))
	for name := range fields {
		if _, ok := pluginFieldColumns[name]; !ok {
			return 0, fmt.Errorf("unknown plugin field: %s", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	sets := make([]string, 0, len(names)+1)
	args := make([]interface{}, 0, len(names)+2)
	for _, name := range names {
		sets = append(sets, pluginFieldColumns[name]+" = ?")
		args = append(args, fields[name])
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	affected, err := s.Exec(
		"UPDATE plugins SET "+strings.Join(sets, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update plugin %s: %w", id, err)
	}
	return affected, nil
}

// SetPluginKey sets the user-supplied key field and bumps updated_at.
// Returns the number of affected rows (0 when the id is absent).
func (s *Store) SetPluginKey(id, key string) (int64, error) {
	affected, err := s.Exec(
		"UPDATE plugins SET key = ?, updated_at = ? WHERE id = ?",
		key, time.Now().UTC(), id,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set plugin key: %w", err)
	}
	return affected, nil
}

// DeletePlugin removes a plugin by id, returning the number of removed rows
func (s *Store) DeletePlugin(id string) (int64, error) {
	affected, err := s.Exec("DELETE FROM plugins WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete plugin %s: %w", id, err)
	}
	return affected, nil
}

// DeleteAllPlugins removes every plugin record
func (s *Store) DeleteAllPlugins() (int64, error) {
	affected, err := s.Exec("DELETE FROM plugins")
	if err != nil {
		return 0, fmt.Errorf("failed to delete plugins: %w", err)
	}
	return affected, nil
}

// PluginStats summarizes the stored plugin set
type PluginStats struct {
	Total      int
	Valid      int
	Invalid    int
	Vendors    int
	LastUpdate time.Time
}

// GetPluginStats returns record counts and the most recent update time
func (s *Store) GetPluginStats() (*PluginStats, error) {
	stats := &PluginStats{}
	err := s.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN is_valid THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT NULLIF(vendor, ''))
		FROM plugins
	`, func(row *sql.Row) error {
		return row.Scan(&stats.Total, &stats.Valid, &stats.Vendors)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get plugin stats: %w", err)
	}
	stats.Invalid = stats.Total - stats.Valid

	if stats.Total > 0 {
		var last time.Time
		err = s.QueryRow(
			"SELECT updated_at FROM plugins ORDER BY updated_at DESC LIMIT 1",
			func(row *sql.Row) error { return row.Scan(&last) },
		)
		if err != nil && err != sql.ErrNoRows {
			return nil, fmt.Errorf("failed to get plugin stats: %w", err)
		}
		stats.LastUpdate = last
	}
	return stats, nil
}
