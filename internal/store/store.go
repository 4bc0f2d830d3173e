package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/franz/vst-librarian/internal/util"
)

const currentSchemaVersion = 1

// initState tracks the lazy schema bootstrap state machine:
// Uninitialized -> Initializing -> Ready.
type initState int

const (
	stateUninitialized initState = iota
	stateInitializing
	stateReady
)

// Store owns the single persistent SQLite connection for the plugin
// library. Schema is created lazily: the first query that fails with a
// missing-table condition triggers initialization and a single retry.
type Store struct {
	db *sql.DB

	mu    sync.Mutex
	state initState
}

// Open opens or creates a SQLite database at the given path. The
// containing directory is created if absent. Schema creation is deferred
// until Initialize is called or a query trips the missing-table retry.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %v", util.ErrIO, err)
		}
	}

	// Open with pragmas for performance and reliability
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite works best with a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying database connection for custom queries
func (s *Store) DB() *sql.DB {
	return s.db
}

// Initialize ensures the plugins and settings tables exist. It is
// idempotent and safe to call multiple times; once the store is Ready,
// subsequent calls are no-ops.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateReady {
		return nil
	}
	s.state = stateInitializing

	if err := s.migrate(); err != nil {
		s.state = stateUninitialized
		return err
	}

	s.state = stateReady
	return nil
}

// classify maps a raw database error onto the error taxonomy. Missing-table
// detection is by message because the driver reports it as a generic
// SQLITE_ERROR; this is the single place that inspects error text.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "no such table") {
		return fmt.Errorf("%w: %v", util.ErrMissingTable, err)
	}
	return fmt.Errorf("%w: %v", util.ErrQuery, err)
}

// run executes op, lazily creating the schema and retrying exactly once
// when op fails with a missing-table condition. A second failure after
// the retry propagates to the caller.
func (s *Store) run(op func() error) error {
	err := classify(op())
	if err == nil {
		return nil
	}
	if !errors.Is(err, util.ErrMissingTable) {
		return err
	}

	util.DebugLog("Schema missing, creating tables and retrying")
	if initErr := s.Initialize(); initErr != nil {
		return fmt.Errorf("schema bootstrap failed: %w", initErr)
	}
	return classify(op())
}

// Exec runs a statement through the bootstrap-retry path and returns the
// affected row count.
func (s *Store) Exec(query string, args ...interface{}) (int64, error) {
	var affected int64
	err := s.run(func() error {
		res, err := s.db.Exec(query, args...)
		if err != nil {
			return err
		}
		affected, _ = res.RowsAffected()
		return nil
	})
	return affected, err
}

// QueryRows runs a query through the bootstrap-retry path, invoking scan
// once per result row.
func (s *Store) QueryRows(query string, scan func(*sql.Rows) error, args ...interface{}) error {
	return s.run(func() error {
		rows, err := s.db.Query(query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// QueryRow runs a single-row query through the bootstrap-retry path.
// A result of sql.ErrNoRows is passed through to scan's caller unchanged
// so entity methods can map it to their own absence semantics.
func (s *Store) QueryRow(query string, scan func(*sql.Row) error, args ...interface{}) error {
	var noRows bool
	err := s.run(func() error {
		noRows = false
		err := scan(s.db.QueryRow(query, args...))
		if err == sql.ErrNoRows {
			noRows = true
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	if noRows {
		return sql.ErrNoRows
	}
	return nil
}

// migrate applies database migrations
func (s *Store) migrate() error {
	version, err := s.getSchemaVersion()
	if err != nil {
		return err
	}

	if version >= currentSchemaVersion {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if version < 1 {
		if _, err := tx.Exec(schemaV1); err != nil {
			return fmt.Errorf("failed to apply schema v1: %w", err)
		}
		if err := s.setSchemaVersion(tx, 1); err != nil {
			return fmt.Errorf("failed to set schema version: %w", err)
		}
	}

	// Future migrations would go here:
	// if version < 2 { ... }

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}

// getSchemaVersion returns the current schema version
func (s *Store) getSchemaVersion() (int, error) {
	var exists int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM sqlite_master
		WHERE type='table' AND name='schema_version'
	`).Scan(&exists)
	if err != nil {
		return 0, err
	}

	if exists == 0 {
		// No schema yet
		return 0, nil
	}

	var version int
	err = s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}

	return version, nil
}

// setSchemaVersion records a schema version in a transaction
func (s *Store) setSchemaVersion(tx *sql.Tx, version int) error {
	_, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version)
	return err
}

// Plugin represents one logical audio plugin, possibly backed by several
// filesystem paths. Path and SubCategories hold the stored encodings
// (plain string or JSON-array string, and JSON-array string respectively);
// decoding back to semantic values is the service layer's job.
type Plugin struct {
	ID            string
	Name          string
	Vendor        string
	Version       string
	Category      string
	SubCategories string
	SDKVersion    string
	CID           string
	Path          string
	IsValid       bool
	Error         string
	Flags         int64
	Cardinality   int64
	Key           string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Setting represents one key/value configuration entry
type Setting struct {
	ID          int64
	Key         string
	Value       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
