package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"
)

// Domain conditions the executor must distinguish from transport failures:
// these never trigger the fallback path.
var (
	ErrDuplicateEmail = errors.New("a user with that email already exists")
	ErrUserNotFound   = errors.New("user not found")
	ErrAppNotFound    = errors.New("app not found")
)

// Store is the backend datastore handle. Connection is lazy: the first
// operation triggers the connect attempt and the outcome (including failure)
// is cached for the process lifetime.
type Store struct {
	path string

	mu        sync.Mutex
	db        *sql.DB
	attempted bool
	connErr   error
}

// New creates a store handle for the database at path. No I/O happens until
// the first operation.
func New(path string) *Store {
	return &Store{path: path}
}

// ensure opens the database and creates the schema on first use. Subsequent
// calls return the cached outcome.
func (s *Store) ensure() (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attempted {
		return s.db, s.connErr
	}
	s.attempted = true

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		s.connErr = fmt.Errorf("failed to create data directory: %w", err)
		return nil, s.connErr
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		s.connErr = fmt.Errorf("failed to open database: %w", err)
		return nil, s.connErr
	}

	if err := db.Ping(); err != nil {
		db.Close()
		s.connErr = fmt.Errorf("failed to ping database: %w", err)
		return nil, s.connErr
	}

	if err := initialize(db); err != nil {
		db.Close()
		s.connErr = fmt.Errorf("failed to initialize database: %w", err)
		return nil, s.connErr
	}

	s.db = db
	return s.db, nil
}

func initialize(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		job_role TEXT,
		start_date TEXT,
		"group" TEXT,
		team TEXT
	);
	CREATE TABLE IF NOT EXISTS apps (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		category TEXT,
		vendor TEXT,
		tier TEXT,
		owner_team TEXT,
		sso_required INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'active'
	);
	CREATE TABLE IF NOT EXISTS user_app_assignments (
		user_id INTEGER NOT NULL REFERENCES users(id),
		app_id INTEGER NOT NULL REFERENCES apps(id),
		role_in_app TEXT NOT NULL DEFAULT 'Member',
		license_type TEXT NOT NULL DEFAULT 'Seat',
		access_level TEXT NOT NULL DEFAULT 'Default',
		status TEXT NOT NULL DEFAULT 'active',
		assigned_on TEXT NOT NULL,
		PRIMARY KEY (user_id, app_id)
	);
	CREATE INDEX IF NOT EXISTS idx_users_name ON users(name);
	CREATE INDEX IF NOT EXISTS idx_apps_category ON apps(category);
	`

	_, err := db.Exec(schema)
	return err
}

// Ping reports whether the datastore is reachable.
func (s *Store) Ping(ctx context.Context) error {
	db, err := s.ensure()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

// Close releases the underlying connection if one was opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// ClampLimit bounds a row limit to [1,100], the range every list operation
// accepts. Out-of-range values are clamped rather than rejected.
func ClampLimit(limit int) int {
	if limit < 1 {
		return 1
	}
	if limit > 100 {
		return 100
	}
	return limit
}

// isUniqueViolation detects sqlite unique-constraint failures from the
// driver's error text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
