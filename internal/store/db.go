package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrSessionNotFound is returned when a session doesn't exist
var ErrSessionNotFound = errors.New("session not found")

// Store is the decision journal: coaching sessions and the feedback they emitted
type Store struct {
	db *sql.DB
}

// newStore creates a Store from a database connection.
func newStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens the SQLite database at path, creating it if necessary.
func Open(path string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// PRAGMA statements only reach the connection that runs them, so foreign
	// keys are switched on through the DSN for every pooled connection.
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := prepare(db); err != nil {
		db.Close()
		return nil, err
	}

	return newStore(db), nil
}

// dsn appends the per-connection pragmas to a database path
func dsn(path string) string {
	return path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// prepare enables foreign keys and runs migrations
func prepare(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// DefaultPath returns the journal location inside the config directory
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "journal.db")
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the connection is alive
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
