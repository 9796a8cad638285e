// Package store persists graded submissions, extracted error occurrences,
// and externally computed adaptation priorities in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store holds the database handle and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies pragmas, and
// creates the schema if needed.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ErrorLogRepo returns the error occurrence repository backed by this store.
func (s *Store) ErrorLogRepo() ErrorLogRepo {
	return &errorLogRepo{db: s.db}
}

// AdaptationRepo returns the adaptation priority repository backed by this store.
func (s *Store) AdaptationRepo() AdaptationRepo {
	return &adaptationRepo{db: s.db}
}

// ReportRepo returns the graded report repository backed by this store.
func (s *Store) ReportRepo() ReportRepo {
	return &reportRepo{db: s.db}
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func createSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS error_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			error_type TEXT NOT NULL,
			category TEXT NOT NULL,
			pattern TEXT NOT NULL DEFAULT '',
			learner_production TEXT NOT NULL DEFAULT '',
			correct_form TEXT NOT NULL DEFAULT '',
			confidence REAL NOT NULL DEFAULT 0,
			severity TEXT NOT NULL DEFAULT 'low',
			input_type TEXT NOT NULL DEFAULT 'text',
			feedback_type TEXT NOT NULL DEFAULT 'error',
			context TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_error_logs_user ON error_logs(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS adaptation_priorities (
			user_id TEXT NOT NULL,
			pattern_key TEXT NOT NULL,
			tier INTEGER NOT NULL DEFAULT 0,
			trending TEXT NOT NULL DEFAULT 'stable',
			intervention_count INTEGER NOT NULL DEFAULT 0,
			last_intervention_at TIMESTAMP,
			intervention_successes INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (user_id, pattern_key)
		)`,
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			modality TEXT NOT NULL,
			overall_score INTEGER NOT NULL,
			error_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reports_user ON reports(user_id, created_at)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LINGUAKIT_DB environment variable
// 2. $XDG_DATA_HOME/linguakit/linguakit.db
// 3. ~/.local/share/linguakit/linguakit.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LINGUAKIT_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "linguakit", "linguakit.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Reset deletes all rows for a user across every table.
func (s *Store) Reset(ctx context.Context, userID string) error {
	for _, table := range []string{"error_logs", "adaptation_priorities", "reports"} {
		if _, err := s.db.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE user_id = ?", table), userID); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
