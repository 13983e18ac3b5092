// Package store provides the SQLite + FTS5 storage layer for the
// employee catalog.
//
// All data lives in a single SQLite database file:
// - Employee records extracted from resumes, with per-record confidence
// - An FTS5 full-text index over the searchable fields
// - An append-only ingest event log for auditability
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hirelens/hirelens/internal/resolve"
)

// DefaultDBPath is the default database location.
const DefaultDBPath = "~/.hirelens/hirelens.db"

// Employee is one stored catalog record.
type Employee struct {
	ID         int64
	Name       string
	Email      string
	Phone      string
	Department string
	Position   string
	Location   string
	Summary    string
	Skills     []string
	RawText    string  // original resume text, kept for re-verification
	Confidence float64 // overall extraction confidence at ingest time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// DisplayID renders the zero-padded external identifier ("EMP-0042").
func (e *Employee) DisplayID() string {
	return FormatDisplayID(e.ID)
}

// FormatDisplayID renders the external id for a raw record id.
func FormatDisplayID(id int64) string {
	return fmt.Sprintf("EMP-%04d", id)
}

// IngestEvent is one entry in the append-only audit log.
type IngestEvent struct {
	ID         int64
	JobID      string // uuid of the ingest/update job
	EventType  string // "ingest", "update", "delete", "resolve"
	EmployeeID int64
	Detail     string
	CreatedAt  time.Time
}

// ListOpts controls pagination and filtering for List operations.
type ListOpts struct {
	Limit      int
	Offset     int
	Department string // filter by department, empty = all
}

// SearchResult is one full-text hit with its rank score.
type SearchResult struct {
	Employee Employee
	Score    float64
}

// Stats holds observability counters for the store.
type Stats struct {
	EmployeeCount int64
	EventCount    int64
	Departments   map[string]int64
	DBSizeBytes   int64
}

// Config holds configuration for NewStore.
type Config struct {
	DBPath string
}

// Store defines the catalog storage interface.
type Store interface {
	// Employees
	AddEmployee(ctx context.Context, e *Employee) (int64, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context, opts ListOpts) ([]*Employee, error)

	// Snapshot returns the read-only identity view the resolver
	// consumes, in catalog (id) order.
	Snapshot(ctx context.Context) ([]resolve.Identity, error)

	// Search
	SearchText(ctx context.Context, query string, limit int) ([]*SearchResult, error)

	// Events
	LogEvent(ctx context.Context, ev *IngestEvent) error
	ListEvents(ctx context.Context, employeeID int64, limit int) ([]*IngestEvent, error)

	// Observability
	Stats(ctx context.Context) (*Stats, error)

	// Maintenance
	Vacuum(ctx context.Context) error
	Close() error
}

// SQLiteStore implements Store using SQLite + FTS5.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new SQLite-backed Store.
// Pass ":memory:" for in-memory databases (testing).
func NewStore(cfg Config) (Store, error) {
	if cfg.DBPath == "" {
		cfg.DBPath = expandPath(DefaultDBPath)
	}

	if cfg.DBPath != ":memory:" {
		dir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, dbPath: cfg.DBPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Vacuum runs VACUUM on the database. Manual only — never auto-vacuum.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// expandPath expands ~ to home directory.
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
