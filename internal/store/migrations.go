package store

import "fmt"

// migrate creates the schema if it doesn't exist. Every statement is
// idempotent, so re-running on an existing database is safe.
func (s *SQLiteStore) migrate() error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS employees (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			name        TEXT NOT NULL DEFAULT '',
			email       TEXT NOT NULL DEFAULT '',
			phone       TEXT NOT NULL DEFAULT '',
			department  TEXT NOT NULL DEFAULT '',
			position    TEXT NOT NULL DEFAULT '',
			location    TEXT NOT NULL DEFAULT '',
			summary     TEXT NOT NULL DEFAULT '',
			skills      TEXT NOT NULL DEFAULT '[]',
			raw_text    TEXT NOT NULL DEFAULT '',
			confidence  REAL NOT NULL DEFAULT 0,
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			deleted_at  TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_employees_department
			ON employees(department) WHERE deleted_at IS NULL`,
		`CREATE INDEX IF NOT EXISTS idx_employees_email
			ON employees(email) WHERE deleted_at IS NULL`,

		`CREATE VIRTUAL TABLE IF NOT EXISTS employees_fts USING fts5(
			name, position, department, location, skills, raw_text,
			content='employees', content_rowid='id'
		)`,
		`CREATE TRIGGER IF NOT EXISTS employees_fts_insert
			AFTER INSERT ON employees BEGIN
			INSERT INTO employees_fts(rowid, name, position, department, location, skills, raw_text)
			VALUES (new.id, new.name, new.position, new.department, new.location, new.skills, new.raw_text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS employees_fts_delete
			AFTER DELETE ON employees BEGIN
			INSERT INTO employees_fts(employees_fts, rowid, name, position, department, location, skills, raw_text)
			VALUES ('delete', old.id, old.name, old.position, old.department, old.location, old.skills, old.raw_text);
		END`,
		`CREATE TRIGGER IF NOT EXISTS employees_fts_update
			AFTER UPDATE ON employees BEGIN
			INSERT INTO employees_fts(employees_fts, rowid, name, position, department, location, skills, raw_text)
			VALUES ('delete', old.id, old.name, old.position, old.department, old.location, old.skills, old.raw_text);
			INSERT INTO employees_fts(rowid, name, position, department, location, skills, raw_text)
			VALUES (new.id, new.name, new.position, new.department, new.location, new.skills, new.raw_text);
		END`,

		`CREATE TABLE IF NOT EXISTS ingest_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id      TEXT NOT NULL DEFAULT '',
			event_type  TEXT NOT NULL,
			employee_id INTEGER NOT NULL DEFAULT 0,
			detail      TEXT NOT NULL DEFAULT '',
			created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_employee
			ON ingest_events(employee_id)`,
	}

	for _, stmt := range ddl {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}
	return nil
}
