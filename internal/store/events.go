package store

import (
	"context"
	"fmt"
)

// LogEvent appends one entry to the ingest audit log.
func (s *SQLiteStore) LogEvent(ctx context.Context, ev *IngestEvent) error {
	if ev.EventType == "" {
		return fmt.Errorf("event type required")
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ingest_events (job_id, event_type, employee_id, detail)
		VALUES (?, ?, ?, ?)`,
		ev.JobID, ev.EventType, ev.EmployeeID, ev.Detail)
	if err != nil {
		return fmt.Errorf("logging event: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		ev.ID = id
	}
	return nil
}

// ListEvents returns the newest events first. employeeID 0 means all
// employees.
func (s *SQLiteStore) ListEvents(ctx context.Context, employeeID int64, limit int) ([]*IngestEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT id, job_id, event_type, employee_id, detail, created_at
		FROM ingest_events`
	args := []any{}
	if employeeID > 0 {
		q += ` WHERE employee_id = ?`
		args = append(args, employeeID)
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []*IngestEvent
	for rows.Next() {
		var ev IngestEvent
		if err := rows.Scan(&ev.ID, &ev.JobID, &ev.EventType,
			&ev.EmployeeID, &ev.Detail, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		out = append(out, &ev)
	}
	return out, rows.Err()
}
