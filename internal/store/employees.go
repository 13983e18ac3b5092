package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hirelens/hirelens/internal/resolve"
)

const employeeColumns = `id, name, email, phone, department, position,
	location, summary, skills, raw_text, confidence,
	created_at, updated_at, deleted_at`

// AddEmployee inserts a new record and returns its id.
func (s *SQLiteStore) AddEmployee(ctx context.Context, e *Employee) (int64, error) {
	skills, err := marshalSkills(e.Skills)
	if err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (name, email, phone, department, position,
			location, summary, skills, raw_text, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Name, e.Email, e.Phone, e.Department, e.Position,
		e.Location, e.Summary, skills, e.RawText, e.Confidence)
	if err != nil {
		return 0, fmt.Errorf("inserting employee: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading insert id: %w", err)
	}
	e.ID = id
	return id, nil
}

// GetEmployee fetches one record by id. Soft-deleted records are not
// returned.
func (s *SQLiteStore) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees WHERE id = ? AND deleted_at IS NULL`, id)
	e, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching employee %d: %w", id, err)
	}
	return e, nil
}

// UpdateEmployee overwrites the mutable fields of an existing record.
func (s *SQLiteStore) UpdateEmployee(ctx context.Context, e *Employee) error {
	skills, err := marshalSkills(e.Skills)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET
			name = ?, email = ?, phone = ?, department = ?, position = ?,
			location = ?, summary = ?, skills = ?, raw_text = ?,
			confidence = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`,
		e.Name, e.Email, e.Phone, e.Department, e.Position,
		e.Location, e.Summary, skills, e.RawText, e.Confidence, e.ID)
	if err != nil {
		return fmt.Errorf("updating employee %d: %w", e.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of employee %d: %w", e.ID, err)
	}
	if n == 0 {
		return fmt.Errorf("employee %d not found", e.ID)
	}
	return nil
}

// DeleteEmployee soft-deletes a record; the row (and its audit trail)
// stays in the database.
func (s *SQLiteStore) DeleteEmployee(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE employees SET deleted_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("deleting employee %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete of employee %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("employee %d not found", id)
	}
	return nil
}

// ListEmployees returns live records in id order with pagination.
func (s *SQLiteStore) ListEmployees(ctx context.Context, opts ListOpts) ([]*Employee, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	q := `SELECT ` + employeeColumns + ` FROM employees WHERE deleted_at IS NULL`
	args := []any{}
	if opts.Department != "" {
		q += ` AND department = ?`
		args = append(args, opts.Department)
	}
	q += ` ORDER BY id LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing employees: %w", err)
	}
	defer rows.Close()

	var out []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Snapshot returns the identity view the resolver consumes, in id
// order. Callers own the slice; the store never mutates it afterwards.
func (s *SQLiteStore) Snapshot(ctx context.Context) ([]resolve.Identity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, department, position FROM employees
		WHERE deleted_at IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("snapshotting catalog: %w", err)
	}
	defer rows.Close()

	var out []resolve.Identity
	for rows.Next() {
		var ident resolve.Identity
		if err := rows.Scan(&ident.ID, &ident.Name, &ident.Email,
			&ident.Phone, &ident.Department, &ident.Position); err != nil {
			return nil, fmt.Errorf("scanning identity: %w", err)
		}
		ident.DisplayID = FormatDisplayID(ident.ID)
		out = append(out, ident)
	}
	return out, rows.Err()
}

// Stats returns store-level counters.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{Departments: make(map[string]int64)}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM employees WHERE deleted_at IS NULL`)
	if err := row.Scan(&st.EmployeeCount); err != nil {
		return nil, fmt.Errorf("counting employees: %w", err)
	}
	row = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ingest_events`)
	if err := row.Scan(&st.EventCount); err != nil {
		return nil, fmt.Errorf("counting events: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT department, COUNT(*) FROM employees
		WHERE deleted_at IS NULL AND department != ''
		GROUP BY department`)
	if err != nil {
		return nil, fmt.Errorf("counting departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var dept string
		var n int64
		if err := rows.Scan(&dept, &n); err != nil {
			return nil, fmt.Errorf("scanning department count: %w", err)
		}
		st.Departments[dept] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()`)
	if err := row.Scan(&st.DBSizeBytes); err != nil {
		// Size is best-effort; :memory: databases may not report it.
		st.DBSizeBytes = 0
	}
	return st, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*Employee, error) {
	return scanEmployeeWithExtra(row)
}

// scanEmployeeWithExtra scans the employee columns plus trailing extra
// columns (e.g. a search rank).
func scanEmployeeWithExtra(row scanner, extra ...any) (*Employee, error) {
	var e Employee
	var skills string
	var createdAt, updatedAt time.Time
	var deletedAt sql.NullTime
	dest := []any{&e.ID, &e.Name, &e.Email, &e.Phone, &e.Department,
		&e.Position, &e.Location, &e.Summary, &skills, &e.RawText,
		&e.Confidence, &createdAt, &updatedAt, &deletedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &e.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills for employee %d: %w", e.ID, err)
	}
	e.CreatedAt = createdAt
	e.UpdatedAt = updatedAt
	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	return &e, nil
}

func marshalSkills(skills []string) (string, error) {
	if skills == nil {
		skills = []string{}
	}
	b, err := json.Marshal(skills)
	if err != nil {
		return "", fmt.Errorf("encoding skills: %w", err)
	}
	return string(b), nil
}
