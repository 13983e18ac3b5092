package store

import (
	"context"
	"fmt"
	"strings"
)

// SearchText runs a full-text query over the indexed employee fields.
// Results come back best-first (bm25, lower is better, so the score is
// negated). Queries with characters FTS5 chokes on are retried as a
// LIKE scan over the same fields.
func (s *SQLiteStore) SearchText(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if limit <= 0 {
		limit = 20
	}

	results, err := s.searchFTS(ctx, query, limit)
	if err == nil {
		return results, nil
	}
	return s.searchLike(ctx, query, limit)
}

func (s *SQLiteStore) searchFTS(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.email, e.phone, e.department, e.position,
			e.location, e.summary, e.skills, e.raw_text, e.confidence,
			e.created_at, e.updated_at, e.deleted_at,
			bm25(employees_fts) AS rank
		FROM employees_fts
		JOIN employees e ON e.id = employees_fts.rowid
		WHERE employees_fts MATCH ? AND e.deleted_at IS NULL
		ORDER BY rank LIMIT ?`, ftsQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("fts search: %w", err)
	}
	defer rows.Close()

	var out []*SearchResult
	for rows.Next() {
		var r SearchResult
		var rank float64
		e, err := scanEmployeeWithExtra(rows, &rank)
		if err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		r.Employee = *e
		r.Score = -rank
		out = append(out, &r)
	}
	return out, rows.Err()
}

// searchLike is the degraded path for queries FTS5 cannot parse.
func (s *SQLiteStore) searchLike(ctx context.Context, query string, limit int) ([]*SearchResult, error) {
	pattern := "%" + query + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE deleted_at IS NULL AND (
			name LIKE ? OR position LIKE ? OR department LIKE ?
			OR location LIKE ? OR skills LIKE ? OR raw_text LIKE ?
		)
		ORDER BY id LIMIT ?`,
		pattern, pattern, pattern, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("like search: %w", err)
	}
	defer rows.Close()

	var out []*SearchResult
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		out = append(out, &SearchResult{Employee: *e, Score: 0})
	}
	return out, rows.Err()
}

// ftsQuery quotes each token so user input cannot inject FTS5 syntax.
func ftsQuery(query string) string {
	tokens := strings.Fields(query)
	quoted := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.ReplaceAll(t, `"`, "")
		if t != "" {
			quoted = append(quoted, `"`+t+`"`)
		}
	}
	return strings.Join(quoted, " ")
}
