package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/louisbranch/hollowmere/internal/kernel/storage"
)

// RunQuery executes an ontology-authored read statement with :name
// placeholders bound from the params map. Statements come from trusted
// ontology authors and run verbatim.
func (s *Store) RunQuery(ctx context.Context, statement string, params map[string]any) ([]storage.Row, error) {
	rows, err := s.sqlDB.QueryContext(ctx, statement, namedArgs(statement, params)...)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()
	return collectRows(rows)
}

// RunWrite executes an ontology-authored write statement. The returned
// rows carry the affected-row count under "rows_affected".
func (s *Store) RunWrite(ctx context.Context, statement string, params map[string]any) ([]storage.Row, error) {
	result, err := s.sqlDB.ExecContext(ctx, statement, namedArgs(statement, params)...)
	if err != nil {
		return nil, fmt.Errorf("run write: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	return []storage.Row{{"rows_affected": affected}}, nil
}

// namedArgs binds only the placeholders the statement references; binding
// unused names is a driver error.
func namedArgs(statement string, params map[string]any) []any {
	names := placeholderNames(statement)
	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, sql.Named(name, params[name]))
	}
	return args
}

// placeholderNames scans the statement for :name placeholders, skipping
// single-quoted string literals. Each name appears once.
func placeholderNames(statement string) []string {
	var (
		names    []string
		seen     = map[string]bool{}
		inString bool
	)
	for i := 0; i < len(statement); i++ {
		char := statement[i]
		if char == '\'' {
			inString = !inString
			continue
		}
		if inString || char != ':' {
			continue
		}
		start := i + 1
		end := start
		for end < len(statement) && isIdentifierChar(statement[end]) {
			end++
		}
		if end == start {
			continue
		}
		name := statement[start:end]
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
		i = end - 1
	}
	return names
}

func isIdentifierChar(char byte) bool {
	switch {
	case char >= 'a' && char <= 'z':
		return true
	case char >= 'A' && char <= 'Z':
		return true
	case char >= '0' && char <= '9':
		return true
	case char == '_':
		return true
	}
	return false
}

func collectRows(rows *sql.Rows) ([]storage.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("row columns: %w", err)
	}

	var collected []storage.Row
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(storage.Row, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(values[i])
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return collected, nil
}

// normalizeValue converts driver byte slices to strings so row values
// compare and render predictably.
func normalizeValue(value any) any {
	if bytes, ok := value.([]byte); ok {
		return string(bytes)
	}
	return value
}
