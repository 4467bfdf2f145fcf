// Package store runs the active-sessions query against SQL Server.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"erpsessions/internal/sessions"
)

// Store reads live sessions through a pooled *sql.DB. Each call checks out one
// connection and returns it when the rows are drained.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// ActiveSessions executes the sessions query and returns the raw rows.
// Connection, execution and iteration failures wrap sessions.ErrConnection,
// sessions.ErrQueryExecution and sessions.ErrFetch respectively. A row that
// fails to scan is returned with Err set.
func (s *Store) ActiveSessions(ctx context.Context) ([]sessions.RawRow, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sessions.ErrConnection, err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, ActiveSessionsQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sessions.ErrQueryExecution, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns: %w", sessions.ErrFetch, err)
	}

	var out []sessions.RawRow
	for rows.Next() {
		out = append(out, scanRow(rows, columns))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", sessions.ErrFetch, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(rows scanner, columns []string) sessions.RawRow {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return sessions.RawRow{Columns: columns, Err: err}
	}
	return sessions.RawRow{Columns: columns, Values: values}
}
