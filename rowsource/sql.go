package rowsource

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLRow adapts the current row of *sql.Rows to Row.
// Call Scan after each rows.Next.
type SQLRow struct {
	MapRow
	columns []string
}

// NewSQLRow prepares a row view for the columns of rows
func NewSQLRow(rows *sql.Rows) (*SQLRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	return &SQLRow{MapRow: make(MapRow, len(columns)), columns: columns}, nil
}

// Scan snapshots the current row
func (r *SQLRow) Scan(rows *sql.Rows) error {
	dest := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return fmt.Errorf("scanning row: %w", err)
	}

	clear(r.MapRow)
	for i, c := range r.columns {
		r.MapRow[c] = dest[i]
	}
	return nil
}

// Columns returns the column names in result order
func (r *SQLRow) Columns() []string {
	return r.columns
}

// Querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execer is satisfied by *sql.DB, *sql.Tx and *sql.Conn
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Query runs query and materializes every result row with factory
func Query[T any](ctx context.Context, db Querier, factory func(Row) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	row, err := NewSQLRow(rows)
	if err != nil {
		return nil, err
	}

	var out []T
	for rows.Next() {
		if err := row.Scan(rows); err != nil {
			return nil, err
		}
		v, err := factory(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(out), err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
