// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// and column-name-driven row scanning.
package dbx

import (
	"context"
	"database/sql"
	"fmt"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FieldMap pairs column names with scan destinations for one entity. Scanning
// is driven by the result set's column names, never by column position, so a
// schema-level column reorder cannot corrupt field assignment.
type FieldMap map[string]any

// Merge composes the field maps of independently mappable entities into one,
// for result sets that join several tables. Column-name collisions are an
// error: the caller must alias them in the query.
func Merge(maps ...FieldMap) (FieldMap, error) {
	merged := make(FieldMap)
	for _, m := range maps {
		for col, dest := range m {
			if _, ok := merged[col]; ok {
				return nil, fmt.Errorf("duplicate column %q in merged field maps", col)
			}
			merged[col] = dest
		}
	}
	return merged, nil
}

// ScanRow scans the current row of rows into the destinations named by
// fields. Columns not present in fields are discarded; a field whose column
// is missing from the result set is an error.
func ScanRow(rows *sql.Rows, fields FieldMap) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	dests := make([]any, len(cols))
	found := 0
	for i, col := range cols {
		if dest, ok := fields[col]; ok {
			dests[i] = dest
			found++
		} else {
			dests[i] = new(any)
		}
	}
	if found != len(fields) {
		for col := range fields {
			if !containsColumn(cols, col) {
				return fmt.Errorf("column %q missing from result set", col)
			}
		}
	}

	return rows.Scan(dests...)
}

func containsColumn(cols []string, name string) bool {
	for _, c := range cols {
		if c == name {
			return true
		}
	}
	return false
}
