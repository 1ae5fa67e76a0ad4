// Package tablestore abstracts the persisted ledger tables. A table is a
// header plus an ordered list of string rows; the importer only ever reads
// everything, appends, or overwrites a single row in place.
package tablestore

import (
	"context"
	"errors"
)

var (
	// ErrRowOutOfRange is returned when overwriting a data row index that
	// does not exist.
	ErrRowOutOfRange = errors.New("tablestore: row index out of range")
)

// Table is one named ledger (e.g. Horga_Bills).
type Table interface {
	// Name returns the table name.
	Name() string
	// Header returns the column header the table was ensured with.
	Header() []string
	// Rows returns all data rows, excluding the header. Row slices may be
	// shorter than the header when trailing cells are empty.
	Rows(ctx context.Context) ([][]string, error)
	// Append adds rows after the current last data row.
	Append(ctx context.Context, rows [][]string) error
	// Overwrite replaces the data row at the given 0-based index.
	Overwrite(ctx context.Context, index int, row []string) error
}

// Store creates or opens named tables.
type Store interface {
	// Ensure opens the named table, creating it with the given header if it
	// does not exist. An existing table whose header does not match is
	// reset to the given header, discarding its rows; callers rely on the
	// exact column order.
	Ensure(ctx context.Context, name string, header []string) (Table, error)
}
