package tablestore

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxPool abstracts the subset of pgxpool.Pool used by the store to allow
// mocking in tests.
type PgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ PgxPool = (*pgxpool.Pool)(nil)

// PostgresStore persists tables as positioned rows in two generic relations:
// ledger_headers(table_name, header) and ledger_rows(table_name, idx, cells).
// Cell values stay text so the schema matches the sheet the ledgers came
// from; typed queries belong to downstream consumers.
type PostgresStore struct {
	pgpool PgxPool
}

// NewPostgresStore wraps an existing pool.
func NewPostgresStore(pgpool PgxPool) *PostgresStore {
	return &PostgresStore{pgpool: pgpool}
}

const ensureSchemaSQL = `
	CREATE TABLE IF NOT EXISTS ledger_headers (
		table_name text PRIMARY KEY,
		header     text[] NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ledger_rows (
		table_name text NOT NULL,
		idx        int  NOT NULL,
		cells      text[] NOT NULL,
		PRIMARY KEY (table_name, idx)
	)`

// Ensure implements Store.
func (s *PostgresStore) Ensure(ctx context.Context, name string, header []string) (Table, error) {
	if _, err := s.pgpool.Exec(ctx, ensureSchemaSQL); err != nil {
		return nil, fmt.Errorf("ensure ledger schema: %w", err)
	}

	var existing []string
	err := s.pgpool.QueryRow(ctx,
		`SELECT header FROM ledger_headers WHERE table_name = $1`, name,
	).Scan(&existing)
	switch {
	case err == pgx.ErrNoRows:
		existing = nil
	case err != nil:
		return nil, fmt.Errorf("read header for %s: %w", name, err)
	}

	if !slices.Equal(existing, header) {
		// New table, or a schema change: reset so column order is exact.
		if _, err := s.pgpool.Exec(ctx,
			`DELETE FROM ledger_rows WHERE table_name = $1`, name); err != nil {
			return nil, fmt.Errorf("reset rows for %s: %w", name, err)
		}
		if _, err := s.pgpool.Exec(ctx, `
			INSERT INTO ledger_headers (table_name, header) VALUES ($1, $2)
			ON CONFLICT (table_name) DO UPDATE SET header = EXCLUDED.header`,
			name, header); err != nil {
			return nil, fmt.Errorf("write header for %s: %w", name, err)
		}
	}

	return &postgresTable{pgpool: s.pgpool, name: name, header: slices.Clone(header)}, nil
}

type postgresTable struct {
	pgpool PgxPool
	name   string
	header []string
}

func (t *postgresTable) Name() string     { return t.name }
func (t *postgresTable) Header() []string { return slices.Clone(t.header) }

func (t *postgresTable) Rows(ctx context.Context) ([][]string, error) {
	rows, err := t.pgpool.Query(ctx,
		`SELECT cells FROM ledger_rows WHERE table_name = $1 ORDER BY idx`, t.name)
	if err != nil {
		return nil, fmt.Errorf("read rows for %s: %w", t.name, err)
	}
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		var cells []string
		if err := rows.Scan(&cells); err != nil {
			return nil, fmt.Errorf("scan row for %s: %w", t.name, err)
		}
		out = append(out, cells)
	}
	return out, rows.Err()
}

func (t *postgresTable) Append(ctx context.Context, rowsIn [][]string) error {
	var next int
	err := t.pgpool.QueryRow(ctx,
		`SELECT COALESCE(MAX(idx) + 1, 0) FROM ledger_rows WHERE table_name = $1`, t.name,
	).Scan(&next)
	if err != nil {
		return fmt.Errorf("next index for %s: %w", t.name, err)
	}
	for i, row := range rowsIn {
		if _, err := t.pgpool.Exec(ctx,
			`INSERT INTO ledger_rows (table_name, idx, cells) VALUES ($1, $2, $3)`,
			t.name, next+i, row); err != nil {
			return fmt.Errorf("append row to %s: %w", t.name, err)
		}
	}
	return nil
}

func (t *postgresTable) Overwrite(ctx context.Context, index int, row []string) error {
	tag, err := t.pgpool.Exec(ctx,
		`UPDATE ledger_rows SET cells = $3 WHERE table_name = $1 AND idx = $2`,
		t.name, index, row)
	if err != nil {
		return fmt.Errorf("overwrite row in %s: %w", t.name, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRowOutOfRange
	}
	return nil
}
