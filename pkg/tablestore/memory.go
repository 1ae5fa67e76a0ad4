package tablestore

import (
	"context"
	"slices"
)

// MemoryStore keeps tables in process memory. It backs the unit tests and
// dry runs; the importer itself runs single-threaded so no locking is done.
type MemoryStore struct {
	tables map[string]*memoryTable
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]*memoryTable)}
}

// Ensure implements Store.
func (s *MemoryStore) Ensure(_ context.Context, name string, header []string) (Table, error) {
	if t, ok := s.tables[name]; ok && slices.Equal(t.header, header) {
		return t, nil
	}
	t := &memoryTable{name: name, header: slices.Clone(header)}
	s.tables[name] = t
	return t, nil
}

type memoryTable struct {
	name   string
	header []string
	rows   [][]string
}

func (t *memoryTable) Name() string     { return t.name }
func (t *memoryTable) Header() []string { return slices.Clone(t.header) }

func (t *memoryTable) Rows(_ context.Context) ([][]string, error) {
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = slices.Clone(r)
	}
	return out, nil
}

func (t *memoryTable) Append(_ context.Context, rows [][]string) error {
	for _, r := range rows {
		t.rows = append(t.rows, slices.Clone(r))
	}
	return nil
}

func (t *memoryTable) Overwrite(_ context.Context, index int, row []string) error {
	if index < 0 || index >= len(t.rows) {
		return ErrRowOutOfRange
	}
	t.rows[index] = slices.Clone(row)
	return nil
}
