package tablestore

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/xuri/excelize/v2"
)

// WorkbookStore persists tables as sheets of a single .xlsx workbook,
// mirroring the spreadsheet the ledgers originally lived in. Every mutation
// saves the file; imports are batch-oriented so this costs one save per
// append batch plus one per updated row.
type WorkbookStore struct {
	path string
	file *excelize.File
}

// OpenWorkbook opens the workbook at path, creating it if missing.
func OpenWorkbook(path string) (*WorkbookStore, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &WorkbookStore{path: path, file: excelize.NewFile()}, nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return &WorkbookStore{path: path, file: f}, nil
}

// Close releases the underlying file handle.
func (s *WorkbookStore) Close() error {
	return s.file.Close()
}

// Ensure implements Store.
func (s *WorkbookStore) Ensure(_ context.Context, name string, header []string) (Table, error) {
	idx, err := s.file.GetSheetIndex(name)
	if err != nil {
		return nil, fmt.Errorf("lookup sheet %s: %w", name, err)
	}
	if idx < 0 {
		if _, err := s.file.NewSheet(name); err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := s.writeHeader(name, header); err != nil {
			return nil, err
		}
	} else {
		rows, err := s.file.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		if len(rows) == 0 || !headerMatches(rows[0], header) {
			// Wrong or missing header: reset the sheet so the column order
			// is exact. This only happens once per schema change.
			if err := s.file.DeleteSheet(name); err != nil {
				return nil, fmt.Errorf("reset sheet %s: %w", name, err)
			}
			if _, err := s.file.NewSheet(name); err != nil {
				return nil, fmt.Errorf("recreate sheet %s: %w", name, err)
			}
			if err := s.writeHeader(name, header); err != nil {
				return nil, err
			}
		}
	}
	return &workbookTable{store: s, name: name, header: slices.Clone(header)}, nil
}

func (s *WorkbookStore) writeHeader(name string, header []string) error {
	if err := s.file.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header for %s: %w", name, err)
	}
	return s.save()
}

func (s *WorkbookStore) save() error {
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", s.path, err)
	}
	return nil
}

func headerMatches(got, want []string) bool {
	if len(got) < len(want) {
		return false
	}
	for i, h := range want {
		if got[i] != h {
			return false
		}
	}
	return true
}

type workbookTable struct {
	store  *WorkbookStore
	name   string
	header []string
}

func (t *workbookTable) Name() string     { return t.name }
func (t *workbookTable) Header() []string { return slices.Clone(t.header) }

func (t *workbookTable) Rows(_ context.Context) ([][]string, error) {
	rows, err := t.store.file.GetRows(t.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", t.name, err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func (t *workbookTable) Append(ctx context.Context, rows [][]string) error {
	existing, err := t.store.file.GetRows(t.name)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", t.name, err)
	}
	next := len(existing) + 1 // 1-based sheet row after the last occupied one
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, next+i)
		if err != nil {
			return err
		}
		r := row
		if err := t.store.file.SetSheetRow(t.name, cell, &r); err != nil {
			return fmt.Errorf("append to %s: %w", t.name, err)
		}
	}
	return t.store.save()
}

func (t *workbookTable) Overwrite(_ context.Context, index int, row []string) error {
	rows, err := t.store.file.GetRows(t.name)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", t.name, err)
	}
	if index < 0 || index >= len(rows)-1 {
		return ErrRowOutOfRange
	}
	cell, err := excelize.CoordinatesToCellName(1, index+2) // +1 header, +1 1-based
	if err != nil {
		return err
	}
	if err := t.store.file.SetSheetRow(t.name, cell, &row); err != nil {
		return fmt.Errorf("overwrite row in %s: %w", t.name, err)
	}
	return t.store.save()
}
