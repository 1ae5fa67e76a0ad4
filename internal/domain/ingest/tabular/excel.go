package tabular

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// ErrNoTableSheet is returned when a workbook holds no sheet with at least a
// header row and one data row.
var ErrNoTableSheet = errors.New("tabular: no sheet with table data")

// ReadXLSX reads a .xlsx workbook and returns the grid of the sheet most
// likely to hold the report table (largest rows x columns block; first sheet
// wins ties). Raw cell values are kept so date serials arrive as numbers.
func ReadXLSX(r io.Reader) (Grid, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var grids []Grid
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
		if err != nil {
			continue
		}
		grids = append(grids, gridFromStrings(rows))
	}

	chosen := bestGrid(grids)
	if chosen == nil {
		return nil, ErrNoTableSheet
	}
	return chosen, nil
}

// ReadXLS reads a legacy binary .xls workbook (the format Horganice still
// exports) with the same sheet-selection rule as ReadXLSX.
func ReadXLS(r io.ReadSeeker) (Grid, error) {
	f, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var grids []Grid
	for n := 0; n < f.NumSheets(); n++ {
		sheet := f.GetSheet(n)
		if sheet == nil {
			continue
		}
		var g Grid
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			if row == nil {
				g = append(g, nil)
				continue
			}
			cells := make([]Cell, 0, row.LastCol())
			for j := 0; j < row.LastCol(); j++ {
				cells = append(cells, FromString(row.Col(j)))
			}
			g = append(g, cells)
		}
		grids = append(grids, g)
	}

	chosen := bestGrid(grids)
	if chosen == nil {
		return nil, ErrNoTableSheet
	}
	return chosen, nil
}

// OpenReport opens a report file and reads its table grid, dispatching on
// the file extension.
func OpenReport(path string) (Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return ReadXLS(f)
	case ".xlsx":
		return ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported report format %q", filepath.Ext(path))
	}
}

func gridFromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, s := range row {
			cells[j] = FromString(s)
		}
		g[i] = cells
	}
	return g
}
