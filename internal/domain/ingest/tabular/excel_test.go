package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeReport(t *testing.T, sheets map[string][][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cell, &r))
		}
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestOpenReport(t *testing.T) {
	t.Run("reads the xlsx table sheet", func(t *testing.T) {
		path := writeReport(t, map[string][][]any{
			"Report": {
				{"Room", "Tenant", "Amount"},
				{"A101", "Somchai", 4500},
				{"B305", "Nok", 5000},
			},
		})

		grid, err := OpenReport(path)
		require.NoError(t, err)
		require.Len(t, grid, 3)
		assert.Equal(t, "Room", grid[0][0].String())
		assert.Equal(t, "4500", grid[1][2].String())
	})

	t.Run("picks the sheet that holds the table", func(t *testing.T) {
		path := writeReport(t, map[string][][]any{
			"Cover": {
				{"Rent Report March 2024"},
			},
			"Data": {
				{"Room", "Tenant"},
				{"A101", "Somchai"},
				{"B305", "Nok"},
			},
		})

		grid, err := OpenReport(path)
		require.NoError(t, err)
		idx, err := grid.LocateHeaderBySentinel()
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("unknown extension fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "report.pdf")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

		_, err := OpenReport(path)
		assert.Error(t, err)
	})

	t.Run("workbook with no data rows fails", func(t *testing.T) {
		path := writeReport(t, map[string][][]any{
			"Empty": {{"Room", "Tenant"}},
		})

		_, err := OpenReport(path)
		assert.ErrorIs(t, err, ErrNoTableSheet)
	})
}
