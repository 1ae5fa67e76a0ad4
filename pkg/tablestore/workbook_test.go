package tablestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkbookStore(t *testing.T) {
	ctx := context.Background()
	header := []string{"BillID", "Room", "Amount"}

	t.Run("rows survive reopen", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.xlsx")

		ws, err := OpenWorkbook(path)
		require.NoError(t, err)

		table, err := ws.Ensure(ctx, "Horga_Bills", header)
		require.NoError(t, err)
		require.NoError(t, table.Append(ctx, [][]string{
			{"2024-04-A101", "A101", "4500"},
			{"2024-04-B305", "B305", "5000"},
		}))
		require.NoError(t, ws.Close())

		ws, err = OpenWorkbook(path)
		require.NoError(t, err)
		defer ws.Close()

		table, err = ws.Ensure(ctx, "Horga_Bills", header)
		require.NoError(t, err)
		rows, err := table.Rows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-04-A101", rows[0][0])
		assert.Equal(t, "5000", rows[1][2])
	})

	t.Run("overwrite replaces one row in place", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.xlsx")
		ws, err := OpenWorkbook(path)
		require.NoError(t, err)
		defer ws.Close()

		table, err := ws.Ensure(ctx, "Horga_Bills", header)
		require.NoError(t, err)
		require.NoError(t, table.Append(ctx, [][]string{{"id1", "A101", "4500"}}))

		require.NoError(t, table.Overwrite(ctx, 0, []string{"id1", "A101", "4620"}))
		rows, err := table.Rows(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "4620", rows[0][2])

		assert.ErrorIs(t, table.Overwrite(ctx, 5, []string{"x"}), ErrRowOutOfRange)
	})

	t.Run("header change resets the sheet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.xlsx")
		ws, err := OpenWorkbook(path)
		require.NoError(t, err)
		defer ws.Close()

		table, err := ws.Ensure(ctx, "Horga_Bills", header)
		require.NoError(t, err)
		require.NoError(t, table.Append(ctx, [][]string{{"id1", "A101", "4500"}}))

		table, err = ws.Ensure(ctx, "Horga_Bills", []string{"BillID", "Room", "Amount", "Status"})
		require.NoError(t, err)
		rows, err := table.Rows(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("two sheets stay independent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "ledger.xlsx")
		ws, err := OpenWorkbook(path)
		require.NoError(t, err)
		defer ws.Close()

		bills, err := ws.Ensure(ctx, "Horga_Bills", header)
		require.NoError(t, err)
		txns, err := ws.Ensure(ctx, "Bank_Transactions", []string{"TxnId", "Amount"})
		require.NoError(t, err)

		require.NoError(t, bills.Append(ctx, [][]string{{"id1", "A101", "4500"}}))
		require.NoError(t, txns.Append(ctx, [][]string{{"t1", "500"}}))

		rows, err := bills.Rows(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
		rows, err = txns.Rows(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryStore()
	table, err := store.Ensure(ctx, "t", []string{"a", "b"})
	require.NoError(t, err)

	require.NoError(t, table.Append(ctx, [][]string{{"1", "2"}}))

	t.Run("rows are isolated copies", func(t *testing.T) {
		rows, err := table.Rows(ctx)
		require.NoError(t, err)
		rows[0][0] = "mutated"

		again, err := table.Rows(ctx)
		require.NoError(t, err)
		assert.Equal(t, "1", again[0][0])
	})

	t.Run("same header reuses the table", func(t *testing.T) {
		same, err := store.Ensure(ctx, "t", []string{"a", "b"})
		require.NoError(t, err)
		rows, err := same.Rows(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("header change resets", func(t *testing.T) {
		reset, err := store.Ensure(ctx, "t", []string{"a", "b", "c"})
		require.NoError(t, err)
		rows, err := reset.Rows(ctx)
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
