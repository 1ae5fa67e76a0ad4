package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
)

func TestResolveBillColumns(t *testing.T) {
	t.Run("thai report header", func(t *testing.T) {
		header := []string{"ห้อง", "ผู้เช่า", "ค่าเช่า", "ค่าน้ำ", "ค่าไฟฟ้า", "รวมสุทธิ", "วันที่ครบกำหนด"}
		cols, err := ResolveBillColumns(header)
		require.NoError(t, err)

		assert.Equal(t, 0, cols.Room)
		assert.Equal(t, 1, cols.Tenant)
		assert.Equal(t, 5, cols.Total)
		assert.Equal(t, 6, cols.Due)
		assert.Equal(t, []int{2, 3, 4, 5}, cols.Charges)
	})

	t.Run("english report header", func(t *testing.T) {
		cols, err := ResolveBillColumns([]string{"Room", "Tenant Name", "Amount", "Due Date"})
		require.NoError(t, err)
		assert.Equal(t, 0, cols.Room)
		assert.Equal(t, []int{2}, cols.Charges)
	})

	t.Run("room column never doubles as a charge", func(t *testing.T) {
		cols, err := ResolveBillColumns([]string{"Room", "Total"})
		require.NoError(t, err)
		assert.NotContains(t, cols.Charges, 0)
	})

	t.Run("missing room fails with a diagnostic", func(t *testing.T) {
		_, err := ResolveBillColumns([]string{"Tenant", "Amount"})
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Contains(t, missing.Missing, "room")
		assert.Contains(t, err.Error(), "room:-1")
	})

	t.Run("missing charges fails", func(t *testing.T) {
		_, err := ResolveBillColumns([]string{"Room", "Tenant"})
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Contains(t, missing.Missing, "charge")
	})
}

func TestResolveBankColumns(t *testing.T) {
	t.Run("split credit and debit columns", func(t *testing.T) {
		cols, err := ResolveBankColumns([]string{"วันที่", "รายการ", "ถอน", "ฝาก", "เลขอ้างอิง"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, cols.Date)
		assert.Equal(t, 1, cols.Desc)
		assert.Equal(t, 2, cols.Debit)
		assert.Equal(t, 3, cols.Credit)
		assert.Equal(t, 4, cols.Ref)
	})

	t.Run("single amount with type column", func(t *testing.T) {
		cols, err := ResolveBankColumns([]string{"Date", "Description", "Amount", "DB/CR"}, nil)
		require.NoError(t, err)
		assert.Equal(t, 2, cols.Amount)
		assert.Equal(t, 3, cols.Type)
	})

	t.Run("single-signed amount falls back to thai split headers", func(t *testing.T) {
		header := []string{"วันที่", "รายการ", "จำนวนเงินเครดิต"}
		sample := [][]tabular.Cell{
			{tabular.TextCell("01/02/2024"), tabular.TextCell("RENT"), tabular.NumberCell(500)},
			{tabular.TextCell("02/02/2024"), tabular.TextCell("RENT"), tabular.NumberCell(750)},
		}
		cols, err := ResolveBankColumns(header, sample)
		require.NoError(t, err)
		assert.Equal(t, 2, cols.Credit)
	})

	t.Run("both signs present keeps the bare amount", func(t *testing.T) {
		header := []string{"Date", "Description", "Amount"}
		sample := [][]tabular.Cell{
			{tabular.TextCell("01/02/2024"), tabular.TextCell("RENT"), tabular.NumberCell(500)},
			{tabular.TextCell("02/02/2024"), tabular.TextCell("FEE"), tabular.NumberCell(-20)},
		}
		cols, err := ResolveBankColumns(header, sample)
		require.NoError(t, err)
		assert.Equal(t, -1, cols.Credit)
		assert.Equal(t, -1, cols.Debit)
		assert.Equal(t, 2, cols.Amount)
	})

	t.Run("missing date and description fail", func(t *testing.T) {
		_, err := ResolveBankColumns([]string{"Credit", "Debit"}, nil)
		var missing *MissingColumnsError
		require.ErrorAs(t, err, &missing)
		assert.Contains(t, missing.Missing, "date")
		assert.Contains(t, missing.Missing, "description")
	})

	t.Run("diagnostic renders the column map", func(t *testing.T) {
		cols, err := ResolveBankColumns([]string{"Date", "Description", "Amount"}, nil)
		require.NoError(t, err)
		assert.Equal(t, "Date:0 Credit:-1 Debit:-1 Amount:2 Type:-1 Ref:-1 Desc:1", cols.Diagnostic())
	})
}

func TestAccountForRoom(t *testing.T) {
	floors := map[string]string{
		"1": "KKK+", "2": "MAK+", "3": "KGSI", "4": "GSB", "5": "GSB",
	}

	tests := []struct {
		room string
		want string
	}{
		{"A101", "KKK+"},
		{"b305", "KGSI"},
		{"512", "GSB"},
		{"C205", "MAK+"},
		{"C005", ""},
		{"X6", ""},
		{"", ""},
		{"???", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AccountForRoom(tt.room, floors), "room %q", tt.room)
	}
}
