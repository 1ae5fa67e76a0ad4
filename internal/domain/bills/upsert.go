package bills

import (
	"context"
	"strings"

	"github.com/FACorreiaa/mansion-ledger/pkg/tablestore"
)

// UpsertResult reports what an upsert did.
type UpsertResult struct {
	Inserted int
	Updated  int
}

// Upsert merges a batch of bill records into the table. The existing table
// is scanned once to build a BillID → row position map; records whose key
// is present update that row in place, everything else is appended.
//
// Updates rewrite the imported columns but keep whatever downstream
// reconciliation has written into Status, PaidAt, SlipID, and
// BankMatchStatus on the existing row: a re-import must never mark a paid
// bill unpaid.
func Upsert(ctx context.Context, table tablestore.Table, records []Record) (*UpsertResult, error) {
	existing, err := table.Rows(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]int, len(existing))
	for i, row := range existing {
		if id := strings.TrimSpace(cellAt(row, colBillID)); id != "" {
			byID[id] = i
		}
	}

	result := &UpsertResult{}
	var appends [][]string
	for _, rec := range records {
		row := rec.Row()
		idx, ok := byID[rec.BillID]
		if !ok {
			appends = append(appends, row)
			byID[rec.BillID] = len(existing) + len(appends) - 1
			result.Inserted++
			continue
		}
		if idx >= len(existing) {
			// Same key twice in one batch (a report listing a room twice):
			// the row is still staged for append, so the last occurrence
			// wins in place of it.
			appends[idx-len(existing)] = row
			result.Updated++
			continue
		}

		old := existing[idx]
		for _, col := range []int{colStatus, colPaidAt, colSlipID, colBankMatchStatus} {
			if v := cellAt(old, col); v != "" {
				row[col] = v
			}
		}
		if err := table.Overwrite(ctx, idx, row); err != nil {
			return nil, err
		}
		result.Updated++
	}

	if len(appends) > 0 {
		if err := table.Append(ctx, appends); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// cellAt reads a cell from a possibly short row.
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
