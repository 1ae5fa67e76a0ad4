package bank

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/normalizer"
	"github.com/FACorreiaa/mansion-ledger/pkg/tablestore"
)

// AppendResult reports the outcome of one statement append.
type AppendResult struct {
	Appended   int
	Duplicates int
}

// Append adds records to the ledger, dropping anything already present.
// A record is a duplicate when either its TxnID or its composite natural
// key is already in the table; both sets also grow during the batch, so a
// statement containing the same deposit twice lands once. The ledger is
// append-only: existing rows are never modified here.
func Append(ctx context.Context, table tablestore.Table, records []Record) (*AppendResult, error) {
	existing, err := table.Rows(ctx)
	if err != nil {
		return nil, fmt.Errorf("bank: read ledger: %w", err)
	}

	byID := make(map[string]struct{}, len(existing))
	byKey := make(map[string]struct{}, len(existing))
	for _, row := range existing {
		if id := cellAt(row, colTxnID); id != "" {
			byID[id] = struct{}{}
		}
		byKey[rowDedupKey(row)] = struct{}{}
	}

	res := &AppendResult{}
	var batch [][]string
	for _, rec := range records {
		id, key := rec.TxnID(), rec.DedupKey()
		if _, dup := byID[id]; dup {
			res.Duplicates++
			continue
		}
		if _, dup := byKey[key]; dup {
			res.Duplicates++
			continue
		}
		byID[id] = struct{}{}
		byKey[key] = struct{}{}
		batch = append(batch, rec.Row())
		res.Appended++
	}

	if len(batch) > 0 {
		if err := table.Append(ctx, batch); err != nil {
			return nil, fmt.Errorf("bank: append ledger: %w", err)
		}
	}
	return res, nil
}

// rowDedupKey rebuilds the composite key from a stored row. The amount is
// reparsed and refixed to two decimals so hand-edited rows still match.
func rowDedupKey(row []string) string {
	amount := cellAt(row, colAmount)
	if n, err := decimal.NewFromString(amount); err == nil {
		amount = n.StringFixed(2)
	}
	return strings.Join([]string{
		cellAt(row, colAccount),
		cellAt(row, colDate),
		amount,
		normalizer.DescriptionKey(cellAt(row, colDescription)),
	}, "|")
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
