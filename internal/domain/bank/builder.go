package bank

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/classifier"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/normalizer"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
)

// debitLabels and creditLabels recognize the type-column markers emitted by
// Thai bank exports. Checked case-insensitively as substrings.
var (
	debitLabels  = []string{"db", "debit", "ถอน", "เดบิต"}
	creditLabels = []string{"cr", "credit", "ฝาก", "เครดิต"}
)

// buildRecords turns statement data rows into credit records for the given
// receiving account. It returns the kept records plus the count of rows
// skipped by row-local rules (no date, no usable amount, debit direction).
func buildRecords(rows [][]tabular.Cell, cols *classifier.BankColumns, account string, loc *time.Location) (records []Record, skipped int) {
	for _, row := range rows {
		date := ""
		if cols.Date >= 0 && cols.Date < len(row) {
			date = normalizer.BankDate(row[cols.Date], loc)
		}
		if date == "" {
			skipped++
			continue
		}

		amount, dir, ok := resolveDirection(row, cols)
		if !ok || amount.IsZero() {
			skipped++
			continue
		}
		if dir != TypeCredit {
			skipped++
			continue
		}

		records = append(records, Record{
			Date:        date,
			Account:     account,
			Amount:      amount,
			Type:        dir,
			Ref:         cellString(row, cols.Ref),
			Description: cellString(row, cols.Desc),
		})
	}
	return records, skipped
}

// resolveDirection extracts the transaction amount and direction. Split
// credit/debit columns win when either carries a value; otherwise the bare
// amount column is classified by the type column's label, then by sign.
// An unlabeled positive amount is a credit, matching how single-column
// deposit statements are exported.
func resolveDirection(row []tabular.Cell, cols *classifier.BankColumns) (decimal.Decimal, string, bool) {
	if cols.Credit >= 0 || cols.Debit >= 0 {
		if n, ok := cellNumber(row, cols.Credit); ok && !n.IsZero() {
			return n.Abs(), TypeCredit, true
		}
		if n, ok := cellNumber(row, cols.Debit); ok && !n.IsZero() {
			return n.Abs(), TypeDebit, true
		}
		return decimal.Zero, "", false
	}

	n, ok := cellNumber(row, cols.Amount)
	if !ok {
		return decimal.Zero, "", false
	}
	if label := strings.ToLower(cellString(row, cols.Type)); label != "" {
		for _, d := range debitLabels {
			if strings.Contains(label, d) {
				return n.Abs(), TypeDebit, true
			}
		}
		for _, c := range creditLabels {
			if strings.Contains(label, c) {
				return n.Abs(), TypeCredit, true
			}
		}
	}
	if n.IsNegative() {
		return n.Abs(), TypeDebit, true
	}
	return n, TypeCredit, true
}

func cellNumber(row []tabular.Cell, col int) (decimal.Decimal, bool) {
	if col < 0 || col >= len(row) {
		return decimal.Zero, false
	}
	return normalizer.LooseNumber(row[col])
}

func cellString(row []tabular.Cell, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col].String())
}
