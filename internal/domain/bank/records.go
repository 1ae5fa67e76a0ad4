// Package bank imports bank-statement CSVs into the Bank_Transactions
// ledger. Statements arrive in several Thai and English bank export
// layouts; the package normalizes them into one credit-only transaction
// schema keyed by a content hash.
package bank

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/normalizer"
)

// TableName is the canonical bank ledger sheet.
const TableName = "Bank_Transactions"

// Schema is the Bank_Transactions header, in column order. LinkedBillId,
// LinkedAt and Notes belong to the downstream matching flow and stay empty
// on import.
var Schema = []string{
	"TxnId", "Date", "Account", "Amount", "Type", "Ref",
	"Description", "LinkedBillId", "LinkedAt", "Notes",
}

const (
	colTxnID = iota
	colDate
	colAccount
	colAmount
	colType
	colRef
	colDescription
	colLinkedBillID
	colLinkedAt
	colNotes
)

// Transaction directions after normalization. Only credits are retained.
const (
	TypeCredit = "CREDIT"
	TypeDebit  = "DEBIT"
)

// Record is one normalized statement line.
type Record struct {
	Date        string // YYYY-MM-DD
	Account     string
	Amount      decimal.Decimal
	Type        string
	Ref         string
	Description string
}

// TxnID derives the stable transaction identity from the record content.
// Account, date, amount and the canonical description form the input, so
// the same deposit re-exported by the bank hashes identically.
func (r Record) TxnID() string {
	h := sha256.Sum256([]byte(strings.Join([]string{
		r.Account,
		r.Date,
		r.Amount.String(),
		normalizer.DescriptionKey(r.Description),
	}, "|")))
	return hex.EncodeToString(h[:])
}

// DedupKey is the composite natural key used alongside TxnID to catch the
// same transaction arriving with cosmetic differences between exports.
// Amounts are fixed to two decimals so "500" and "500.00" collide.
func (r Record) DedupKey() string {
	return strings.Join([]string{
		r.Account,
		r.Date,
		r.Amount.StringFixed(2),
		normalizer.DescriptionKey(r.Description),
	}, "|")
}

// Row renders the record in Schema order.
func (r Record) Row() []string {
	row := make([]string, len(Schema))
	row[colTxnID] = r.TxnID()
	row[colDate] = r.Date
	row[colAccount] = r.Account
	row[colAmount] = r.Amount.StringFixed(2)
	row[colType] = r.Type
	row[colRef] = r.Ref
	row[colDescription] = normalizer.CleanDescription(r.Description)
	return row
}

// ParseAccountCode validates an operator-supplied receiving-account code
// against the configured set.
func ParseAccountCode(raw string, valid []string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	for _, v := range valid {
		if code == v {
			return code, nil
		}
	}
	return "", fmt.Errorf("bank: unknown account code %q (valid: %s)",
		raw, strings.Join(valid, ", "))
}
