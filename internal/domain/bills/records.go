// Package bills builds canonical rent-bill records from classified report
// rows and upserts them into the Horga_Bills ledger keyed by BillID.
package bills

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TableName is the ledger the bill pipeline writes.
const TableName = "Horga_Bills"

// Schema is the exact column order of the Horga_Bills ledger. Downstream
// reconciliation owns Status transitions and the PaidAt/SlipID/
// BankMatchStatus columns; this pipeline only seeds their defaults.
var Schema = []string{
	"BillID", "Room", "Tenant", "Month", "Type", "AmountDue", "DueDate",
	"Status", "PaidAt", "SlipID", "Account", "BankMatchStatus", "ChargeItems", "Notes",
}

// Column positions within Schema.
const (
	colBillID = iota
	colRoom
	colTenant
	colMonth
	colType
	colAmountDue
	colDueDate
	colStatus
	colPaidAt
	colSlipID
	colAccount
	colBankMatchStatus
	colChargeItems
	colNotes
)

// StatusUnpaid is the status every bill starts in.
const StatusUnpaid = "Unpaid"

// Record is one canonical bill row.
type Record struct {
	BillID      string
	Room        string
	Tenant      string
	Month       string // YYYY-MM billing period
	Type        string // always "Rent" for this pipeline
	AmountDue   decimal.Decimal
	DueDate     string // YYYY-MM-DD or empty
	Account     string
	ChargeItems string
	Notes       string
}

// BillID derives the natural key for a room billed in a month. Re-imports
// of the same room/month resolve to the same key and update in place.
func BillID(month, room string) string {
	return fmt.Sprintf("%s-%s", month, room)
}

// Row renders the record in Schema order with downstream-owned columns at
// their defaults.
func (r Record) Row() []string {
	row := make([]string, len(Schema))
	row[colBillID] = r.BillID
	row[colRoom] = r.Room
	row[colTenant] = r.Tenant
	row[colMonth] = r.Month
	row[colType] = r.Type
	row[colAmountDue] = r.AmountDue.String()
	row[colDueDate] = r.DueDate
	row[colStatus] = StatusUnpaid
	row[colAccount] = r.Account
	row[colChargeItems] = r.ChargeItems
	row[colNotes] = r.Notes
	return row
}
