// Package classifier maps located header rows to semantic column roles.
// Headers arrive in Thai, English, or a mix, so every role carries an
// ordered list of pattern candidates and the first matching header wins.
// The ordering is deliberate and encodes real-world priority (an explicit
// total column beats summed components); do not sort it.
package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/normalizer"
	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
)

// sampleLimit caps how many data rows the bank classifier inspects when
// inferring column roles from values.
const sampleLimit = 200

// RoleIndex names one resolved (or unresolved) column role for diagnostics.
type RoleIndex struct {
	Role  string
	Index int
}

// MissingColumnsError reports which mandatory roles could not be resolved,
// with the full role map so the operator can see what the classifier did
// find. Column resolution failures are terminal for a run.
type MissingColumnsError struct {
	Missing  []string
	Resolved []RoleIndex
}

func (e *MissingColumnsError) Error() string {
	parts := make([]string, len(e.Resolved))
	for i, r := range e.Resolved {
		parts[i] = fmt.Sprintf("%s:%d", r.Role, r.Index)
	}
	return fmt.Sprintf("classifier: missing required columns %v (resolved %s)",
		e.Missing, strings.Join(parts, " "))
}

// ---------------------------------------------------------------------------
// Rent report (Horganice) columns
// ---------------------------------------------------------------------------

var (
	roomPatterns   = compileAll(`(?i)^room$`, `^ห้อง$`)
	tenantPatterns = compileAll(`(?i)tenant|name`, `ผู้เช่า|ชื่อ`)
	duePatterns    = compileAll(`(?i)due|date`, `ครบกำหนด|กำหนดชำระ|วันที่`)
	totalPatterns  = compileAll(`รวมสุทธิ|ยอดรวม|ต้องชำระ|^รวม$`)

	// chargeMatchers covers every column that can contribute to a bill
	// amount. The final entry doubles as the explicit total; when the total
	// column resolves, the builder prefers it over summing the rest.
	chargeMatchers = compileAll(
		`(?i)amount|total`,
		`ค่าเช่า`,
		`ค่าเช่าห้อง`,
		`ค่าน้ำ`,
		`ค่าไฟฟ้า|ไฟฟ้า`,
		`ค่าบริการ|ค่าดูแล|(?i:service)`,
		`ค่าปรับ|ปรับ`,
		`อินเทอร์เน็ต|(?i:internet)`,
		`ที่จอด|(?i:parking)`,
		`อื่นๆ|(?i:misc)`,
		`รวมสุทธิ|ยอดรวม|ต้องชำระ`,
	)
)

// BillColumns holds resolved column indices for the rent report. Optional
// roles are -1 when absent.
type BillColumns struct {
	Room    int
	Tenant  int
	Due     int
	Total   int
	Charges []int
}

// ResolveBillColumns classifies a rent-report header row. A report without
// a room column and at least one charge column is structurally unusable and
// fails hard.
func ResolveBillColumns(header []string) (*BillColumns, error) {
	cols := &BillColumns{
		Room:   findHeaderIndex(header, roomPatterns),
		Tenant: findHeaderIndex(header, tenantPatterns),
		Due:    findHeaderIndex(header, duePatterns),
		Total:  findHeaderIndex(header, totalPatterns),
	}
	for i, h := range header {
		if i == cols.Room {
			continue
		}
		for _, re := range chargeMatchers {
			if re.MatchString(h) {
				cols.Charges = append(cols.Charges, i)
				break
			}
		}
	}

	var missing []string
	if cols.Room < 0 {
		missing = append(missing, "room")
	}
	if len(cols.Charges) == 0 {
		missing = append(missing, "charge")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{
			Missing: missing,
			Resolved: []RoleIndex{
				{"room", cols.Room}, {"tenant", cols.Tenant},
				{"due", cols.Due}, {"total", cols.Total},
				{"charges", len(cols.Charges)},
			},
		}
	}
	return cols, nil
}

// ---------------------------------------------------------------------------
// Bank statement columns
// ---------------------------------------------------------------------------

var (
	dateCandidates   = []string{"date", "วันที่", "transaction date", "วัน-เวลา"}
	timeCandidates   = []string{"time", "เวลา"}
	creditCandidates = []string{"credit", "ฝาก"}
	debitCandidates  = []string{"debit", "ถอน"}
	amountCandidates = []string{"amount", "จำนวนเงิน", "ยอดเงิน"}
	typeCandidates   = []string{"type", "ประเภทรายการ", "db/cr", "credit/debit", "cr/db", "code"}
	descCandidates   = []string{"description", "details", "transaction", "รายการ", "คำอธิบาย", "รายละเอียด"}
	refCandidates    = []string{"ref", "reference", "reference no", "เลขอ้างอิง", "หมายเลขอ้างอิง"}
)

// BankColumns holds resolved column indices for a bank statement. Roles are
// -1 when absent.
type BankColumns struct {
	Date   int
	Time   int
	Credit int
	Debit  int
	Amount int
	Type   int
	Desc   int
	Ref    int
}

// Diagnostic renders the full column map for run summaries and error
// messages.
func (c *BankColumns) Diagnostic() string {
	return fmt.Sprintf("Date:%d Credit:%d Debit:%d Amount:%d Type:%d Ref:%d Desc:%d",
		c.Date, c.Credit, c.Debit, c.Amount, c.Type, c.Ref, c.Desc)
}

// ResolveBankColumns classifies a bank-statement header row, using up to
// 200 sample data rows when the header alone is ambiguous. A statement
// needs a date column, a description column, and at least one of
// credit/debit/amount.
func ResolveBankColumns(header []string, sample [][]tabular.Cell) (*BankColumns, error) {
	low := make([]string, len(header))
	for i, h := range header {
		low[i] = strings.ToLower(strings.TrimSpace(h))
	}
	pos := func(candidates []string) int {
		for _, c := range candidates {
			for i, h := range low {
				if strings.Contains(h, c) {
					return i
				}
			}
		}
		return -1
	}

	cols := &BankColumns{
		Date:   pos(dateCandidates),
		Time:   pos(timeCandidates),
		Credit: pos(creditCandidates),
		Debit:  pos(debitCandidates),
		Amount: pos(amountCandidates),
		Type:   pos(typeCandidates),
		Desc:   pos(descCandidates),
		Ref:    pos(refCandidates),
	}

	if len(sample) > sampleLimit {
		sample = sample[:sampleLimit]
	}

	// No credit/debit split and no type column, only a bare amount: sample
	// the values. A column carrying both signs classifies rows by sign
	// later; a single-signed column suggests the split columns exist under
	// unmatched Thai names, so try those before giving up.
	if cols.Credit < 0 && cols.Debit < 0 && cols.Amount >= 0 && cols.Type < 0 {
		hasPos, hasNeg := false, false
		for _, row := range sample {
			if cols.Amount >= len(row) {
				continue
			}
			if n, ok := normalizer.LooseNumber(row[cols.Amount]); ok {
				if n.IsPositive() {
					hasPos = true
				}
				if n.IsNegative() {
					hasNeg = true
				}
			}
		}
		if !hasPos || !hasNeg {
			for i, h := range low {
				if cols.Credit < 0 && strings.Contains(h, "เครดิต") {
					cols.Credit = i
				}
				if cols.Debit < 0 && strings.Contains(h, "เดบิต") {
					cols.Debit = i
				}
			}
		}
	}

	var missing []string
	if cols.Date < 0 {
		missing = append(missing, "date")
	}
	if cols.Credit < 0 && cols.Debit < 0 && cols.Amount < 0 {
		missing = append(missing, "amount")
	}
	if cols.Desc < 0 {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{
			Missing: missing,
			Resolved: []RoleIndex{
				{"date", cols.Date}, {"credit", cols.Credit}, {"debit", cols.Debit},
				{"amount", cols.Amount}, {"type", cols.Type}, {"desc", cols.Desc},
				{"ref", cols.Ref},
			},
		}
	}
	return cols, nil
}

// ---------------------------------------------------------------------------
// Room → account derivation
// ---------------------------------------------------------------------------

var floorDigitRe = regexp.MustCompile(`^[A-Z]*([0-9])`)

// AccountForRoom derives the receiving-account code from a room number.
// Rooms are [letters][floor digit][unit], e.g. "A101" is floor 1. Floors
// outside the mapping get an empty code; callers log this rather than fail,
// since unmapped floors still bill.
func AccountForRoom(room string, floorAccounts map[string]string) string {
	m := floorDigitRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(room)))
	if m == nil {
		return ""
	}
	return floorAccounts[m[1]]
}

func compileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// findHeaderIndex returns the first header matching any of the patterns.
func findHeaderIndex(header []string, patterns []*regexp.Regexp) int {
	for i, h := range header {
		for _, re := range patterns {
			if re.MatchString(h) {
				return i
			}
		}
	}
	return -1
}
