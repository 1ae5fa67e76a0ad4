// Package normalizer converts raw cell values into the canonical forms the
// ledgers store: ISO dates, decimal amounts, collapsed descriptions, and the
// billing month a report belongs to.
package normalizer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
)

// serialEpoch is day zero of spreadsheet serial dates.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

var (
	ymdRe      = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	dmyWordRe  = regexp.MustCompile(`\b([0-3]?\d)[/-]([01]?\d)[/-](\d{4})\b`)
	ymdWordRe  = regexp.MustCompile(`\b(\d{4})[/-](\d{1,2})[/-](\d{1,2})\b`)
	strictJunk = regexp.MustCompile(`[^0-9.\-]`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// DateString renders a report cell as YYYY-MM-DD. Native dates and serial
// numbers convert; strings with a recognizable Y/M/D shape normalize; any
// other string passes through unchanged rather than failing the row.
func DateString(c tabular.Cell, loc *time.Location) string {
	switch c.Kind {
	case tabular.KindEmpty:
		return ""
	case tabular.KindDate:
		return c.Time.In(loc).Format("2006-01-02")
	case tabular.KindNumber:
		return serialEpoch.AddDate(0, 0, int(c.Number)).Format("2006-01-02")
	default:
		s := strings.TrimSpace(c.Text)
		if m := ymdRe.FindStringSubmatch(s); m != nil {
			return isoDate(m[1], m[2], m[3])
		}
		return s
	}
}

// BankDate renders a statement cell as YYYY-MM-DD. Thai bank exports write
// D/M/YYYY; ISO-ish Y/M/D appears in a few formats. Unparseable strings
// pass through unchanged.
func BankDate(c tabular.Cell, loc *time.Location) string {
	switch c.Kind {
	case tabular.KindEmpty:
		return ""
	case tabular.KindDate:
		return c.Time.In(loc).Format("2006-01-02")
	default:
		s := c.String()
		if m := dmyWordRe.FindStringSubmatch(s); m != nil {
			return isoDate(m[3], m[2], m[1])
		}
		if m := ymdWordRe.FindStringSubmatch(s); m != nil {
			return isoDate(m[1], m[2], m[3])
		}
		return s
	}
}

// isoDate assembles YYYY-MM-DD from string components already validated by
// the calling regexp.
func isoDate(y, m, d string) string {
	yi, _ := strconv.Atoi(y)
	mi, _ := strconv.Atoi(m)
	di, _ := strconv.Atoi(d)
	return fmt.Sprintf("%04d-%02d-%02d", yi, mi, di)
}

// StrictNumber parses a report amount cell. Text is stripped down to
// digits, dot, and minus before parsing. The second return is false when
// the cell holds no number at all, which is distinct from zero.
func StrictNumber(c tabular.Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case tabular.KindNumber:
		return decimal.NewFromFloat(c.Number), true
	case tabular.KindText:
		s := strictJunk.ReplaceAllString(c.Text, "")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// LooseNumber parses a statement amount cell: whitespace (including
// non-breaking spaces) and thousands commas are stripped, the sign is kept.
func LooseNumber(c tabular.Cell) (decimal.Decimal, bool) {
	switch c.Kind {
	case tabular.KindNumber:
		return decimal.NewFromFloat(c.Number), true
	case tabular.KindText:
		s := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) || r == ' ' || r == ',' {
				return -1
			}
			return r
		}, c.Text)
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// BillingMonth maps a reference timestamp to the YYYY-MM billing period it
// belongs to. Charges dated on or after cycleDay roll into the following
// month, December wrapping into January of the next year.
func BillingMonth(ref time.Time, loc *time.Location, cycleDay int) string {
	t := ref.In(loc)
	year, month := t.Year(), int(t.Month())
	if t.Day() >= cycleDay {
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return fmt.Sprintf("%04d-%02d", year, month)
}

// CleanDescription trims and collapses runs of whitespace.
func CleanDescription(raw string) string {
	return strings.TrimSpace(spacesRe.ReplaceAllString(raw, " "))
}

// DescriptionKey is the canonical form used in natural keys: collapsed
// whitespace, lowercased.
func DescriptionKey(raw string) string {
	return strings.ToLower(CleanDescription(raw))
}
