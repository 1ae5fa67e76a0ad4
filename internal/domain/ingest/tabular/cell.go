// Package tabular models loosely-structured spreadsheet input: a grid of
// dynamically-typed cells, heuristics to find the sheet and row that carry
// the actual table, and readers for the workbook formats Horganice exports.
package tabular

import (
	"strconv"
	"strings"
	"time"
)

// Kind tags the dynamic type of a cell.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
)

// Cell is one spreadsheet cell. Source documents carry no schema, so a cell
// is a tagged union and every normalizer switches on Kind instead of
// coercing implicitly.
type Cell struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
}

// Empty returns the empty cell.
func Empty() Cell { return Cell{Kind: KindEmpty} }

// TextCell holds a raw string, untrimmed.
func TextCell(s string) Cell { return Cell{Kind: KindText, Text: s} }

// NumberCell holds a numeric value.
func NumberCell(v float64) Cell { return Cell{Kind: KindNumber, Number: v} }

// DateCell holds a native date value.
func DateCell(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }

// FromString classifies a raw string the way sheet input arrives: blank is
// empty, a value strconv accepts is a number, everything else is text.
func FromString(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return Empty()
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return NumberCell(v)
	}
	return TextCell(s)
}

// String renders the cell for key/label use. Numbers drop trailing zeros so
// a room code read as 101 round-trips to "101".
func (c Cell) String() string {
	switch c.Kind {
	case KindText:
		return strings.TrimSpace(c.Text)
	case KindNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case KindDate:
		return c.Time.Format("2006-01-02")
	default:
		return ""
	}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || (c.Kind == KindText && strings.TrimSpace(c.Text) == "")
}

// LooksNumeric reports whether the cell reads as a plain number once
// thousands separators are removed. Header detection treats such cells as
// data, not labels.
func (c Cell) LooksNumeric() bool {
	switch c.Kind {
	case KindNumber:
		return true
	case KindText:
		s := strings.ReplaceAll(strings.TrimSpace(c.Text), ",", "")
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	default:
		return false
	}
}
