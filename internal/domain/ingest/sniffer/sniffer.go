// Package sniffer turns raw bank-statement bytes into a cell grid. It
// detects the text encoding (UTF-8 with a Thai windows-874 fallback) and the
// field delimiter before parsing. Both detections are best-effort heuristics.
package sniffer

import (
	"encoding/csv"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/FACorreiaa/mansion-ledger/internal/domain/ingest/tabular"
)

// ErrEmptyFile is returned for inputs with no parseable rows.
var ErrEmptyFile = errors.New("sniffer: file is empty")

// invalidRuneThreshold is how many undecodable byte sequences we tolerate
// before assuming the file is not UTF-8 at all.
const invalidRuneThreshold = 5

// DecodeText decodes raw bytes as UTF-8. When the content carries more than
// a handful of invalid sequences it is re-decoded as windows-874, the
// encoding Thai banks still export statements in. If that decode fails too,
// the original (possibly corrupted) text is kept and parsing proceeds
// best-effort.
func DecodeText(data []byte) string {
	data = stripUTF8BOM(data)
	text := string(data)
	if countInvalidRunes(text) <= invalidRuneThreshold {
		return text
	}
	decoded, err := charmap.Windows874.NewDecoder().String(string(data))
	if err != nil {
		return text
	}
	return decoded
}

// DetectDelimiter inspects only the first line and picks the candidate with
// the most occurrences. Candidates are tried in order, so a tie (including
// all-zero counts) falls back to comma.
func DetectDelimiter(text string) rune {
	firstLine, _, _ := strings.Cut(text, "\n")
	firstLine = strings.TrimRight(firstLine, "\r")

	best := ','
	bestCount := -1
	for _, d := range []rune{',', ';', '\t', '|'} {
		if count := strings.Count(firstLine, string(d)); count > bestCount {
			bestCount = count
			best = d
		}
	}
	return best
}

// ReadGrid decodes, delimiter-detects, and parses CSV bytes into a grid.
// The returned delimiter is reported back to the operator in the run
// summary.
func ReadGrid(data []byte) (tabular.Grid, rune, error) {
	text := DecodeText(data)
	delim := DetectDelimiter(text)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, delim, err
	}
	if len(records) == 0 {
		return nil, delim, ErrEmptyFile
	}

	grid := make(tabular.Grid, len(records))
	for i, record := range records {
		cells := make([]tabular.Cell, len(record))
		for j, field := range record {
			cells[j] = tabular.FromString(field)
		}
		grid[i] = cells
	}
	return grid, delim, nil
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}

func countInvalidRunes(text string) int {
	invalid := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size == 1 {
			invalid++
		}
		i += size
	}
	return invalid
}
