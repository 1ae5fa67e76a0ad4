package tabular

import (
	"errors"
	"regexp"
)

var (
	// ErrNoHeaderRow is returned when no row in the grid can be identified
	// as the column header.
	ErrNoHeaderRow = errors.New("tabular: no header row found")
)

// Grid is a 2D block of cells, rows outer. Rows may have differing lengths.
type Grid [][]Cell

// HeaderStrings returns the trimmed string form of the given row, for
// column classification.
func (g Grid) HeaderStrings(row int) []string {
	if row < 0 || row >= len(g) {
		return nil
	}
	out := make([]string, len(g[row]))
	for i, c := range g[row] {
		out[i] = c.String()
	}
	return out
}

// DataRows returns all rows below the given header row.
func (g Grid) DataRows(headerRow int) [][]Cell {
	if headerRow+1 >= len(g) {
		return nil
	}
	return g[headerRow+1:]
}

var roomHeaderRe = regexp.MustCompile(`(?i)^(room|ห้อง)$`)

// LocateHeaderBySentinel finds the header row of a rent report: the first
// row containing a cell that is exactly "Room" or "ห้อง" after trimming.
// Title and metadata rows above the table never contain that cell.
func (g Grid) LocateHeaderBySentinel() (int, error) {
	for i, row := range g {
		for _, c := range row {
			if roomHeaderRe.MatchString(c.String()) {
				return i, nil
			}
		}
	}
	return -1, ErrNoHeaderRow
}

// LocateHeaderLoose finds the header row of a bank CSV: the first row with
// at least one non-empty cell that does not read as a number. Bank exports
// name their columns too inconsistently for a sentinel match, so this is
// intentionally permissive.
func (g Grid) LocateHeaderLoose() (int, error) {
	for i, row := range g {
		for _, c := range row {
			if !c.IsEmpty() && !c.LooksNumeric() {
				return i, nil
			}
		}
	}
	return -1, ErrNoHeaderRow
}

// score ranks a candidate sheet by how much of a table it holds. Sheets with
// fewer than two rows cannot contain a header plus data and score nothing.
func score(g Grid) int {
	if len(g) < 2 {
		return 0
	}
	return len(g) * len(g[0])
}

// bestGrid picks the highest-scoring grid; the first candidate wins ties.
// Returns nil when no candidate holds a table at all.
func bestGrid(grids []Grid) Grid {
	var chosen Grid
	best := 0
	for _, g := range grids {
		if s := score(g); s > best {
			best = s
			chosen = g
		}
	}
	return chosen
}
