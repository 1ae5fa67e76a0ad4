package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(values ...string) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = FromString(v)
	}
	return cells
}

func TestLocateHeaderBySentinel(t *testing.T) {
	t.Run("skips title rows above the table", func(t *testing.T) {
		g := Grid{
			row("Horganice Rent Report"),
			row("", "March 2024"),
			row("Room", "Tenant", "ค่าเช่า"),
			row("A101", "Somchai", "4500"),
		}
		idx, err := g.LocateHeaderBySentinel()
		require.NoError(t, err)
		assert.Equal(t, 2, idx)
	})

	t.Run("matches the thai sentinel", func(t *testing.T) {
		g := Grid{row("ห้อง", "ผู้เช่า"), row("A101", "Somchai")}
		idx, err := g.LocateHeaderBySentinel()
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("needs an exact cell, not a substring", func(t *testing.T) {
		g := Grid{row("Rooms available", "x"), row("1", "2")}
		_, err := g.LocateHeaderBySentinel()
		assert.ErrorIs(t, err, ErrNoHeaderRow)
	})
}

func TestLocateHeaderLoose(t *testing.T) {
	t.Run("first row with a non-numeric label wins", func(t *testing.T) {
		g := Grid{
			row("", ""),
			row("Date", "Credit", "Description"),
			row("01/02/2024", "500", "RENT"),
		}
		idx, err := g.LocateHeaderLoose()
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("all-numeric rows never qualify", func(t *testing.T) {
		g := Grid{row("1", "2"), row("3,000", "4")}
		_, err := g.LocateHeaderLoose()
		assert.ErrorIs(t, err, ErrNoHeaderRow)
	})
}

func TestDataRows(t *testing.T) {
	g := Grid{row("Room"), row("A101"), row("A102")}
	assert.Len(t, g.DataRows(0), 2)
	assert.Nil(t, g.DataRows(2))
}

func TestBestGrid(t *testing.T) {
	t.Run("largest table wins", func(t *testing.T) {
		small := Grid{row("a", "b"), row("1", "2")}
		large := Grid{row("a", "b", "c"), row("1", "2", "3"), row("4", "5", "6")}
		assert.Equal(t, large, bestGrid([]Grid{small, large}))
	})

	t.Run("single-row sheets score nothing", func(t *testing.T) {
		cover := Grid{row("Report Cover", "x", "y", "z", "w")}
		table := Grid{row("Room"), row("A101")}
		assert.Equal(t, table, bestGrid([]Grid{cover, table}))
	})

	t.Run("no table anywhere returns nil", func(t *testing.T) {
		headerOnly := Grid{row("Room", "Tenant")}
		assert.Nil(t, bestGrid([]Grid{headerOnly, nil}))
	})

	t.Run("first sheet wins ties", func(t *testing.T) {
		a := Grid{row("a"), row("1")}
		b := Grid{row("b"), row("2")}
		assert.Equal(t, a, bestGrid([]Grid{a, b}))
	})
}

func TestCellFromString(t *testing.T) {
	assert.Equal(t, KindEmpty, FromString("   ").Kind)
	assert.Equal(t, KindNumber, FromString("4500.50").Kind)
	assert.Equal(t, KindText, FromString("A101").Kind)

	t.Run("numbers round-trip without trailing zeros", func(t *testing.T) {
		assert.Equal(t, "101", FromString("101").String())
		assert.Equal(t, "4500.5", FromString("4500.50").String())
	})

	t.Run("looks numeric with thousands separators", func(t *testing.T) {
		assert.True(t, TextCell("3,000").LooksNumeric())
		assert.False(t, TextCell("Credit").LooksNumeric())
	})
}
