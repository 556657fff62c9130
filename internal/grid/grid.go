// Package grid holds the immutable character rows a toroid viewport looks into.
package grid

import (
	"errors"
	"strings"
)

// ErrEmptySource is returned when the raw text contains no non-empty rows.
var ErrEmptySource = errors.New("source contains no non-empty rows")

// Grid is an immutable set of rune rows. Rows may differ in length but are
// never empty.
type Grid struct {
	rows [][]rune
}

// Parse splits raw on any run of carriage returns and line feeds, dropping
// empty lines. It fails with ErrEmptySource when no rows remain.
func Parse(raw string) (*Grid, error) {
	lines := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\r' || r == '\n'
	})
	if len(lines) == 0 {
		return nil, ErrEmptySource
	}

	rows := make([][]rune, len(lines))
	for i, line := range lines {
		rows[i] = []rune(line)
	}
	return &Grid{rows: rows}, nil
}

// RowCount returns the number of rows.
func (g *Grid) RowCount() int {
	return len(g.rows)
}

// RowLength returns the number of symbols in row r.
func (g *Grid) RowLength(r int) int {
	return len(g.rows[r])
}

// CellAt returns the symbol at an already wrapped position.
func (g *Grid) CellAt(row, col int) rune {
	return g.rows[row][col]
}

// String joins the rows with line feeds.
func (g *Grid) String() string {
	var sb strings.Builder
	for i, row := range g.rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}
