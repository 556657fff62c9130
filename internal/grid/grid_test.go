package grid_test

import (
	"errors"
	"testing"

	"github.com/Gaurav-Gosain/toroid/internal/grid"
)

// =============================================================================
// Parse Tests
// =============================================================================

func TestParse_Empty(t *testing.T) {
	inputs := []string{"", "\n\n\n", "\r\n\r\n", "\r"}

	for _, in := range inputs {
		g, err := grid.Parse(in)
		if !errors.Is(err, grid.ErrEmptySource) {
			t.Errorf("Parse(%q): expected ErrEmptySource, got %v", in, err)
		}
		if g != nil {
			t.Errorf("Parse(%q): expected nil grid", in)
		}
	}
}

func TestParse_LineTerminators(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		lengths []int
	}{
		{"lf", "12\n34", 2, []int{2, 2}},
		{"crlf", "12\r\n34\r\n", 2, []int{2, 2}},
		{"cr only", "abc\rde", 2, []int{3, 2}},
		{"blank lines dropped", "\n\nab\n\n\ncde\n", 2, []int{2, 3}},
		{"single row", "xyz", 1, []int{3}},
		{"unicode", "äö\n€", 2, []int{2, 1}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := grid.Parse(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if g.RowCount() != tc.rows {
				t.Fatalf("expected %d rows, got %d", tc.rows, g.RowCount())
			}
			for r, want := range tc.lengths {
				if got := g.RowLength(r); got != want {
					t.Errorf("row %d: expected length %d, got %d", r, want, got)
				}
			}
		})
	}
}

// =============================================================================
// Lookup Tests
// =============================================================================

func TestCellAt(t *testing.T) {
	g, err := grid.Parse("12\n34")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]rune{{'1', '2'}, {'3', '4'}}
	for r := range want {
		for c := range want[r] {
			if got := g.CellAt(r, c); got != want[r][c] {
				t.Errorf("CellAt(%d, %d) = %q, want %q", r, c, got, want[r][c])
			}
		}
	}
}

func TestString(t *testing.T) {
	g, err := grid.Parse("ab\r\n\r\ncd\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := g.String(); got != "ab\ncd" {
		t.Errorf("String() = %q, want %q", got, "ab\ncd")
	}
}
