package export

import (
	"errors"
	"testing"
)

func TestParseCellRef(t *testing.T) {
	tests := []struct {
		ref string
		col int
		row int
	}{
		{"A1", 1, 1},
		{"A2", 1, 2},
		{"B2", 2, 2},
		{"Z9", 26, 9},
		{"AA10", 27, 10},
		{"AB3", 28, 3},
		{"b2", 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			col, row, err := ParseCellRef(tt.ref)
			if err != nil {
				t.Fatalf("ParseCellRef(%q) failed: %v", tt.ref, err)
			}
			if col != tt.col || row != tt.row {
				t.Errorf("ParseCellRef(%q) = (%d, %d), want (%d, %d)", tt.ref, col, row, tt.col, tt.row)
			}
		})
	}
}

func TestParseCellRefMalformed(t *testing.T) {
	for _, ref := range []string{"", "B", "2", "2B", "B2C", "B-2", "B2.5"} {
		t.Run(ref, func(t *testing.T) {
			_, _, err := ParseCellRef(ref)
			if !errors.Is(err, ErrCellRef) {
				t.Errorf("ParseCellRef(%q) err = %v, want ErrCellRef", ref, err)
			}
		})
	}
}
