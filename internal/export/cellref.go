package export

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrCellRef is returned when a cell reference does not match the expected
// pattern of one-or-more letters followed by one-or-more digits.
var ErrCellRef = errors.New("malformed cell reference")

// ParseCellRef splits a spreadsheet cell reference like "B2" or "AA10" into
// its 1-based column and row: "B2" -> (2, 2), "AA10" -> (27, 10).
func ParseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) {
		c := ref[i]
		if c >= 'A' && c <= 'Z' {
			col = col*26 + int(c-'A') + 1
		} else if c >= 'a' && c <= 'z' {
			col = col*26 + int(c-'a') + 1
		} else {
			break
		}
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, fmt.Errorf("%w: %q", ErrCellRef, ref)
	}
	row, convErr := strconv.Atoi(ref[i:])
	if convErr != nil || row < 1 {
		return 0, 0, fmt.Errorf("%w: %q", ErrCellRef, ref)
	}
	return col, row, nil
}
