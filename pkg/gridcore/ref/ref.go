// Package ref converts A1-style cell references and ranges to and from
// zero-based grid coordinates.
package ref

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidReference indicates a malformed cell or range reference.
var ErrInvalidReference = errors.New("invalid reference")

// Coord is a resolved zero-based (row, col) position.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String returns the A1 form of the coordinate.
func (c Coord) String() string {
	return FormatCell(c)
}

// ColumnName returns the bijective base-26 letters for a zero-based column
// index: 0 -> A, 25 -> Z, 26 -> AA.
func ColumnName(col int) string {
	if col < 0 {
		return ""
	}
	var buf [16]byte
	i := len(buf)
	for n := col + 1; n > 0; n = (n - 1) / 26 {
		i--
		buf[i] = byte('A' + (n-1)%26)
	}
	return string(buf[i:])
}

// ColumnIndex decodes column letters (case-insensitive) into a zero-based
// column index.
func ColumnIndex(letters string) (int, error) {
	if letters == "" {
		return 0, fmt.Errorf("%w: empty column", ErrInvalidReference)
	}
	n := 0
	for i := 0; i < len(letters); i++ {
		ch := letters[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("%w: column %q", ErrInvalidReference, letters)
		}
		if n > (math.MaxInt-26)/26 {
			return 0, fmt.Errorf("%w: column %q out of range", ErrInvalidReference, letters)
		}
		n = n*26 + int(ch-'A'+1)
	}
	return n - 1, nil
}

// ParseCell parses a reference such as "A1" or "aa12".
func ParseCell(s string) (Coord, error) {
	letters, digits, ok := splitCell(s)
	if !ok {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	col, err := ColumnIndex(letters)
	if err != nil {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	row, err := strconv.Atoi(digits)
	if err != nil || row < 1 {
		return Coord{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	return Coord{Row: row - 1, Col: col}, nil
}

// IsCell reports whether s has the shape of a single cell reference.
func IsCell(s string) bool {
	_, err := ParseCell(s)
	return err == nil
}

// FormatCell renders a coordinate in A1 form.
func FormatCell(c Coord) string {
	return ColumnName(c.Col) + strconv.Itoa(c.Row+1)
}

// splitCell splits s into a non-empty letter run followed by a non-empty
// digit run.
func splitCell(s string) (letters, digits string, ok bool) {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i == len(s) {
		return "", "", false
	}
	for j := i; j < len(s); j++ {
		if s[j] < '0' || s[j] > '9' {
			return "", "", false
		}
	}
	return s[:i], s[i:], true
}

func isLetter(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z')
}

// normalize uppercases and trims a user-supplied reference.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
