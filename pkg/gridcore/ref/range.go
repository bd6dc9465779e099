package ref

import (
	"fmt"
	"iter"
	"strings"
)

// Range is an inclusive rectangle of cells. Start always holds the minimum
// row and column, End the maximum.
type Range struct {
	Start Coord `json:"start"`
	End   Coord `json:"end"`
}

// NewRange builds a normalized range from two corners in any order.
func NewRange(a, b Coord) Range {
	return Range{
		Start: Coord{Row: min(a.Row, b.Row), Col: min(a.Col, b.Col)},
		End:   Coord{Row: max(a.Row, b.Row), Col: max(a.Col, b.Col)},
	}
}

// ParseRange parses "A1:B10" or a bare "A1" (a single-cell range). Corner
// order does not matter: "B5:A1" equals "A1:B5".
func ParseRange(s string) (Range, error) {
	s = normalize(s)
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 1:
		c, err := ParseCell(parts[0])
		if err != nil {
			return Range{}, err
		}
		return Range{Start: c, End: c}, nil
	case 2:
		a, err := ParseCell(strings.TrimSpace(parts[0]))
		if err != nil {
			return Range{}, err
		}
		b, err := ParseCell(strings.TrimSpace(parts[1]))
		if err != nil {
			return Range{}, err
		}
		return NewRange(a, b), nil
	default:
		return Range{}, fmt.Errorf("%w: range %q", ErrInvalidReference, s)
	}
}

// FormatRange renders a range as "A1:B10", or "A1" for a single cell.
func FormatRange(r Range) string {
	if r.Start == r.End {
		return FormatCell(r.Start)
	}
	return FormatCell(r.Start) + ":" + FormatCell(r.End)
}

// String returns the A1 form of the range.
func (r Range) String() string {
	return FormatRange(r)
}

// Rows returns the number of rows covered by the range.
func (r Range) Rows() int {
	return r.End.Row - r.Start.Row + 1
}

// Cols returns the number of columns covered by the range.
func (r Range) Cols() int {
	return r.End.Col - r.Start.Col + 1
}

// Contains reports whether c lies inside the range.
func (r Range) Contains(c Coord) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Col >= r.Start.Col && c.Col <= r.End.Col
}

// Coords iterates over every cell of the range, row-major.
func (r Range) Coords() iter.Seq[Coord] {
	return func(yield func(Coord) bool) {
		for row := r.Start.Row; row <= r.End.Row; row++ {
			for col := r.Start.Col; col <= r.End.Col; col++ {
				if !yield(Coord{Row: row, Col: col}) {
					return
				}
			}
		}
	}
}
