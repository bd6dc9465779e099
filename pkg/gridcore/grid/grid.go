// Package grid defines the sparse cell grid shared by the formula evaluator
// and the diff engine.
package grid

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// ErrInvalidKey indicates a cell key that is not of the form "{row}-{col}".
var ErrInvalidKey = errors.New("invalid cell key")

// Cell is a single grid entry. A cell with a non-empty Formula is derived and
// its Value is not used for computation; otherwise Value is the literal text.
type Cell struct {
	Value   string
	Formula string
}

// HasFormula reports whether the formula is the source of truth for the cell.
func (c Cell) HasFormula() bool {
	return c.Formula != ""
}

// Content returns the authoritative text of the cell.
func (c Cell) Content() string {
	if c.HasFormula() {
		return c.Formula
	}
	return c.Value
}

// IsEmpty reports whether the cell carries no data at all.
func (c Cell) IsEmpty() bool {
	return c.Content() == ""
}

// Grid is a sparse mapping from coordinates to cells. Missing coordinates are
// empty cells. Headers optionally override column letters for display.
type Grid struct {
	Cells   map[ref.Coord]Cell
	Headers []string
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{Cells: make(map[ref.Coord]Cell)}
}

// Get returns the cell at c. A nil grid has no cells.
func (g *Grid) Get(c ref.Coord) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	cell, ok := g.Cells[c]
	return cell, ok
}

// Set stores a cell. Storing an empty cell removes the entry.
func (g *Grid) Set(c ref.Coord, cell Cell) {
	if cell.IsEmpty() {
		delete(g.Cells, c)
		return
	}
	if g.Cells == nil {
		g.Cells = make(map[ref.Coord]Cell)
	}
	g.Cells[c] = cell
}

// SetValue stores a literal cell.
func (g *Grid) SetValue(c ref.Coord, value string) {
	g.Set(c, Cell{Value: value})
}

// SetFormula stores a derived cell. The formula is expected to start with "=".
func (g *Grid) SetFormula(c ref.Coord, formula string) {
	g.Set(c, Cell{Formula: formula})
}

// Delete removes the cell at c.
func (g *Grid) Delete(c ref.Coord) {
	delete(g.Cells, c)
}

// Len returns the number of populated cells.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.Cells)
}

// Clone returns a deep, independent copy of the grid.
func (g *Grid) Clone() *Grid {
	if g == nil {
		return New()
	}
	out := &Grid{
		Cells:   maps.Clone(g.Cells),
		Headers: slices.Clone(g.Headers),
	}
	if out.Cells == nil {
		out.Cells = make(map[ref.Coord]Cell)
	}
	return out
}

// Coords iterates over populated coordinates in row-major order.
func (g *Grid) Coords() iter.Seq[ref.Coord] {
	return func(yield func(ref.Coord) bool) {
		if g == nil {
			return
		}
		keys := slices.SortedFunc(maps.Keys(g.Cells), compareCoords)
		for _, c := range keys {
			if !yield(c) {
				return
			}
		}
	}
}

// Bounds returns the last populated row and column. ok is false for an empty
// grid.
func (g *Grid) Bounds() (maxRow, maxCol int, ok bool) {
	if g == nil {
		return -1, -1, false
	}
	maxRow, maxCol = -1, -1
	for c, cell := range g.Cells {
		if cell.IsEmpty() {
			continue
		}
		maxRow = max(maxRow, c.Row)
		maxCol = max(maxCol, c.Col)
	}
	return maxRow, maxCol, maxRow >= 0
}

// ColumnLabel returns the display label for a column: the header when one is
// set, otherwise the column letters. Addressing never uses headers.
func (g *Grid) ColumnLabel(col int) string {
	if g != nil && col >= 0 && col < len(g.Headers) && g.Headers[col] != "" {
		return g.Headers[col]
	}
	return ref.ColumnName(col)
}

// Key formats a coordinate as the external "{row}-{col}" cell key.
func Key(c ref.Coord) string {
	return strconv.Itoa(c.Row) + "-" + strconv.Itoa(c.Col)
}

// ParseKey parses a "{row}-{col}" cell key. Both parts must be non-negative
// base-10 integers without leading zeros.
func ParseKey(key string) (ref.Coord, error) {
	rowPart, colPart, found := strings.Cut(key, "-")
	if !found {
		return ref.Coord{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	row, err := parseIndex(rowPart)
	if err != nil {
		return ref.Coord{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	col, err := parseIndex(colPart)
	if err != nil {
		return ref.Coord{}, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return ref.Coord{Row: row, Col: col}, nil
}

func parseIndex(s string) (int, error) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return 0, ErrInvalidKey
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidKey
		}
	}
	return strconv.Atoi(s)
}

func compareCoords(a, b ref.Coord) int {
	if c := cmp.Compare(a.Row, b.Row); c != 0 {
		return c
	}
	return cmp.Compare(a.Col, b.Col)
}
