// Package diff compares grid snapshots and project file listings.
package diff

import (
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
)

const (
	// DefaultMaxRows is the number of rows compared when no bound is given.
	DefaultMaxRows = 1000
	// DefaultMaxCols is the number of columns compared when no bound is given.
	DefaultMaxCols = 26
)

// Options bounds the comparison area. Populated cells outside the bound are
// not reported.
type Options struct {
	MaxRows int
	MaxCols int
}

// DefaultOptions returns options with the default bound.
func DefaultOptions() Options {
	return Options{MaxRows: DefaultMaxRows, MaxCols: DefaultMaxCols}
}

func (o Options) normalized() Options {
	if o.MaxRows <= 0 {
		o.MaxRows = DefaultMaxRows
	}
	if o.MaxCols <= 0 {
		o.MaxCols = DefaultMaxCols
	}
	return o
}

// CompareSpreadsheets produces the row-grouped change report between two grid
// snapshots. Non-positive bounds fall back to the defaults; nil grids are
// treated as empty. Neither grid is modified.
func CompareSpreadsheets(oldGrid, newGrid *grid.Grid, maxRows, maxCols int) models.SpreadsheetDiff {
	opts := Options{MaxRows: maxRows, MaxCols: maxCols}.normalized()

	oldRows := materialize(oldGrid, opts)
	newRows := materialize(newGrid, opts)

	_, oldMaxRow, _, oldMaxCol := findDataBounds(oldRows)
	_, newMaxRow, _, newMaxCol := findDataBounds(newRows)
	rowCount := max(oldMaxRow, newMaxRow) + 1
	colCount := max(oldMaxCol, newMaxCol) + 1

	result := models.SpreadsheetDiff{
		Rows:         []models.RowDiff{},
		AddedRows:    []int{},
		RemovedRows:  []int{},
		ModifiedRows: []int{},
	}

	for r := 0; r < rowCount; r++ {
		oldRow := rowAt(oldRows, r)
		newRow := rowAt(newRows, r)
		hasOld := !isEmptyRow(oldRow)
		hasNew := !isEmptyRow(newRow)
		if !hasOld && !hasNew {
			continue
		}

		row := models.RowDiff{Row: r, Cells: make([]models.CellDiff, 0, colCount)}
		changed := false
		for c := 0; c < colCount; c++ {
			cell := compareCell(r, c, cellAt(oldRow, c), cellAt(newRow, c))
			switch cell.Type {
			case models.ChangeAdded:
				result.Summary.AddedCells++
				changed = true
			case models.ChangeRemoved:
				result.Summary.RemovedCells++
				changed = true
			case models.ChangeModified:
				result.Summary.ModifiedCells++
				changed = true
			}
			row.Cells = append(row.Cells, cell)
		}

		switch {
		case hasOld && !hasNew:
			row.Type = models.ChangeRemoved
			result.RemovedRows = append(result.RemovedRows, r)
			result.Summary.RemovedRows++
		case hasNew && !hasOld:
			row.Type = models.ChangeAdded
			result.AddedRows = append(result.AddedRows, r)
			result.Summary.AddedRows++
		case changed:
			row.Type = models.ChangeModified
			result.ModifiedRows = append(result.ModifiedRows, r)
			result.Summary.ModifiedRows++
		default:
			row.Type = models.ChangeUnchanged
			result.Summary.UnchangedRows++
		}
		result.Rows = append(result.Rows, row)
	}

	return result
}

func compareCell(r, c int, oldValue, newValue string) models.CellDiff {
	d := models.CellDiff{Row: r, Col: c, OldValue: oldValue, NewValue: newValue}
	switch {
	case oldValue == newValue:
		d.Type = models.ChangeUnchanged
	case oldValue == "":
		d.Type = models.ChangeAdded
	case newValue == "":
		d.Type = models.ChangeRemoved
	default:
		d.Type = models.ChangeModified
	}
	return d
}

// materialize lays the grid out as dense rows of cell contents, dropping
// every cell outside the bound. Rows are only as long as their last cell.
func materialize(g *grid.Grid, opts Options) [][]string {
	maxRow, maxCol, ok := g.Bounds()
	if !ok {
		return nil
	}
	rows := make([][]string, min(maxRow+1, opts.MaxRows))
	width := min(maxCol+1, opts.MaxCols)
	for c, cell := range g.Cells {
		if c.Row >= len(rows) || c.Col >= width || cell.IsEmpty() {
			continue
		}
		row := rows[c.Row]
		if len(row) <= c.Col {
			row = append(row, make([]string, c.Col+1-len(row))...)
		}
		row[c.Col] = cell.Content()
		rows[c.Row] = row
	}
	return rows
}

// findDataBounds finds the bounding box of non-empty cells. All bounds are -1
// when there is no data.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				maxRow = max(maxRow, rowIdx)
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				maxCol = max(maxCol, colIdx)
			}
		}
	}

	return
}

func rowAt(rows [][]string, r int) []string {
	if r < len(rows) {
		return rows[r]
	}
	return nil
}

func cellAt(row []string, c int) string {
	if c < len(row) {
		return row[c]
	}
	return ""
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
