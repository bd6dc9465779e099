// Package parser reads workbook sheets into grids.
package parser

import (
	"github.com/tliron/commonlog"
	"github.com/xuri/excelize/v2"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

var log = commonlog.GetLogger("gridcore.parser")

// maxFormulaScan caps the number of cells probed for formulas when the sheet
// dimension is larger than the populated rows.
const maxFormulaScan = 1 << 20

// ExtractGrid reads a sheet into a grid. Values are the cached cell values;
// when includeFormulas is set, formula cells also carry their formula with a
// leading "=".
func ExtractGrid(f *excelize.File, sheetName string, includeFormulas bool) (*grid.Grid, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	g := grid.New()
	width := 0
	for rowIdx, row := range rows {
		width = max(width, len(row))
		for colIdx, cellValue := range row {
			if cellValue == "" {
				continue
			}
			g.SetValue(ref.Coord{Row: rowIdx, Col: colIdx}, cellValue)
		}
	}

	if !includeFormulas {
		return g, nil
	}

	area := ref.Range{End: ref.Coord{Row: len(rows) - 1, Col: width - 1}}
	if dim, err := sheetDimension(f, sheetName); err == nil {
		grown := ref.NewRange(ref.Coord{}, ref.Coord{
			Row: max(area.End.Row, dim.End.Row),
			Col: max(area.End.Col, dim.End.Col),
		})
		if grown.Rows()*grown.Cols() <= maxFormulaScan {
			area = grown
		} else {
			log.Warningf("sheet %q: dimension %s too large, scanning populated rows only", sheetName, dim)
		}
	}
	if area.End.Row < 0 || area.End.Col < 0 {
		return g, nil
	}

	for c := range area.Coords() {
		cellName, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
		if err != nil {
			return nil, err
		}
		formula, err := f.GetCellFormula(sheetName, cellName)
		if err != nil {
			return nil, err
		}
		if formula == "" {
			continue
		}
		cell, _ := g.Get(c)
		cell.Formula = "=" + formula
		g.Set(c, cell)
	}

	return g, nil
}

// ExtractHeaders returns the first row of a sheet, used as column labels.
func ExtractHeaders(f *excelize.File, sheetName string) ([]string, error) {
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func sheetDimension(f *excelize.File, sheetName string) (ref.Range, error) {
	dim, err := f.GetSheetDimension(sheetName)
	if err != nil {
		return ref.Range{}, err
	}
	return ref.ParseRange(dim)
}
