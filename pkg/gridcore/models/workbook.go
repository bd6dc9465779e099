package models

import "github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"

// Sheet is a named grid loaded from a workbook.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"name"`
	// Grid holds the sheet's cells.
	Grid *grid.Grid `json:"grid"`
}

// Workbook represents a workbook-level container with its sheets in order.
type Workbook struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// Sheets holds the sheets in workbook order.
	Sheets []Sheet `json:"sheets"`
}

// Sheet returns the sheet with the given name.
func (w *Workbook) Sheet(name string) (Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return Sheet{}, false
}

// Files converts the workbook into a file listing with one spreadsheet file
// per sheet. The sheet name is used as the file ID.
func (w *Workbook) Files() []File {
	files := make([]File, 0, len(w.Sheets))
	for _, s := range w.Sheets {
		files = append(files, File{
			ID:   s.Name,
			Name: s.Name,
			Type: FileTypeSpreadsheet,
			Grid: s.Grid,
		})
	}
	return files
}
