package models

// RowDiff groups the cell comparisons of one row.
type RowDiff struct {
	// Row is the zero-based row index.
	Row int `json:"row"`
	// Type is the classification of the row as a whole.
	Type ChangeType `json:"type"`
	// Cells holds one entry per compared column.
	Cells []CellDiff `json:"cells"`
}

// DiffSummary counts rows and changed cells by classification.
type DiffSummary struct {
	AddedRows     int `json:"addedRows"`
	RemovedRows   int `json:"removedRows"`
	ModifiedRows  int `json:"modifiedRows"`
	UnchangedRows int `json:"unchangedRows"`
	AddedCells    int `json:"addedCells"`
	RemovedCells  int `json:"removedCells"`
	ModifiedCells int `json:"modifiedCells"`
}

// SpreadsheetDiff is the row-grouped change report between two grids.
type SpreadsheetDiff struct {
	// Rows holds one entry per row populated in either grid, ascending.
	Rows []RowDiff `json:"rows"`
	// AddedRows lists the indices of rows classified as added.
	AddedRows []int `json:"addedRows"`
	// RemovedRows lists the indices of rows classified as removed.
	RemovedRows []int `json:"removedRows"`
	// ModifiedRows lists the indices of rows classified as modified.
	ModifiedRows []int `json:"modifiedRows"`
	// Summary aggregates the counts of the report.
	Summary DiffSummary `json:"summary"`
}

// Changes returns the number of rows that are not unchanged.
func (d SpreadsheetDiff) Changes() int {
	return len(d.AddedRows) + len(d.RemovedRows) + len(d.ModifiedRows)
}
