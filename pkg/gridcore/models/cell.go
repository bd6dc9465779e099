// Package models defines the data structures exchanged by gridcore: files,
// workbooks and diff reports.
package models

// ChangeType classifies a cell, row or file in a diff report.
type ChangeType string

const (
	// ChangeAdded marks data present only in the new snapshot.
	ChangeAdded ChangeType = "added"
	// ChangeRemoved marks data present only in the old snapshot.
	ChangeRemoved ChangeType = "removed"
	// ChangeModified marks data present in both snapshots but different.
	ChangeModified ChangeType = "modified"
	// ChangeUnchanged marks data that is equal in both snapshots.
	ChangeUnchanged ChangeType = "unchanged"
)

// CellDiff compares one cell of two grid snapshots.
type CellDiff struct {
	// Row is the zero-based row index.
	Row int `json:"row"`
	// Col is the zero-based column index.
	Col int `json:"col"`
	// OldValue is the cell content in the old snapshot ("" when empty).
	OldValue string `json:"oldValue"`
	// NewValue is the cell content in the new snapshot ("" when empty).
	NewValue string `json:"newValue"`
	// Type is the classification of the cell.
	Type ChangeType `json:"type"`
}
