package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
)

// FileType is the kind of a project file. Only spreadsheets are diffed at
// cell level.
type FileType string

const (
	// FileTypeSpreadsheet marks a file whose data is a grid.
	FileTypeSpreadsheet FileType = "spreadsheet"
	// FileTypeDocument marks a text document kept as raw JSON.
	FileTypeDocument FileType = "document"
	// FileTypeChart marks a chart definition kept as raw JSON.
	FileTypeChart FileType = "chart"
)

// File is one entry of a project file listing.
type File struct {
	// ID is the stable identity of the file across snapshots.
	ID string
	// Name is the display name; renaming keeps the ID.
	Name string
	// Type selects how the file's data is interpreted.
	Type FileType
	// Grid holds the cells of a spreadsheet file.
	Grid *grid.Grid
	// Content holds the raw data of any other file type.
	Content json.RawMessage
}

type fileJSON struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Type FileType        `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// IsSpreadsheet reports whether the file carries a grid.
func (f File) IsSpreadsheet() bool {
	return f.Type == FileTypeSpreadsheet
}

// SerializedData returns the canonical JSON of the file's data, used to
// decide whether two versions of a file differ.
func (f File) SerializedData() ([]byte, error) {
	if f.IsSpreadsheet() {
		if f.Grid == nil {
			return json.Marshal(grid.New())
		}
		return json.Marshal(f.Grid)
	}
	if len(f.Content) == 0 {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, f.Content); err != nil {
		return nil, fmt.Errorf("file %s: %w", f.ID, err)
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the file as {id, name, type, data}.
func (f File) MarshalJSON() ([]byte, error) {
	data, err := f.SerializedData()
	if err != nil {
		return nil, err
	}
	return json.Marshal(fileJSON{ID: f.ID, Name: f.Name, Type: f.Type, Data: data})
}

// UnmarshalJSON decodes a file. Spreadsheet data is decoded into a grid.
func (f *File) UnmarshalJSON(data []byte) error {
	var in fileJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = File{ID: in.ID, Name: in.Name, Type: in.Type}
	if f.IsSpreadsheet() {
		f.Grid = grid.New()
		if len(in.Data) > 0 && string(in.Data) != "null" {
			if err := json.Unmarshal(in.Data, f.Grid); err != nil {
				return fmt.Errorf("file %s: %w", in.ID, err)
			}
		}
		return nil
	}
	f.Content = in.Data
	return nil
}

// FileDiff is one entry of a file-level diff.
type FileDiff struct {
	// FileID is the stable identity of the file.
	FileID string `json:"fileId"`
	// Name is the current name (the old name for removed files).
	Name string `json:"name"`
	// OldName is set when a modified file was renamed.
	OldName string `json:"oldName,omitempty"`
	// FileType is the type of the file.
	FileType FileType `json:"fileType"`
	// Type is the change classification.
	Type ChangeType `json:"type"`
	// Changes is the number of changed rows for a modified spreadsheet and 1
	// for every other entry.
	Changes int `json:"changes"`
	// Modified is true for modified files that have no cell-level detail.
	Modified bool `json:"modified,omitempty"`
	// SpreadsheetDiff is the cell-level report of a modified spreadsheet.
	SpreadsheetDiff *SpreadsheetDiff `json:"spreadsheetDiff,omitempty"`
}
