package models

import (
	"encoding/json"
	"testing"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

func TestFileUnmarshalByType(t *testing.T) {
	input := `[
		{"id":"s1","name":"budget","type":"spreadsheet","data":{"data":{"0-0":{"value":"1","formula":null}}}},
		{"id":"c1","name":"sales","type":"chart","data":{"kind": "bar"}},
		{"id":"d1","name":"notes","type":"document","data":null}
	]`

	var files []File
	if err := json.Unmarshal([]byte(input), &files); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}

	if !files[0].IsSpreadsheet() || files[0].Grid == nil {
		t.Fatalf("Expected spreadsheet with grid, got %+v", files[0])
	}
	if cell, ok := files[0].Grid.Get(ref.Coord{}); !ok || cell.Value != "1" {
		t.Errorf("Expected A1=1, got %+v", cell)
	}

	chart := files[1]
	if chart.Type != FileTypeChart || chart.IsSpreadsheet() || chart.Grid != nil {
		t.Errorf("Expected chart without grid, got %+v", chart)
	}
	data, err := chart.SerializedData()
	if err != nil || string(data) != `{"kind":"bar"}` {
		t.Errorf("SerializedData = %s, %v", data, err)
	}

	if files[2].Type != FileTypeDocument || files[2].IsSpreadsheet() {
		t.Errorf("Expected document, got %+v", files[2])
	}
}

func TestWorkbookSheetAndFiles(t *testing.T) {
	wb := Workbook{
		BookName: "book.xlsx",
		Sheets: []Sheet{
			{Name: "Sheet1", Grid: grid.New()},
			{Name: "Notes", Grid: grid.New()},
		},
	}

	s, ok := wb.Sheet("Notes")
	if !ok || s.Name != "Notes" {
		t.Errorf("Sheet(Notes) = %+v, %v", s, ok)
	}
	if _, ok := wb.Sheet("Missing"); ok {
		t.Error("Expected Sheet(Missing) to report false")
	}

	files := wb.Files()
	if len(files) != 2 || files[0].ID != "Sheet1" || files[0].Type != FileTypeSpreadsheet {
		t.Errorf("Unexpected files: %+v", files)
	}
}
