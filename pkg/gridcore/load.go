package gridcore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	"github.com/xuri/excelize/v2"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/parser"
)

var log = commonlog.GetLogger("gridcore.load")

// LoadWorkbook reads every sheet of an Excel file into a grid.
func LoadWorkbook(path string, opts Options) (*models.Workbook, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer f.Close()

	for _, name := range opts.Sheets {
		if idx, _ := f.GetSheetIndex(name); idx < 0 {
			return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, name, path)
		}
	}

	wb := &models.Workbook{BookName: filepath.Base(path)}
	for _, sheetName := range f.GetSheetList() {
		if !opts.wantsSheet(sheetName) {
			continue
		}

		g, err := parser.ExtractGrid(f, sheetName, opts.IncludeFormulas())
		if err != nil {
			return nil, NewLoadError(sheetName, "cells", err)
		}
		if opts.HeaderRow {
			headers, err := parser.ExtractHeaders(f, sheetName)
			if err != nil {
				return nil, NewLoadError(sheetName, "headers", err)
			}
			g.Headers = headers
		}

		log.Debugf("loaded sheet %q: %d cells", sheetName, g.Len())
		wb.Sheets = append(wb.Sheets, models.Sheet{Name: sheetName, Grid: g})
	}

	return wb, nil
}

// LoadGrid reads one grid from an Excel file or a JSON grid document. An
// empty sheet name selects the first sheet of a workbook; it is ignored for
// JSON input.
func LoadGrid(path, sheet string, opts Options) (*grid.Grid, error) {
	if isJSON(path) {
		if err := checkFile(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		g := grid.New()
		if err := json.Unmarshal(data, g); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
		}
		return g, nil
	}

	if sheet != "" {
		opts.Sheets = []string{sheet}
	}
	wb, err := LoadWorkbook(path, opts)
	if err != nil {
		return nil, err
	}
	if sheet != "" {
		s, ok := wb.Sheet(sheet)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, path)
		}
		return s.Grid, nil
	}
	if len(wb.Sheets) == 0 {
		return nil, fmt.Errorf("%w: %s has no sheets", ErrSheetNotFound, path)
	}
	return wb.Sheets[0].Grid, nil
}

// LoadSnapshot reads a JSON project file listing. Both a bare array of files
// and an object with a "files" array are accepted.
func LoadSnapshot(path string) ([]models.File, error) {
	if err := checkFile(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	files, err := decodeSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	return files, nil
}

// LoadFiles reads a file listing from either a JSON snapshot or a workbook,
// where each sheet becomes a spreadsheet file identified by its name.
func LoadFiles(path string, opts Options) ([]models.File, error) {
	if isJSON(path) {
		return LoadSnapshot(path)
	}
	wb, err := LoadWorkbook(path, opts)
	if err != nil {
		return nil, err
	}
	return wb.Files(), nil
}

func decodeSnapshot(data []byte) ([]models.File, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var files []models.File
		if err := json.Unmarshal(data, &files); err != nil {
			return nil, err
		}
		return files, nil
	}
	var doc struct {
		Files []models.File `json:"files"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Files, nil
}

func checkFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return err
	}
	return nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
