package diff

import (
	"bytes"
	"slices"
	"strings"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
)

// CompareFiles classifies every file of two project snapshots by file ID.
// Unchanged files are omitted and the result is sorted by name.
func CompareFiles(oldFiles, newFiles []models.File, opts Options) []models.FileDiff {
	opts = opts.normalized()

	oldByID := make(map[string]models.File, len(oldFiles))
	for _, f := range oldFiles {
		oldByID[f.ID] = f
	}
	newIDs := make(map[string]struct{}, len(newFiles))

	var diffs []models.FileDiff
	for _, nf := range newFiles {
		newIDs[nf.ID] = struct{}{}
		of, ok := oldByID[nf.ID]
		if !ok {
			diffs = append(diffs, models.FileDiff{
				FileID:   nf.ID,
				Name:     nf.Name,
				FileType: nf.Type,
				Type:     models.ChangeAdded,
				Changes:  1,
			})
			continue
		}
		if d, changed := compareFile(of, nf, opts); changed {
			diffs = append(diffs, d)
		}
	}

	for _, of := range oldFiles {
		if _, ok := newIDs[of.ID]; ok {
			continue
		}
		diffs = append(diffs, models.FileDiff{
			FileID:   of.ID,
			Name:     of.Name,
			FileType: of.Type,
			Type:     models.ChangeRemoved,
			Changes:  1,
		})
	}

	slices.SortStableFunc(diffs, func(a, b models.FileDiff) int {
		return strings.Compare(a.Name, b.Name)
	})
	return diffs
}

func compareFile(oldFile, newFile models.File, opts Options) (models.FileDiff, bool) {
	renamed := oldFile.Name != newFile.Name
	if !renamed && sameContent(oldFile, newFile) {
		return models.FileDiff{}, false
	}

	d := models.FileDiff{
		FileID:   newFile.ID,
		Name:     newFile.Name,
		FileType: newFile.Type,
		Type:     models.ChangeModified,
		Changes:  1,
	}
	if renamed {
		d.OldName = oldFile.Name
	}

	if oldFile.IsSpreadsheet() && newFile.IsSpreadsheet() {
		sd := CompareSpreadsheets(oldFile.Grid, newFile.Grid, opts.MaxRows, opts.MaxCols)
		d.SpreadsheetDiff = &sd
		d.Changes = sd.Changes()
		return d, true
	}
	d.Modified = true
	return d, true
}

func sameContent(a, b models.File) bool {
	if a.Type != b.Type {
		return false
	}
	// Data that cannot be serialized is reported as modified.
	ad, err := a.SerializedData()
	if err != nil {
		return false
	}
	bd, err := b.SerializedData()
	if err != nil {
		return false
	}
	return bytes.Equal(ad, bd)
}
