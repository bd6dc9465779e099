package history

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

func sheetFile(id, name string, values map[ref.Coord]string) models.File {
	g := grid.New()
	for c, v := range values {
		g.SetValue(c, v)
	}
	return models.File{ID: id, Name: name, Type: models.FileTypeSpreadsheet, Grid: g}
}

func TestCommitIsIndependentOfLaterMutation(t *testing.T) {
	store := NewStore(diff.DefaultOptions())
	file := sheetFile("s1", "budget", map[ref.Coord]string{{Row: 0, Col: 0}: "1"})
	file.Grid.Headers = []string{"Amount"}

	cp, err := store.Commit("initial", []models.File{file})
	require.NoError(t, err)
	require.NotEmpty(t, cp.ID)

	file.Grid.SetValue(ref.Coord{Row: 0, Col: 0}, "changed")
	file.Grid.Headers[0] = "Other"

	stored, err := store.Get(cp.ID)
	require.NoError(t, err)
	require.Len(t, stored.Files, 1)
	cell, ok := stored.Files[0].Grid.Get(ref.Coord{Row: 0, Col: 0})
	require.True(t, ok)
	assert.Equal(t, "1", cell.Value)
	assert.Equal(t, []string{"Amount"}, stored.Files[0].Grid.Headers)

	// Mutating a returned copy must not leak back into the store either.
	stored.Files[0].Grid.SetValue(ref.Coord{Row: 5, Col: 5}, "leak")
	again, err := store.Get(cp.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Files[0].Grid.Len())
}

func TestCommitCopiesRawContent(t *testing.T) {
	store := NewStore(diff.DefaultOptions())
	content := json.RawMessage(`{"text":"a"}`)
	doc := models.File{ID: "d1", Name: "notes", Type: models.FileTypeDocument, Content: content}

	cp, err := store.Commit("docs", []models.File{doc})
	require.NoError(t, err)

	content[9] = 'b'
	stored, err := store.Get(cp.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"a"}`, string(stored.Files[0].Content))
}

func TestListAndLatest(t *testing.T) {
	store := NewStore(diff.DefaultOptions())

	_, ok := store.Latest()
	assert.False(t, ok)
	assert.Empty(t, store.List())

	first, err := store.Commit("first", nil)
	require.NoError(t, err)
	second, err := store.Commit("second", []models.File{sheetFile("s1", "a", nil)})
	require.NoError(t, err)

	infos := store.List()
	require.Len(t, infos, 2)
	assert.Equal(t, first.ID, infos[0].ID)
	assert.Equal(t, second.ID, infos[1].ID)
	assert.Equal(t, 1, infos[1].FileCount)

	latest, ok := store.Latest()
	require.True(t, ok)
	assert.Equal(t, "second", latest.Label)
}

func TestDiffBetweenCheckpoints(t *testing.T) {
	store := NewStore(diff.DefaultOptions())

	before, err := store.Commit("before", []models.File{
		sheetFile("s1", "budget", map[ref.Coord]string{{Row: 0, Col: 0}: "x"}),
		sheetFile("s2", "old", nil),
	})
	require.NoError(t, err)
	after, err := store.Commit("after", []models.File{
		sheetFile("s1", "budget", map[ref.Coord]string{{Row: 0, Col: 0}: "x", {Row: 0, Col: 1}: "y"}),
	})
	require.NoError(t, err)

	diffs, err := store.Diff(before.ID, after.ID)
	require.NoError(t, err)
	require.Len(t, diffs, 2)

	assert.Equal(t, "budget", diffs[0].Name)
	assert.Equal(t, models.ChangeModified, diffs[0].Type)
	assert.Equal(t, 1, diffs[0].Changes)
	require.NotNil(t, diffs[0].SpreadsheetDiff)
	assert.Equal(t, []int{0}, diffs[0].SpreadsheetDiff.ModifiedRows)

	assert.Equal(t, "old", diffs[1].Name)
	assert.Equal(t, models.ChangeRemoved, diffs[1].Type)

	same, err := store.Diff(after.ID, after.ID)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestUnknownCheckpoint(t *testing.T) {
	store := NewStore(diff.DefaultOptions())
	cp, err := store.Commit("only", nil)
	require.NoError(t, err)

	_, err = store.Get("missing")
	assert.True(t, errors.Is(err, ErrCheckpointNotFound))

	_, err = store.Diff(cp.ID, "missing")
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
	_, err = store.Diff("missing", cp.ID)
	assert.ErrorIs(t, err, ErrCheckpointNotFound)
}

func TestConcurrentCommits(t *testing.T) {
	store := NewStore(diff.DefaultOptions())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Commit("parallel", []models.File{sheetFile("s1", "a", nil)})
			assert.NoError(t, err)
			store.List()
		}()
	}
	wg.Wait()

	infos := store.List()
	require.Len(t, infos, 20)
	seen := map[string]bool{}
	for _, info := range infos {
		assert.False(t, seen[info.ID], "duplicate checkpoint ID %s", info.ID)
		seen[info.ID] = true
	}
}
