// Package history keeps in-memory checkpoints of project file listings and
// diffs them against each other.
package history

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"
	"github.com/tliron/commonlog"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
)

var log = commonlog.GetLogger("gridcore.history")

// ErrCheckpointNotFound is returned when a checkpoint ID is unknown.
var ErrCheckpointNotFound = errors.New("checkpoint not found")

// Checkpoint is an immutable snapshot of a project file listing.
type Checkpoint struct {
	ID        string        `json:"id"`
	Label     string        `json:"label"`
	CreatedAt time.Time     `json:"createdAt"`
	Files     []models.File `json:"files"`
}

// Info is the listing view of a checkpoint, without file data.
type Info struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
}

// Store holds checkpoints in creation order. It is safe for concurrent use.
// Files are copied on the way in and on the way out, so callers never share
// grids with the store.
type Store struct {
	mu          sync.RWMutex
	checkpoints []Checkpoint
	byID        map[string]int
	opts        diff.Options
	now         func() time.Time
}

// NewStore creates an empty store that diffs with the given bound.
func NewStore(opts diff.Options) *Store {
	return &Store{
		byID: make(map[string]int),
		opts: opts,
		now:  time.Now,
	}
}

// Commit records a deep copy of files under a new checkpoint ID.
func (s *Store) Commit(label string, files []models.File) (Checkpoint, error) {
	snapshot, err := copyFiles(files)
	if err != nil {
		return Checkpoint{}, fmt.Errorf("commit %q: %w", label, err)
	}

	cp := Checkpoint{
		ID:        uuid.New().String(),
		Label:     label,
		CreatedAt: s.now(),
		Files:     snapshot,
	}

	s.mu.Lock()
	s.byID[cp.ID] = len(s.checkpoints)
	s.checkpoints = append(s.checkpoints, cp)
	s.mu.Unlock()

	log.Infof("committed checkpoint %s (%q, %d files)", cp.ID, label, len(files))
	return s.export(cp)
}

// Get returns a copy of the checkpoint with the given ID.
func (s *Store) Get(id string) (Checkpoint, error) {
	s.mu.RLock()
	idx, ok := s.byID[id]
	var cp Checkpoint
	if ok {
		cp = s.checkpoints[idx]
	}
	s.mu.RUnlock()

	if !ok {
		return Checkpoint{}, fmt.Errorf("%w: %s", ErrCheckpointNotFound, id)
	}
	return s.export(cp)
}

// List returns every checkpoint in creation order.
func (s *Store) List() []Info {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]Info, 0, len(s.checkpoints))
	for _, cp := range s.checkpoints {
		infos = append(infos, Info{
			ID:        cp.ID,
			Label:     cp.Label,
			CreatedAt: cp.CreatedAt,
			FileCount: len(cp.Files),
		})
	}
	return infos
}

// Latest returns the most recent checkpoint.
func (s *Store) Latest() (Checkpoint, bool) {
	s.mu.RLock()
	if len(s.checkpoints) == 0 {
		s.mu.RUnlock()
		return Checkpoint{}, false
	}
	cp := s.checkpoints[len(s.checkpoints)-1]
	s.mu.RUnlock()

	out, err := s.export(cp)
	if err != nil {
		log.Errorf("copy checkpoint %s: %s", cp.ID, err)
		return Checkpoint{}, false
	}
	return out, true
}

// Diff compares two checkpoints file by file.
func (s *Store) Diff(fromID, toID string) ([]models.FileDiff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	fromIdx, ok := s.byID[fromID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, fromID)
	}
	toIdx, ok := s.byID[toID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, toID)
	}

	// Stored files are never mutated, so the diff reads them in place.
	return diff.CompareFiles(s.checkpoints[fromIdx].Files, s.checkpoints[toIdx].Files, s.opts), nil
}

func (s *Store) export(cp Checkpoint) (Checkpoint, error) {
	files, err := copyFiles(cp.Files)
	if err != nil {
		return Checkpoint{}, err
	}
	cp.Files = files
	return cp, nil
}

func copyFiles(files []models.File) ([]models.File, error) {
	out := make([]models.File, 0, len(files))
	if err := deepcopy.Copy(&out, &files); err != nil {
		return nil, fmt.Errorf("copy files: %w", err)
	}
	if out == nil {
		out = []models.File{}
	}
	return out, nil
}
