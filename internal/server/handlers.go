package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/diff"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/formula"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/history"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/models"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// Response codes.
const (
	CodeOK            = 0
	CodeBadRequest    = 1001
	CodeBadReference  = 1002
	CodeNotFound      = 4004
	CodeInternalError = 5000
)

// Response is the envelope of every API response.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

func errorResponse(c *gin.Context, status, code int, message string) {
	c.JSON(status, Response{
		Code:    code,
		Message: message,
	})
}

// Health reports liveness.
func (s *Server) Health(c *gin.Context) {
	success(c, gin.H{"status": "ok"})
}

type evaluateRequest struct {
	Grid    *grid.Grid `json:"grid"`
	Formula string     `json:"formula"`
	Cell    string     `json:"cell"`
	All     bool       `json:"all"`
}

// EvaluateResult is the evaluation of one formula or cell.
type EvaluateResult struct {
	Cell    string   `json:"cell,omitempty"`
	Formula string   `json:"formula,omitempty"`
	Display string   `json:"display"`
	Number  *float64 `json:"number,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Evaluate evaluates a formula, one cell, or every formula cell of a grid.
func (s *Server) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "invalid request: "+err.Error())
		return
	}
	if req.Grid == nil {
		req.Grid = grid.New()
	}

	switch {
	case req.All:
		results := []EvaluateResult{}
		for coord := range req.Grid.Coords() {
			cell, _ := req.Grid.Get(coord)
			if !cell.HasFormula() {
				continue
			}
			results = append(results, s.evaluateCell(req.Grid, coord, cell.Formula))
		}
		success(c, results)

	case req.Cell != "":
		coord, err := ref.ParseCell(req.Cell)
		if err != nil {
			errorResponse(c, http.StatusBadRequest, CodeBadReference, err.Error())
			return
		}
		cell, _ := req.Grid.Get(coord)
		success(c, s.evaluateCell(req.Grid, coord, cell.Formula))

	case req.Formula != "":
		v, err := s.engine.Evaluate(req.Formula, req.Grid)
		success(c, result(EvaluateResult{Formula: req.Formula}, v, err))

	default:
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "one of formula, cell or all is required")
	}
}

func (s *Server) evaluateCell(g *grid.Grid, coord ref.Coord, f string) EvaluateResult {
	v, err := s.engine.EvaluateCell(g, coord)
	return result(EvaluateResult{Cell: ref.FormatCell(coord), Formula: f}, v, err)
}

func result(r EvaluateResult, v formula.Value, err error) EvaluateResult {
	if err != nil {
		r.Display = formula.ErrorMarker
		r.Error = err.Error()
		return r
	}
	r.Display = v.String()
	if n, ok := v.Float(); ok {
		r.Number = &n
	}
	return r
}

type spreadsheetDiffRequest struct {
	Old     *grid.Grid `json:"old"`
	New     *grid.Grid `json:"new"`
	MaxRows int        `json:"maxRows"`
	MaxCols int        `json:"maxCols"`
}

// DiffSpreadsheets compares two grids.
func (s *Server) DiffSpreadsheets(c *gin.Context) {
	var req spreadsheetDiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "invalid request: "+err.Error())
		return
	}
	maxRows, maxCols := s.opts.MaxRows, s.opts.MaxCols
	if req.MaxRows > 0 {
		maxRows = req.MaxRows
	}
	if req.MaxCols > 0 {
		maxCols = req.MaxCols
	}
	success(c, diff.CompareSpreadsheets(req.Old, req.New, maxRows, maxCols))
}

type filesDiffRequest struct {
	Old []models.File `json:"old"`
	New []models.File `json:"new"`
}

// DiffFiles compares two project file listings.
func (s *Server) DiffFiles(c *gin.Context) {
	var req filesDiffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "invalid request: "+err.Error())
		return
	}
	diffs := diff.CompareFiles(req.Old, req.New, s.opts)
	if diffs == nil {
		diffs = []models.FileDiff{}
	}
	success(c, diffs)
}

type checkpointRequest struct {
	Label string        `json:"label"`
	Files []models.File `json:"files"`
}

// CreateCheckpoint stores a copy of the posted file listing.
func (s *Server) CreateCheckpoint(c *gin.Context) {
	var req checkpointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, CodeBadRequest, "invalid request: "+err.Error())
		return
	}
	cp, err := s.store.Commit(req.Label, req.Files)
	if err != nil {
		log.Errorf("commit checkpoint: %s", err)
		errorResponse(c, http.StatusInternalServerError, CodeInternalError, err.Error())
		return
	}
	success(c, history.Info{
		ID:        cp.ID,
		Label:     cp.Label,
		CreatedAt: cp.CreatedAt,
		FileCount: len(cp.Files),
	})
}

// ListCheckpoints lists checkpoints in creation order.
func (s *Server) ListCheckpoints(c *gin.Context) {
	success(c, s.store.List())
}

// GetCheckpoint returns one checkpoint with its files.
func (s *Server) GetCheckpoint(c *gin.Context) {
	cp, err := s.store.Get(c.Param("id"))
	if err != nil {
		s.checkpointError(c, err)
		return
	}
	success(c, cp)
}

// DiffCheckpoints compares two checkpoints.
func (s *Server) DiffCheckpoints(c *gin.Context) {
	diffs, err := s.store.Diff(c.Param("id"), c.Param("to"))
	if err != nil {
		s.checkpointError(c, err)
		return
	}
	if diffs == nil {
		diffs = []models.FileDiff{}
	}
	success(c, diffs)
}

func (s *Server) checkpointError(c *gin.Context, err error) {
	if errors.Is(err, history.ErrCheckpointNotFound) {
		errorResponse(c, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}
	log.Errorf("checkpoint: %s", err)
	errorResponse(c, http.StatusInternalServerError, CodeInternalError, err.Error())
}
