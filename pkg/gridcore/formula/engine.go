// Package formula evaluates cell formulas over a sparse grid.
//
// Evaluation is recompute-on-read: every call walks referenced cells again
// and nothing is cached. Errors raised while resolving a referenced cell read
// as 0 so that one broken cell does not take down the cells that use it. A
// circular reference fails every cell on the cycle and reads as 0 outside it.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/grid"
	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// DefaultMaxDepth bounds how many formula cells may be nested while resolving
// a single evaluation.
const DefaultMaxDepth = 256

// Evaluator turns a formula into a value against a grid snapshot. It must not
// mutate the grid.
type Evaluator interface {
	Evaluate(formula string, g *grid.Grid) (Value, error)
}

// Engine is the default Evaluator.
type Engine struct {
	MaxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth sets the nesting limit after which evaluation fails with
// ErrCircularReference.
func WithMaxDepth(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.MaxDepth = n
		}
	}
}

// NewEngine returns an engine with the given options applied.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// Evaluate evaluates formula against g with the default engine.
func Evaluate(formula string, g *grid.Grid) (Value, error) {
	return defaultEngine.Evaluate(formula, g)
}

// EvaluateCell evaluates the cell stored at c with the default engine.
func EvaluateCell(g *grid.Grid, c ref.Coord) (Value, error) {
	return defaultEngine.EvaluateCell(g, c)
}

// Render evaluates formula with the default engine and returns its display
// text, or ErrorMarker on failure.
func Render(formula string, g *grid.Grid) string {
	return defaultEngine.Render(formula, g)
}

// RenderCell returns the display text of the cell stored at c.
func RenderCell(g *grid.Grid, c ref.Coord) string {
	return defaultEngine.RenderCell(g, c)
}

// Evaluate implements Evaluator. A formula that does not start with "=" is a
// literal and comes back unchanged as text.
func (e *Engine) Evaluate(formula string, g *grid.Grid) (Value, error) {
	s := e.newState(g)
	v, err := s.evalFormula(formula)
	if err != nil {
		return Value{}, &EvalError{Formula: formula, Err: err}
	}
	return v, nil
}

// EvaluateCell evaluates the cell stored at c. Literal cells that parse as
// numbers come back as numbers, other literals as text, and a missing cell as
// empty text.
func (e *Engine) EvaluateCell(g *grid.Grid, c ref.Coord) (Value, error) {
	cell, ok := g.Get(c)
	if !ok {
		return Text(""), nil
	}
	if !cell.HasFormula() {
		if n, ok := parseNumber(cell.Value); ok {
			return Number(n), nil
		}
		return Text(cell.Value), nil
	}
	s := e.newState(g)
	v, err := s.enter(c, cell.Formula)
	if err != nil {
		return Value{}, &EvalError{Formula: cell.Formula, Err: err}
	}
	return v, nil
}

// Render returns the display text for formula.
func (e *Engine) Render(formula string, g *grid.Grid) string {
	v, err := e.Evaluate(formula, g)
	if err != nil {
		return ErrorMarker
	}
	return v.String()
}

// RenderCell returns the display text for the cell stored at c.
func (e *Engine) RenderCell(g *grid.Grid, c ref.Coord) string {
	cell, ok := g.Get(c)
	if !ok {
		return ""
	}
	if !cell.HasFormula() {
		return cell.Value
	}
	v, err := e.EvaluateCell(g, c)
	if err != nil {
		return ErrorMarker
	}
	return v.String()
}

// state carries one evaluation: the grid, the cells currently being resolved
// and the nesting depth.
type state struct {
	grid     *grid.Grid
	maxDepth int
	depth    int
	visiting map[ref.Coord]bool
}

func (e *Engine) newState(g *grid.Grid) *state {
	maxDepth := e.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &state{
		grid:     g,
		maxDepth: maxDepth,
		visiting: make(map[ref.Coord]bool),
	}
}

func (s *state) evalFormula(formula string) (Value, error) {
	if !strings.HasPrefix(formula, "=") {
		return Text(formula), nil
	}
	// The whole expression is upper-cased; there are no string literal
	// arguments in the built-in set for this to damage. Absolute markers
	// carry no meaning here.
	body := strings.ReplaceAll(formula[1:], "$", "")
	return s.evalExpr(strings.ToUpper(strings.TrimSpace(body)))
}

func (s *state) evalExpr(expr string) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return Value{}, fmt.Errorf("%w: empty expression", ErrInvalidFormula)
	}
	if name, inner, ok := splitCall(expr); ok {
		return s.call(name, inner)
	}
	if strings.ContainsAny(expr, "+-*/") {
		n, err := s.arithmetic(expr)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	}
	if c, err := ref.ParseCell(expr); err == nil {
		n, err := s.cellNumber(c)
		if err != nil {
			return Value{}, err
		}
		return Number(n), nil
	}
	return Value{}, fmt.Errorf("%w: %q", ErrInvalidFormula, expr)
}

// enter evaluates the formula stored at c, guarding against cycles.
func (s *state) enter(c ref.Coord, formula string) (Value, error) {
	if s.visiting[c] {
		return Value{}, &cycleError{at: c}
	}
	if s.depth >= s.maxDepth {
		return Value{}, fmt.Errorf("%w: depth limit %d reached at %s", ErrCircularReference, s.maxDepth, ref.FormatCell(c))
	}
	s.visiting[c] = true
	s.depth++
	defer func() {
		delete(s.visiting, c)
		s.depth--
	}()
	return s.evalFormula(formula)
}

// cycleError marks the cell that was re-entered while it was still being
// evaluated.
type cycleError struct {
	at ref.Coord
}

func (e *cycleError) Error() string {
	return fmt.Sprintf("%v at %s", ErrCircularReference, ref.FormatCell(e.at))
}

func (e *cycleError) Unwrap() error {
	return ErrCircularReference
}

// resolve reads the numeric content of a referenced cell. numeric is false
// for empty cells and literals that are not numbers. A referenced formula
// that fails counts as numeric 0. A cycle keeps failing until the stack
// unwinds past the re-entered cell, and the depth limit always fails.
func (s *state) resolve(c ref.Coord) (n float64, numeric bool, err error) {
	cell, ok := s.grid.Get(c)
	if !ok {
		return 0, false, nil
	}
	if !cell.HasFormula() {
		n, numeric = parseNumber(cell.Value)
		return n, numeric, nil
	}
	v, err := s.enter(c, cell.Formula)
	if err != nil {
		var cycle *cycleError
		switch {
		case errors.As(err, &cycle):
			if s.visiting[cycle.at] {
				return 0, false, err
			}
		case errors.Is(err, ErrCircularReference):
			return 0, false, err
		}
		return 0, true, nil
	}
	n, numeric = v.Float()
	return n, numeric, nil
}

// cellNumber resolves a reference for arithmetic: anything that is not a
// number reads as 0.
func (s *state) cellNumber(c ref.Coord) (float64, error) {
	n, numeric, err := s.resolve(c)
	if err != nil {
		return 0, err
	}
	if !numeric {
		return 0, nil
	}
	return n, nil
}
