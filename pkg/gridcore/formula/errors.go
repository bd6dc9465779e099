package formula

import (
	"errors"
	"fmt"
)

// ErrorMarker is what a cell shows when its own formula fails.
const ErrorMarker = "#ERROR"

// ErrInvalidFormula indicates an expression that matches none of the
// supported shapes.
var ErrInvalidFormula = errors.New("invalid formula")

// ErrUnknownFunction indicates a call to a function outside the built-in set.
var ErrUnknownFunction = errors.New("unknown function")

// ErrCircularReference indicates a formula that reaches itself, or a
// reference chain deeper than the engine's depth limit.
var ErrCircularReference = errors.New("circular reference")

// ErrDivideByZero indicates an arithmetic result that is not finite.
var ErrDivideByZero = errors.New("division by zero")

// EvalError is returned for a formula that fails at the top level.
type EvalError struct {
	Formula string
	Err     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluate %q: %v", e.Formula, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}
