package formula

import (
	"fmt"
	"iter"
	"math"
	"strings"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// Functions lists the supported built-in function names.
var Functions = []string{"SUM", "AVERAGE", "COUNT", "MIN", "MAX", "IF"}

// splitCall recognizes NAME(args) where the parenthesis opened after NAME is
// closed by the final character of expr.
func splitCall(expr string) (name, inner string, ok bool) {
	open := strings.IndexByte(expr, '(')
	if open <= 0 || !strings.HasSuffix(expr, ")") {
		return "", "", false
	}
	name = strings.TrimSpace(expr[:open])
	if !isFunctionName(name) {
		return "", "", false
	}
	depth := 0
	quoted := false
	for i := open; i < len(expr); i++ {
		switch ch := expr[i]; {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '(':
			depth++
		case ch == ')':
			depth--
			if depth == 0 && i != len(expr)-1 {
				return "", "", false
			}
		}
	}
	if depth != 0 {
		return "", "", false
	}
	return name, expr[open+1 : len(expr)-1], true
}

func isFunctionName(s string) bool {
	if s == "" || s[0] < 'A' || s[0] > 'Z' {
		return false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if !(ch >= 'A' && ch <= 'Z') && !(ch >= '0' && ch <= '9') && ch != '.' && ch != '_' {
			return false
		}
	}
	return true
}

// splitArgs splits a function argument list on commas that are not nested
// inside parentheses or quotes.
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	var b strings.Builder
	depth := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case ch == '"':
			quoted = !quoted
		case quoted:
		case ch == '(':
			depth++
		case ch == ')':
			if depth > 0 {
				depth--
			}
		case ch == ',' && depth == 0:
			args = append(args, strings.TrimSpace(b.String()))
			b.Reset()
			continue
		}
		b.WriteByte(ch)
	}
	return append(args, strings.TrimSpace(b.String()))
}

func (s *state) call(name, inner string) (Value, error) {
	args := splitArgs(inner)
	switch name {
	case "SUM", "AVERAGE", "COUNT", "MIN", "MAX":
		nums, err := s.collect(args)
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", name, err)
		}
		return Number(aggregate(name, nums)), nil
	case "IF":
		return s.ifFunc(args)
	default:
		return Value{}, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownFunction, name, strings.Join(Functions, ", "))
	}
}

func aggregate(name string, nums []float64) float64 {
	if name == "COUNT" {
		return float64(len(nums))
	}
	if len(nums) == 0 {
		return 0
	}
	switch name {
	case "SUM", "AVERAGE":
		sum := 0.0
		for _, n := range nums {
			sum += n
		}
		if name == "AVERAGE" {
			return sum / float64(len(nums))
		}
		return sum
	case "MIN":
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Min(m, n)
		}
		return m
	case "MAX":
		m := nums[0]
		for _, n := range nums[1:] {
			m = math.Max(m, n)
		}
		return m
	}
	return 0
}

// collect gathers the numeric values an aggregate works on. Range and
// reference arguments contribute their numeric cells only; empty and
// non-numeric literal cells are skipped rather than read as 0. Any other
// argument is evaluated as an expression.
func (s *state) collect(args []string) ([]float64, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no arguments", ErrInvalidFormula)
	}
	var nums []float64
	for _, arg := range args {
		if arg == "" {
			return nil, fmt.Errorf("%w: empty argument", ErrInvalidFormula)
		}
		if strings.Contains(arg, ":") || ref.IsCell(arg) {
			r, err := ref.ParseRange(arg)
			if err != nil {
				return nil, err
			}
			for c := range s.cellsIn(r) {
				n, numeric, err := s.resolve(c)
				if err != nil {
					return nil, err
				}
				if numeric {
					nums = append(nums, n)
				}
			}
			continue
		}
		if n, ok := parseNumber(arg); ok {
			nums = append(nums, n)
			continue
		}
		v, err := s.evalExpr(arg)
		if err != nil {
			return nil, err
		}
		if n, ok := v.Float(); ok {
			nums = append(nums, n)
		}
	}
	return nums, nil
}

// cellsIn iterates the populated cells of r in row-major order. Ranges
// larger than the grid walk the grid instead of the rectangle.
func (s *state) cellsIn(r ref.Range) iter.Seq[ref.Coord] {
	area := float64(r.Rows()) * float64(r.Cols())
	if area <= float64(s.grid.Len()) {
		return r.Coords()
	}
	return func(yield func(ref.Coord) bool) {
		for c := range s.grid.Coords() {
			if r.Contains(c) && !yield(c) {
				return
			}
		}
	}
}

// comparators are checked in order, so two-character operators win over
// their one-character prefixes.
var comparators = []string{">=", "<=", "!=", "<>", ">", "<", "="}

func (s *state) ifFunc(args []string) (Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return Value{}, fmt.Errorf("%w: IF expects 2 or 3 arguments, got %d", ErrInvalidFormula, len(args))
	}
	ok, err := s.condition(args[0])
	if err != nil {
		return Value{}, err
	}
	branch := ""
	if ok {
		branch = args[1]
	} else if len(args) == 3 {
		branch = args[2]
	}
	// Branches are numeric literals; anything else reads as 0.
	n, _ := parseNumber(branch)
	return Number(n), nil
}

// condition evaluates "<left> <op> <right>".
func (s *state) condition(cond string) (bool, error) {
	idx, op := findComparator(cond)
	if idx < 0 {
		return false, fmt.Errorf("%w: condition %q has no comparison", ErrInvalidFormula, cond)
	}
	left, err := s.operand(cond[:idx])
	if err != nil {
		return false, err
	}
	right, err := s.operand(cond[idx+len(op):])
	if err != nil {
		return false, err
	}
	switch op {
	case ">=":
		return left >= right, nil
	case "<=":
		return left <= right, nil
	case ">":
		return left > right, nil
	case "<":
		return left < right, nil
	case "=":
		return left == right, nil
	default:
		return left != right, nil
	}
}

func findComparator(cond string) (int, string) {
	for i := 0; i < len(cond); i++ {
		if !strings.ContainsRune("<>=!", rune(cond[i])) {
			continue
		}
		for _, op := range comparators {
			if strings.HasPrefix(cond[i:], op) {
				return i, op
			}
		}
	}
	return -1, ""
}

// operand reads one side of a comparison: a numeric literal, a cell
// reference, or a nested expression.
func (s *state) operand(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if n, ok := parseNumber(text); ok {
		return n, nil
	}
	if c, err := ref.ParseCell(text); err == nil {
		return s.cellNumber(c)
	}
	v, err := s.evalExpr(text)
	if err != nil {
		return 0, err
	}
	n, ok := v.Float()
	if !ok {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidFormula, text)
	}
	return n, nil
}
