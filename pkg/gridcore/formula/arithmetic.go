package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/xuri/efp"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// tokenize splits an expression (without the leading "=") into efp tokens,
// dropping whitespace and no-op tokens.
func tokenize(expression string) []efp.Token {
	ps := efp.ExcelParser()
	tokens := ps.Parse(expression)
	out := make([]efp.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.TType == efp.TokenTypeWhitespace || tok.TType == efp.TokenTypeNoop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

// arithmetic evaluates +, -, * and / over numeric literals, single cell
// references, parentheses and nested built-in calls. Every operand is bound
// as a numeric variable so the expression text handed to expr only ever holds
// identifiers, operators and parentheses.
func (s *state) arithmetic(expression string) (float64, error) {
	tokens := tokenize(expression)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormula, expression)
	}

	env := make(map[string]any)
	bind := func(n float64) string {
		name := "v" + strconv.Itoa(len(env))
		env[name] = n
		return name
	}

	var b strings.Builder
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch tok.TType {
		case efp.TokenTypeOperand:
			n, err := s.operandToken(tok)
			if err != nil {
				return 0, err
			}
			b.WriteString(bind(n))
		case efp.TokenTypeOperatorInfix:
			if tok.TSubType != efp.TokenSubTypeMath || !isArithmeticOp(tok.TValue) {
				return 0, fmt.Errorf("%w: unsupported operator %q", ErrInvalidFormula, tok.TValue)
			}
			b.WriteString(" " + tok.TValue + " ")
		case efp.TokenTypeOperatorPrefix:
			if tok.TValue != "-" && tok.TValue != "+" {
				return 0, fmt.Errorf("%w: unsupported operator %q", ErrInvalidFormula, tok.TValue)
			}
			b.WriteString(tok.TValue)
		case efp.TokenTypeSubexpression:
			if tok.TSubType == efp.TokenSubTypeStart {
				b.WriteString("(")
			} else {
				b.WriteString(")")
			}
		case efp.TokenTypeFunction:
			end := matchingStop(tokens, i)
			if tok.TSubType != efp.TokenSubTypeStart || end < 0 {
				return 0, fmt.Errorf("%w: unbalanced call in %q", ErrInvalidFormula, expression)
			}
			v, err := s.evalExpr(render(tokens[i : end+1]))
			if err != nil {
				return 0, err
			}
			n, _ := v.Float()
			b.WriteString(bind(n))
			i = end
		default:
			return 0, fmt.Errorf("%w: unexpected %q in %q", ErrInvalidFormula, tok.TValue, expression)
		}
	}

	program, err := expr.Compile(b.String(), expr.Env(env), expr.Optimize(false))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidFormula, expression)
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidFormula, err)
	}

	var n float64
	switch v := out.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	default:
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidFormula, expression)
	}
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, fmt.Errorf("%w: %q", ErrDivideByZero, expression)
	}
	return n, nil
}

// operandToken reads a numeric literal or a single cell reference.
func (s *state) operandToken(tok efp.Token) (float64, error) {
	switch tok.TSubType {
	case efp.TokenSubTypeNumber:
		n, ok := parseNumber(tok.TValue)
		if !ok {
			return 0, fmt.Errorf("%w: bad number %q", ErrInvalidFormula, tok.TValue)
		}
		return n, nil
	case efp.TokenSubTypeRange:
		if strings.Contains(tok.TValue, ":") {
			return 0, fmt.Errorf("%w: range %s used in arithmetic", ErrInvalidFormula, tok.TValue)
		}
		c, err := ref.ParseCell(tok.TValue)
		if err != nil {
			return 0, err
		}
		return s.cellNumber(c)
	default:
		return 0, fmt.Errorf("%w: unsupported operand %q", ErrInvalidFormula, tok.TValue)
	}
}

func isArithmeticOp(op string) bool {
	switch op {
	case "+", "-", "*", "/":
		return true
	}
	return false
}

// matchingStop returns the index of the function stop token closing the
// function start at tokens[start], or -1.
func matchingStop(tokens []efp.Token, start int) int {
	depth := 0
	for i := start; i < len(tokens); i++ {
		if tokens[i].TType != efp.TokenTypeFunction {
			continue
		}
		if tokens[i].TSubType == efp.TokenSubTypeStart {
			depth++
			continue
		}
		depth--
		if depth == 0 {
			return i
		}
	}
	return -1
}

// render turns tokens back into formula text.
func render(tokens []efp.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		switch tok.TType {
		case efp.TokenTypeFunction:
			if tok.TSubType == efp.TokenSubTypeStart {
				b.WriteString(tok.TValue + "(")
			} else {
				b.WriteString(")")
			}
		case efp.TokenTypeSubexpression:
			if tok.TSubType == efp.TokenSubTypeStart {
				b.WriteString("(")
			} else {
				b.WriteString(")")
			}
		case efp.TokenTypeArgument:
			b.WriteString(",")
		case efp.TokenTypeOperand:
			if tok.TSubType == efp.TokenSubTypeText {
				b.WriteString(strconv.Quote(tok.TValue))
			} else {
				b.WriteString(tok.TValue)
			}
		default:
			b.WriteString(tok.TValue)
		}
	}
	return b.String()
}
