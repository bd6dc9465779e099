package formula

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	// KindText is a string result, including literals returned unevaluated.
	KindText Kind = iota
	// KindNumber is a numeric result.
	KindNumber
)

// Value is the result of evaluating a formula: either a number or text.
type Value struct {
	Kind Kind
	Num  float64
	Text string
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Text returns a text Value.
func Text(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool {
	return v.Kind == KindNumber
}

// Float returns the numeric reading of v. Text is parsed strictly; text that
// is not a number reports false.
func (v Value) Float() (float64, bool) {
	if v.Kind == KindNumber {
		return v.Num, true
	}
	return parseNumber(v.Text)
}

// String renders the value for display.
func (v Value) String() string {
	if v.Kind != KindNumber {
		return v.Text
	}
	return formatNumber(v.Num)
}

func formatNumber(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsNaN(f):
		return "NaN"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// parseNumber reads decimal text such as "12", "-3.5" or "1e3". Hex floats,
// digit separators, infinities and NaN are not numbers here.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "xXpP_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
