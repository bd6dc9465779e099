package formula

import (
	"strings"

	"github.com/xuri/efp"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
)

// References lists the cells and ranges a formula reads, in order of first
// appearance. Absolute markers ($) and sheet qualifiers are ignored. A
// literal (no leading "=") has no references.
func References(formula string) ([]ref.Range, error) {
	if !strings.HasPrefix(formula, "=") {
		return nil, nil
	}
	var out []ref.Range
	seen := make(map[ref.Range]bool)
	for _, tok := range tokenize(strings.ToUpper(formula[1:])) {
		if tok.TType != efp.TokenTypeOperand || tok.TSubType != efp.TokenSubTypeRange {
			continue
		}
		text := tok.TValue
		if i := strings.LastIndex(text, "!"); i >= 0 {
			text = text[i+1:]
		}
		r, err := ref.ParseRange(strings.ReplaceAll(text, "$", ""))
		if err != nil {
			return nil, err
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out, nil
}
