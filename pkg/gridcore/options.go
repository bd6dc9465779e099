// Package gridcore loads workbooks and snapshots into grids for formula
// evaluation and diffing.
package gridcore

import "slices"

// Mode represents what is read from a workbook cell.
type Mode string

const (
	// ModeValues reads cached values only.
	ModeValues Mode = "values"
	// ModeFormulas reads cached values and keeps formulas on formula cells.
	ModeFormulas Mode = "formulas"
)

// Options configures loading behavior.
type Options struct {
	// Mode specifies what is read from each cell (values, formulas).
	Mode Mode
	// Sheets restricts loading to the named sheets. Empty means all sheets.
	Sheets []string
	// HeaderRow uses the first row of each sheet as column labels.
	HeaderRow bool
}

// DefaultOptions returns default loading options.
func DefaultOptions() Options {
	return Options{
		Mode: ModeFormulas,
	}
}

// IncludeFormulas returns whether formulas are kept on formula cells.
func (o Options) IncludeFormulas() bool {
	return o.Mode != ModeValues
}

func (o Options) wantsSheet(name string) bool {
	return len(o.Sheets) == 0 || slices.Contains(o.Sheets, name)
}
