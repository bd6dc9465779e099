package grid

import (
	"encoding/json"

	"github.com/MutexLabs01/double-excel-sub000/pkg/gridcore/ref"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("gridcore.grid")

type cellJSON struct {
	Value   string  `json:"value"`
	Formula *string `json:"formula"`
}

// MarshalJSON encodes the cell as {"value": ..., "formula": ... | null}.
func (c Cell) MarshalJSON() ([]byte, error) {
	out := cellJSON{Value: c.Value}
	if c.HasFormula() {
		out.Formula = &c.Formula
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a cell; a null or missing formula marks a literal.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var in cellJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	c.Value = in.Value
	c.Formula = ""
	if in.Formula != nil {
		c.Formula = *in.Formula
	}
	return nil
}

type gridJSON struct {
	Data    map[string]Cell `json:"data"`
	Headers []string        `json:"headers,omitempty"`
}

// MarshalJSON encodes the grid with "{row}-{col}" keys.
func (g Grid) MarshalJSON() ([]byte, error) {
	out := gridJSON{
		Data:    make(map[string]Cell, len(g.Cells)),
		Headers: g.Headers,
	}
	for c, cell := range g.Cells {
		out.Data[Key(c)] = cell
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a grid. Malformed keys are dropped, so a damaged
// snapshot reads as a grid with those cells empty.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	g.Cells = make(map[ref.Coord]Cell, len(in.Data))
	g.Headers = in.Headers
	for key, cell := range in.Data {
		c, err := ParseKey(key)
		if err != nil {
			log.Debugf("skipping cell: %v", err)
			continue
		}
		g.Set(c, cell)
	}
	return nil
}
