package ref

import (
	"errors"
	"testing"
)

func TestParseCell(t *testing.T) {
	tests := []struct {
		input    string
		expected Coord
	}{
		{"A1", Coord{0, 0}},
		{"B3", Coord{2, 1}},
		{"Z99", Coord{98, 25}},
		{"AA1", Coord{0, 26}},
		{"AA12", Coord{11, 26}},
		{"AZ1", Coord{0, 51}},
		{"BA1", Coord{0, 52}},
		{"a1", Coord{0, 0}},
		{"xfd1048576", Coord{1048575, 16383}},
	}

	for _, tt := range tests {
		got, err := ParseCell(tt.input)
		if err != nil {
			t.Errorf("ParseCell(%q) returned error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseCell(%q) = %+v, expected %+v", tt.input, got, tt.expected)
		}
	}
}

func TestParseCellInvalid(t *testing.T) {
	for _, input := range []string{"", "A", "1", "A0", "1A", "A1B", "$A$1", "A-1", "A 1", "Ä1"} {
		_, err := ParseCell(input)
		if !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ParseCell(%q) error = %v, expected ErrInvalidReference", input, err)
		}
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		col      int
		expected string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
	}

	for _, tt := range tests {
		if got := ColumnName(tt.col); got != tt.expected {
			t.Errorf("ColumnName(%d) = %q, expected %q", tt.col, got, tt.expected)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for row := 0; row <= 1000; row += 7 {
		for col := 0; col <= 1000; col++ {
			c := Coord{Row: row, Col: col}
			got, err := ParseCell(FormatCell(c))
			if err != nil {
				t.Fatalf("ParseCell(FormatCell(%+v)) returned error: %v", c, err)
			}
			if got != c {
				t.Fatalf("round trip of %+v produced %+v", c, got)
			}
		}
	}
}

func TestParseRangeOrderIndependent(t *testing.T) {
	pairs := [][2]string{
		{"A1:B5", "B5:A1"},
		{"A5:B1", "B1:A5"},
		{"C3:C3", "C3"},
		{"aa10:b2", "B2:AA10"},
	}

	for _, p := range pairs {
		a, err := ParseRange(p[0])
		if err != nil {
			t.Fatalf("ParseRange(%q) returned error: %v", p[0], err)
		}
		b, err := ParseRange(p[1])
		if err != nil {
			t.Fatalf("ParseRange(%q) returned error: %v", p[1], err)
		}
		if a != b {
			t.Errorf("ParseRange(%q) = %+v, ParseRange(%q) = %+v", p[0], a, p[1], b)
		}
	}

	r, _ := ParseRange("B5:A1")
	if r.Start != (Coord{0, 0}) || r.End != (Coord{4, 1}) {
		t.Errorf("ParseRange(B5:A1) = %+v, expected A1:B5", r)
	}
}

func TestParseRangeInvalid(t *testing.T) {
	for _, input := range []string{"", ":", "A1:", ":B2", "A1:B2:C3", "A1:2B"} {
		if _, err := ParseRange(input); !errors.Is(err, ErrInvalidReference) {
			t.Errorf("ParseRange(%q) error = %v, expected ErrInvalidReference", input, err)
		}
	}
}

func TestRangeCoords(t *testing.T) {
	r, err := ParseRange("B2:A1")
	if err != nil {
		t.Fatalf("ParseRange failed: %v", err)
	}

	var got []string
	for c := range r.Coords() {
		got = append(got, FormatCell(c))
	}
	expected := []string{"A1", "B1", "A2", "B2"}
	if len(got) != len(expected) {
		t.Fatalf("Coords() visited %v, expected %v", got, expected)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Coords()[%d] = %s, expected %s", i, got[i], expected[i])
		}
	}

	if r.Rows() != 2 || r.Cols() != 2 {
		t.Errorf("Rows/Cols = %d/%d, expected 2/2", r.Rows(), r.Cols())
	}
	if !r.Contains(Coord{1, 1}) || r.Contains(Coord{2, 0}) {
		t.Errorf("Contains returned unexpected results for %v", r)
	}
	if FormatRange(r) != "A1:B2" {
		t.Errorf("FormatRange = %q, expected A1:B2", FormatRange(r))
	}
}
