package engine

import (
	"errors"
	"testing"
)

func mustMap(t *testing.T, text string) *Map {
	t.Helper()
	m, err := NewMap(text)
	if err != nil {
		t.Fatalf("NewMap(%q) failed: %v", text, err)
	}
	return m
}

func TestParseGrid(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantRows int
		wantCols int
		wantErr  bool
	}{
		{"single cell", "M", 1, 1, false},
		{"rectangle", "1MM\nMMM\nMMF", 3, 3, false},
		{"crlf line endings", "1M\r\nMF", 2, 2, false},
		{"trailing newline", "1MF\n", 1, 3, false},
		{"outside cells", " M \n1MF", 2, 3, false},
		{"empty", "", 0, 0, true},
		{"ragged rows", "MMM\nMM", 0, 0, true},
		{"unknown code", "MXM", 0, 0, true},
		{"safe code out of range", "M6M", 0, 0, true},
		{"zero is not a safe code", "M0M", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, err := ParseGrid(tt.text)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				var cfgErr *ConfigurationError
				if !errors.As(err, &cfgErr) {
					t.Errorf("Expected *ConfigurationError, got %T", err)
				}
				if !errors.Is(err, ErrInvalidLevel) {
					t.Errorf("Expected error to wrap ErrInvalidLevel, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if len(cells) != tt.wantRows {
				t.Errorf("Expected %d rows, got %d", tt.wantRows, len(cells))
			}
			if len(cells[0]) != tt.wantCols {
				t.Errorf("Expected %d cols, got %d", tt.wantCols, len(cells[0]))
			}
		})
	}
}

func TestClassify(t *testing.T) {
	m := mustMap(t, " M1\n5F3")

	tests := []struct {
		row, col int
		want     CellClass
	}{
		{0, 0, CellClass{Kind: Outside}},
		{0, 1, CellClass{Kind: Normal}},
		{0, 2, CellClass{Kind: Safe, Rank: 0}},
		{1, 0, CellClass{Kind: Safe, Rank: 4}},
		{1, 1, CellClass{Kind: End}},
		{1, 2, CellClass{Kind: Safe, Rank: 2}},
		// Absent indices are outside, negative ones included
		{-1, 0, CellClass{Kind: Outside}},
		{0, -1, CellClass{Kind: Outside}},
		{2, 0, CellClass{Kind: Outside}},
		{0, 3, CellClass{Kind: Outside}},
	}

	for _, tt := range tests {
		got := m.Classify(tt.row, tt.col)
		if got != tt.want {
			t.Errorf("Classify(%d, %d) = %+v, want %+v", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestIsWalkable(t *testing.T) {
	m := mustMap(t, " M1\n5F ")

	walkable := map[Cell]bool{
		{0, 0}: false, {0, 1}: true, {0, 2}: true,
		{1, 0}: true, {1, 1}: true, {1, 2}: false,
		{-1, -1}: false, {5, 5}: false,
	}
	for c, want := range walkable {
		if got := m.IsWalkable(c.Row, c.Col); got != want {
			t.Errorf("IsWalkable(%d, %d) = %v, want %v", c.Row, c.Col, got, want)
		}
	}
}

func TestCoordinateConversion(t *testing.T) {
	m := mustMap(t, "MMM\nMMM")

	tests := []struct {
		point GridPoint
		want  Vec
		cell  Cell
	}{
		{GridPoint{0, 0}, Vec{0, 0}, Cell{0, 0}},
		{GridPoint{0.5, 0.5}, Vec{25, 25}, Cell{0, 0}},
		{GridPoint{1.5, 2}, Vec{100, 75}, Cell{1, 2}},
		{GridPoint{1, 2.5}, Vec{125, 50}, Cell{1, 2}},
	}

	for _, tt := range tests {
		got := m.ToContinuous(tt.point)
		if got != tt.want {
			t.Errorf("ToContinuous(%+v) = %+v, want %+v", tt.point, got, tt.want)
		}
		if cell := m.ToGrid(got); cell != tt.cell {
			t.Errorf("ToGrid(%+v) = %+v, want %+v", got, cell, tt.cell)
		}
	}
}

func TestToGridRoundTrip(t *testing.T) {
	m := mustMap(t, "MMMM\nMMMM\nMMMM")

	for row := -1; row <= m.Rows(); row++ {
		for col := -1; col <= m.Cols(); col++ {
			c := Cell{Row: row, Col: col}
			if got := m.ToGrid(m.CellCenter(c)); got != c {
				t.Errorf("ToGrid(CellCenter(%+v)) = %+v", c, got)
			}
			if got := m.ToGrid(m.CellOrigin(c)); got != c {
				t.Errorf("ToGrid(CellOrigin(%+v)) = %+v", c, got)
			}
		}
	}
}

func TestToGridNegative(t *testing.T) {
	m := mustMap(t, "M")

	got := m.ToGrid(Vec{X: -1, Y: -0.5})
	if got != (Cell{Row: -1, Col: -1}) {
		t.Errorf("Expected cell (-1,-1), got %+v", got)
	}
	if m.ClassifyAt(Vec{X: -1, Y: 10}).Kind != Outside {
		t.Error("Expected point left of the grid to be outside")
	}
}

func TestSafeRanks(t *testing.T) {
	m := mustMap(t, "3M1\nM1F")

	ranks := m.SafeRanks()
	if len(ranks) != 2 || ranks[0] != 0 || ranks[1] != 2 {
		t.Errorf("Expected safe ranks [0 2], got %v", ranks)
	}
}

func TestCanvasSize(t *testing.T) {
	m := mustMap(t, "MMM\nMMF")

	w, h := m.CanvasSize()
	if w != 250 || h != 200 {
		t.Errorf("Expected canvas 250x200, got %gx%g", w, h)
	}
	if off := m.CanvasOffset(); off != (Vec{50, 50}) {
		t.Errorf("Expected offset (50,50), got %+v", off)
	}
}

func TestLayout(t *testing.T) {
	m := mustMap(t, " M\r\n1F\n")

	layout := m.Layout()
	if len(layout) != 2 || layout[0] != " M" || layout[1] != "1F" {
		t.Errorf("Unexpected layout %q", layout)
	}
}
