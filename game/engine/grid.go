package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Map is the static playable area of a level. It is immutable after
// NewMap returns and is shared by reference between all entities.
type Map struct {
	cells [][]byte
	rows  int
	cols  int
	edges []Edge
}

// NewMap parses a text grid (rows separated by line breaks, one character
// per cell) and precomputes its merged boundary edges.
func NewMap(text string) (*Map, error) {
	cells, err := ParseGrid(text)
	if err != nil {
		return nil, err
	}

	m := &Map{
		cells: cells,
		rows:  len(cells),
		cols:  len(cells[0]),
	}

	edges, err := m.boundaryEdges()
	if err != nil {
		return nil, fmt.Errorf("compute map edges: %w", err)
	}
	m.edges = MergeEdges(edges)

	return m, nil
}

// ParseGrid splits a text grid into rows of cell codes and checks the
// code vocabulary and that every row has the same width.
func ParseGrid(text string) ([][]byte, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil, &ConfigurationError{Reason: "map grid is empty"}
	}

	lines := strings.Split(text, "\n")
	cells := make([][]byte, len(lines))
	width := len(lines[0])
	if width == 0 {
		return nil, &ConfigurationError{Reason: "map grid row 1 is empty"}
	}

	for i, line := range lines {
		if len(line) != width {
			return nil, &ConfigurationError{
				Reason: fmt.Sprintf("map grid row %d must have %d cells to match row 1, got %d", i+1, width, len(line)),
			}
		}
		row := []byte(line)
		for j, code := range row {
			if !isKnownCode(code) {
				return nil, &ConfigurationError{
					Reason: fmt.Sprintf("invalid cell code '%c' at row %d, col %d", code, i+1, j+1),
				}
			}
		}
		cells[i] = row
	}

	return cells, nil
}

func isKnownCode(code byte) bool {
	switch {
	case code == OutsideCode, code == NormalCode, code == EndCode:
		return true
	case code >= FirstSafeCode && code <= LastSafeCode:
		return true
	}
	return false
}

// Rows returns the number of grid rows
func (m *Map) Rows() int { return m.rows }

// Cols returns the number of grid columns
func (m *Map) Cols() int { return m.cols }

// code returns the stored code, or OutsideCode for any absent index
func (m *Map) code(row, col int) byte {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return OutsideCode
	}
	return m.cells[row][col]
}

// Classify decodes the cell at (row, col). Indices outside the grid,
// negative ones included, classify as Outside.
func (m *Map) Classify(row, col int) CellClass {
	code := m.code(row, col)
	switch {
	case code == NormalCode:
		return CellClass{Kind: Normal}
	case code == EndCode:
		return CellClass{Kind: End}
	case code >= FirstSafeCode && code <= LastSafeCode:
		return CellClass{Kind: Safe, Rank: int(code - FirstSafeCode)}
	}
	return CellClass{Kind: Outside}
}

// IsWalkable reports whether (row, col) is normal, safe or end
func (m *Map) IsWalkable(row, col int) bool {
	return m.Classify(row, col).Walkable()
}

// ClassifyAt classifies the cell containing drawing-space point v
func (m *Map) ClassifyAt(v Vec) CellClass {
	c := m.ToGrid(v)
	return m.Classify(c.Row, c.Col)
}

// ToContinuous maps a grid point to drawing space. The row becomes the
// second (y) coordinate and the column the first (x).
func (m *Map) ToContinuous(p GridPoint) Vec {
	return Vec{X: p.Col * CellSize, Y: p.Row * CellSize}
}

// CellOrigin returns the upper-left corner of c in drawing space
func (m *Map) CellOrigin(c Cell) Vec {
	return m.ToContinuous(GridPoint{Row: float64(c.Row), Col: float64(c.Col)})
}

// CellCenter returns the center of c in drawing space
func (m *Map) CellCenter(c Cell) Vec {
	return m.ToContinuous(GridPoint{Row: float64(c.Row) + 0.5, Col: float64(c.Col) + 0.5})
}

// ToGrid returns the cell containing drawing-space point v. The result
// may lie outside the grid.
func (m *Map) ToGrid(v Vec) Cell {
	return Cell{
		Row: int(math.Floor(v.Y / CellSize)),
		Col: int(math.Floor(v.X / CellSize)),
	}
}

// Edges returns the merged boundary edges of the playable area
func (m *Map) Edges() []Edge {
	out := make([]Edge, len(m.edges))
	copy(out, m.edges)
	return out
}

// Layout returns the grid as text rows
func (m *Map) Layout() []string {
	layout := make([]string, m.rows)
	for i, row := range m.cells {
		layout[i] = string(row)
	}
	return layout
}

// SafeRanks returns the distinct safe ranks present, ascending
func (m *Map) SafeRanks() []int {
	seen := make(map[int]bool)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			if class := m.Classify(i, j); class.Kind == Safe {
				seen[class.Rank] = true
			}
		}
	}
	ranks := make([]int, 0, len(seen))
	for r := range seen {
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	return ranks
}

// CanvasSize returns the drawing surface size including padding
func (m *Map) CanvasSize() (width, height float64) {
	return float64(m.cols+2*Padding) * CellSize, float64(m.rows+2*Padding) * CellSize
}

// CanvasOffset is the translation hosts apply so that grid origin sits
// one padding band inside the drawing surface.
func (m *Map) CanvasOffset() Vec {
	return Vec{X: Padding * CellSize, Y: Padding * CellSize}
}

// Draw fills the background and every cell of the map
func (m *Map) Draw(c Canvas) {
	w, h := m.CanvasSize()
	off := m.CanvasOffset()
	c.FillRect(-off.X, -off.Y, w, h, ColorOutsideCell)

	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			origin := m.CellOrigin(Cell{Row: i, Col: j})
			switch m.Classify(i, j).Kind {
			case Safe, End:
				c.FillRect(origin.X, origin.Y, CellSize, CellSize, ColorSafeCell)
			case Normal:
				clr := ColorNormalCellLight
				if (i+j)%2 == 0 {
					clr = ColorNormalCellDark
				}
				c.FillRect(origin.X, origin.Y, CellSize, CellSize, clr)
			}
		}
	}
}

// DrawEdges strokes the merged boundary of the playable area
func (m *Map) DrawEdges(c Canvas) {
	for _, e := range m.edges {
		from := m.ToContinuous(GridPoint{Row: float64(e.From.Row), Col: float64(e.From.Col)})
		to := m.ToContinuous(GridPoint{Row: float64(e.To.Row), Col: float64(e.To.Col)})
		c.MoveTo(from.X, from.Y)
		c.LineTo(to.X, to.Y)
		c.Stroke(EdgeLineWidth, ColorEdge)
	}
}
