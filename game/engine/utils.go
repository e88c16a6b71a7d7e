package engine

import "math"

// Distance returns the Euclidean distance between two points
func Distance(a, b Vec) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// DegToRad converts degrees to radians
func DegToRad(deg float64) float64 {
	return math.Pi * deg / 180
}

// CountCellKind counts the cells of a given kind in the map
func CountCellKind(m *Map, kind CellKind) int {
	count := 0
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			if m.Classify(i, j).Kind == kind {
				count++
			}
		}
	}
	return count
}

// CountWalkable counts the cells a player may stand on
func CountWalkable(m *Map) int {
	return CountCellKind(m, Normal) + CountCellKind(m, Safe) + CountCellKind(m, End)
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// CellDistances walks the walkable cells connected to start by shared
// sides and returns each one's step distance from start. The player cannot
// cut a corner between two diagonal cells, so side adjacency is exactly
// the set of cells it can reach. A non-walkable start yields an empty map.
func CellDistances(m *Map, start Cell) map[Cell]int {
	dist := make(map[Cell]int)
	if !m.IsWalkable(start.Row, start.Col) {
		return dist
	}

	dist[start] = 0
	queue := []Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]

		for _, n := range []Cell{
			{c.Row - 1, c.Col}, {c.Row + 1, c.Col}, {c.Row, c.Col - 1}, {c.Row, c.Col + 1},
		} {
			if _, seen := dist[n]; seen || !m.IsWalkable(n.Row, n.Col) {
				continue
			}
			dist[n] = dist[c] + 1
			queue = append(queue, n)
		}
	}
	return dist
}
