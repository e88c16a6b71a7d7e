package engine

import (
	"slices"
	"sort"
)

// Vertex is a grid-line intersection, row first
type Vertex struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Edge is a straight boundary segment between two vertices
type Edge struct {
	From Vertex `json:"from"`
	To   Vertex `json:"to"`
}

// Vertical reports whether the edge runs along a column line
func (e Edge) Vertical() bool {
	return e.From.Col == e.To.Col
}

// Length returns the edge length in cells
func (e Edge) Length() int {
	return abs(e.To.Row-e.From.Row) + abs(e.To.Col-e.From.Col)
}

// EdgeBetween returns the unit edge separating two orthogonally adjacent
// cells. Any other pair is an AdjacencyError.
func EdgeBetween(a, b Cell) (Edge, error) {
	switch {
	case a.Row == b.Row && abs(a.Col-b.Col) == 1:
		col := max(a.Col, b.Col)
		return Edge{From: Vertex{a.Row, col}, To: Vertex{a.Row + 1, col}}, nil
	case a.Col == b.Col && abs(a.Row-b.Row) == 1:
		row := max(a.Row, b.Row)
		return Edge{From: Vertex{row, a.Col}, To: Vertex{row, a.Col + 1}}, nil
	}
	return Edge{}, &AdjacencyError{A: a, B: b}
}

// boundaryEdges emits one unit edge for every 4-connected cell pair where
// exactly one side is walkable. Rows are scanned left to right, then
// columns top to bottom, both with a one cell margin past the grid.
func (m *Map) boundaryEdges() ([]Edge, error) {
	var edges []Edge

	add := func(a, b Cell) error {
		if m.IsWalkable(a.Row, a.Col) == m.IsWalkable(b.Row, b.Col) {
			return nil
		}
		e, err := EdgeBetween(a, b)
		if err != nil {
			return err
		}
		edges = append(edges, e)
		return nil
	}

	for i := 0; i < m.rows; i++ {
		for j := -1; j < m.cols; j++ {
			if err := add(Cell{i, j}, Cell{i, j + 1}); err != nil {
				return nil, err
			}
		}
	}
	for j := 0; j < m.cols; j++ {
		for i := -1; i < m.rows; i++ {
			if err := add(Cell{i, j}, Cell{i + 1, j}); err != nil {
				return nil, err
			}
		}
	}

	return edges, nil
}

// joinEdges merges two collinear edges that share exactly one endpoint.
// The four endpoints must agree on one axis and span three distinct
// values on the other.
func joinEdges(a, b Edge) (Edge, bool) {
	rows := distinct(a.From.Row, a.To.Row, b.From.Row, b.To.Row)
	cols := distinct(a.From.Col, a.To.Col, b.From.Col, b.To.Col)

	switch {
	case len(cols) == 1 && len(rows) == 3:
		return Edge{From: Vertex{rows[0], cols[0]}, To: Vertex{rows[2], cols[0]}}, true
	case len(rows) == 1 && len(cols) == 3:
		return Edge{From: Vertex{rows[0], cols[0]}, To: Vertex{rows[0], cols[2]}}, true
	}
	return Edge{}, false
}

// MergeEdges joins edges into maximal straight runs. The result is the
// fixed point of repeated pairwise joining: no two returned edges can be
// joined. Vertical runs come first ordered by column, then horizontal runs
// ordered by row.
func MergeEdges(edges []Edge) []Edge {
	type line struct {
		vertical bool
		at       int
	}

	groups := make(map[line][]Edge)
	for _, e := range edges {
		e = normalize(e)
		key := line{vertical: e.Vertical(), at: e.From.Row}
		if e.Vertical() {
			key.at = e.From.Col
		}
		groups[key] = append(groups[key], e)
	}

	keys := make([]line, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].vertical != keys[j].vertical {
			return keys[i].vertical
		}
		return keys[i].at < keys[j].at
	})

	merged := make([]Edge, 0, len(edges))
	for _, k := range keys {
		run := groups[k]
		sort.Slice(run, func(i, j int) bool {
			if run[i].From.Row != run[j].From.Row {
				return run[i].From.Row < run[j].From.Row
			}
			return run[i].From.Col < run[j].From.Col
		})

		cur := run[0]
		for _, next := range run[1:] {
			if joined, ok := joinEdges(cur, next); ok {
				cur = joined
				continue
			}
			merged = append(merged, cur)
			cur = next
		}
		merged = append(merged, cur)
	}

	return merged
}

// normalize orders the endpoints so From is above or left of To
func normalize(e Edge) Edge {
	if e.To.Row < e.From.Row || e.To.Col < e.From.Col {
		e.From, e.To = e.To, e.From
	}
	return e
}

func distinct(values ...int) []int {
	slices.Sort(values)
	return slices.Compact(values)
}
