package engine

import (
	"errors"
	"reflect"
	"testing"
)

func TestEdgeBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b Cell
		want Edge
	}{
		{"right neighbor", Cell{0, 0}, Cell{0, 1}, Edge{Vertex{0, 1}, Vertex{1, 1}}},
		{"left neighbor", Cell{2, 3}, Cell{2, 2}, Edge{Vertex{2, 3}, Vertex{3, 3}}},
		{"lower neighbor", Cell{0, 0}, Cell{1, 0}, Edge{Vertex{1, 0}, Vertex{1, 1}}},
		{"upper neighbor", Cell{4, 1}, Cell{3, 1}, Edge{Vertex{4, 1}, Vertex{4, 2}}},
		{"outside the grid", Cell{-1, 0}, Cell{0, 0}, Edge{Vertex{0, 0}, Vertex{0, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EdgeBetween(tt.a, tt.b)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EdgeBetween(%+v, %+v) = %+v, want %+v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEdgeBetween_NotAdjacent(t *testing.T) {
	pairs := [][2]Cell{
		{{0, 0}, {1, 1}},
		{{0, 0}, {0, 2}},
		{{0, 0}, {0, 0}},
		{{3, 1}, {1, 1}},
	}

	for _, p := range pairs {
		_, err := EdgeBetween(p[0], p[1])
		var adjErr *AdjacencyError
		if !errors.As(err, &adjErr) {
			t.Errorf("EdgeBetween(%+v, %+v): expected *AdjacencyError, got %v", p[0], p[1], err)
		}
	}
}

func TestMapEdges(t *testing.T) {
	tests := []struct {
		name string
		grid string
		want []Edge
	}{
		{
			name: "single cell",
			grid: "M",
			want: []Edge{
				{Vertex{0, 0}, Vertex{1, 0}},
				{Vertex{0, 1}, Vertex{1, 1}},
				{Vertex{0, 0}, Vertex{0, 1}},
				{Vertex{1, 0}, Vertex{1, 1}},
			},
		},
		{
			name: "square merges into four sides",
			grid: "1MM\nMMM\nMMF",
			want: []Edge{
				{Vertex{0, 0}, Vertex{3, 0}},
				{Vertex{0, 3}, Vertex{3, 3}},
				{Vertex{0, 0}, Vertex{0, 3}},
				{Vertex{3, 0}, Vertex{3, 3}},
			},
		},
		{
			name: "L shape",
			grid: "MM\nM ",
			want: []Edge{
				{Vertex{0, 0}, Vertex{2, 0}},
				{Vertex{1, 1}, Vertex{2, 1}},
				{Vertex{0, 2}, Vertex{1, 2}},
				{Vertex{0, 0}, Vertex{0, 2}},
				{Vertex{1, 1}, Vertex{1, 2}},
				{Vertex{2, 0}, Vertex{2, 1}},
			},
		},
		{
			name: "padding outside cells add nothing",
			grid: "   \n M \n   ",
			want: []Edge{
				{Vertex{1, 1}, Vertex{2, 1}},
				{Vertex{1, 2}, Vertex{2, 2}},
				{Vertex{1, 1}, Vertex{1, 2}},
				{Vertex{2, 1}, Vertex{2, 2}},
			},
		},
		{
			name: "all outside",
			grid: "  \n  ",
			want: []Edge{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMap(t, tt.grid)
			got := m.Edges()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Edges() = %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestMergeEdges_FixedPoint(t *testing.T) {
	m := mustMap(t, "1MM M\nM MMM\nMMM F\n 2MMM")

	edges := m.Edges()
	for i := range edges {
		for j := range edges {
			if i == j {
				continue
			}
			if _, ok := joinEdges(edges[i], edges[j]); ok {
				t.Errorf("Edges %+v and %+v can still be joined", edges[i], edges[j])
			}
		}
	}

	// Merging again changes nothing
	if again := MergeEdges(edges); !reflect.DeepEqual(again, edges) {
		t.Errorf("MergeEdges is not idempotent:\n%+v\n%+v", edges, again)
	}
}

func TestMergeEdges_UnitLengthTotal(t *testing.T) {
	m := mustMap(t, "1MM M\nM MMM\nMMM F\n 2MMM")

	raw, err := m.boundaryEdges()
	if err != nil {
		t.Fatalf("boundaryEdges failed: %v", err)
	}

	total := 0
	for _, e := range m.Edges() {
		total += e.Length()
	}
	if total != len(raw) {
		t.Errorf("Merged edges cover %d units, expected %d", total, len(raw))
	}
}

func TestJoinEdges(t *testing.T) {
	tests := []struct {
		name   string
		a, b   Edge
		want   Edge
		joined bool
	}{
		{"vertical chain", Edge{Vertex{0, 1}, Vertex{1, 1}}, Edge{Vertex{1, 1}, Vertex{2, 1}}, Edge{Vertex{0, 1}, Vertex{2, 1}}, true},
		{"horizontal chain reversed", Edge{Vertex{2, 3}, Vertex{2, 4}}, Edge{Vertex{2, 1}, Vertex{2, 3}}, Edge{Vertex{2, 1}, Vertex{2, 4}}, true},
		{"gap", Edge{Vertex{0, 1}, Vertex{1, 1}}, Edge{Vertex{2, 1}, Vertex{3, 1}}, Edge{}, false},
		{"perpendicular", Edge{Vertex{0, 1}, Vertex{1, 1}}, Edge{Vertex{1, 1}, Vertex{1, 2}}, Edge{}, false},
		{"parallel", Edge{Vertex{0, 1}, Vertex{1, 1}}, Edge{Vertex{0, 2}, Vertex{1, 2}}, Edge{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := joinEdges(tt.a, tt.b)
			if ok != tt.joined {
				t.Fatalf("joinEdges joined = %v, want %v", ok, tt.joined)
			}
			if ok && got != tt.want {
				t.Errorf("joinEdges = %+v, want %+v", got, tt.want)
			}
		})
	}
}
