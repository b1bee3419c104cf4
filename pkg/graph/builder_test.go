package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/geo"
)

func TestBuildSimpleGraph(t *testing.T) {
	// Triangle plus one isolated junction:
	//   C(10.830, 78.691)
	//   |         \
	//   A ------- B      D (alone)
	junctions := []Junction{
		{ID: "C", Pos: geo.Point{Lat: 10.830, Lng: 78.691}},
		{ID: "A", Pos: geo.Point{Lat: 10.829, Lng: 78.691}},
		{ID: "B", Pos: geo.Point{Lat: 10.829, Lng: 78.692}},
		{ID: "D", Pos: geo.Point{Lat: 10.831, Lng: 78.695}},
	}
	segments := []Segment{{A: "A", B: "B"}, {A: "B", B: "C"}, {A: "C", B: "A"}}

	g, err := Build(junctions, segments)
	require.NoError(t, err)

	assert.Equal(t, uint32(4), g.NumNodes)
	assert.Equal(t, uint32(6), g.NumEdges)
	assert.Equal(t, 3, g.NumSegments())
	assert.Equal(t, 2, g.NumComponents())

	// Each triangle node has two neighbours, in ascending ID order.
	assert.Equal(t, []string{"B", "C"}, g.Neighbors("A"))
	assert.Equal(t, []string{"A", "B"}, g.Neighbors("C"))
	assert.Empty(t, g.Neighbors("D"))
	assert.Nil(t, g.Neighbors("missing"))

	// Configured order is preserved for iteration.
	var order []string
	for _, j := range g.Junctions() {
		order = append(order, j.ID)
	}
	assert.Equal(t, []string{"C", "A", "B", "D"}, order)

	// Weights are the geodesic lengths, stored in both directions.
	want := geo.Distance(junctions[1].Pos, junctions[2].Pos)
	start, end := g.EdgesFrom(0) // "A"
	require.Equal(t, uint32(2), end-start)
	assert.InDelta(t, want, g.Weight[start], 1e-9)
	assert.InDelta(t, 109.2, want, 0.5)
}

func TestBuildCollapsesDuplicateSegments(t *testing.T) {
	junctions := []Junction{
		{ID: "A", Pos: geo.Point{Lat: 10.829, Lng: 78.691}},
		{ID: "B", Pos: geo.Point{Lat: 10.829, Lng: 78.692}},
	}
	g, err := Build(junctions, []Segment{{A: "A", B: "B"}, {A: "B", B: "A"}, {A: "A", B: "B"}})
	require.NoError(t, err)
	assert.Equal(t, 1, g.NumSegments())
}

func TestBuildConfigErrors(t *testing.T) {
	a := Junction{ID: "A", Pos: geo.Point{Lat: 10.829, Lng: 78.691}}
	b := Junction{ID: "B", Pos: geo.Point{Lat: 10.829, Lng: 78.692}}

	tests := []struct {
		name      string
		junctions []Junction
		segments  []Segment
		want      error
	}{
		{
			name:      "duplicate junction id",
			junctions: []Junction{a, b, a},
			want:      ErrDuplicateJunction,
		},
		{
			name:      "segment to unknown junction",
			junctions: []Junction{a, b},
			segments:  []Segment{{A: "A", B: "Z"}},
			want:      ErrUnknownJunction,
		},
		{
			name:      "segment from unknown junction",
			junctions: []Junction{a, b},
			segments:  []Segment{{A: "Z", B: "B"}},
			want:      ErrUnknownJunction,
		},
		{
			name:      "self loop",
			junctions: []Junction{a, b},
			segments:  []Segment{{A: "A", B: "A"}},
			want:      ErrSelfLoop,
		},
		{
			name:      "blank id",
			junctions: []Junction{a, {ID: "  "}},
			want:      ErrEmptyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Build(tt.junctions, tt.segments)
			require.Error(t, err)
			assert.Nil(t, g)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInvalidGraph)
		})
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	g, err := Build(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), g.NumNodes)
	assert.Equal(t, 0, g.NumComponents())
	assert.Empty(t, g.Junctions())
}

func TestJunctionLookup(t *testing.T) {
	p := geo.Point{Lat: 10.8291, Lng: 78.6916}
	g, err := Build([]Junction{{ID: "J1", Pos: p}}, nil)
	require.NoError(t, err)

	j, ok := g.Junction("J1")
	require.True(t, ok)
	assert.Equal(t, p, j.Pos)

	_, ok = g.Junction("J2")
	assert.False(t, ok)
}
