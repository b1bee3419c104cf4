package graph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"campus_router/pkg/geo"
)

// tableWeights pins segment weights so tests do not depend on coordinates.
func tableWeights(t testing.TB, weights map[Segment]float64) WeightFunc {
	t.Helper()
	return func(a, b Junction) float64 {
		if w, ok := weights[Segment{A: a.ID, B: b.ID}]; ok {
			return w
		}
		if w, ok := weights[Segment{A: b.ID, B: a.ID}]; ok {
			return w
		}
		t.Fatalf("no weight for segment %s-%s", a.ID, b.ID)
		return 0
	}
}

// buildWeighted builds a graph from weighted segments with arbitrary
// coordinates.
func buildWeighted(t testing.TB, ids []string, weights map[Segment]float64) *Graph {
	t.Helper()
	junctions := make([]Junction, len(ids))
	for i, id := range ids {
		junctions[i] = Junction{ID: id, Pos: geo.Point{Lat: 10.829 + float64(i)*0.0001, Lng: 78.691}}
	}
	segments := make([]Segment, 0, len(weights))
	for s := range weights {
		segments = append(segments, s)
	}
	g, err := Build(junctions, segments, WithWeightFunc(tableWeights(t, weights)))
	require.NoError(t, err)
	return g
}
