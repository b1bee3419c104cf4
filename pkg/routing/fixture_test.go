package routing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/places"
)

// testJunctions is a small walkway network with a detached island:
//
//	                J4
//	                |
//	J1 ---- J2 ---- J3          K1 ---- K2
var testJunctions = []graph.Junction{
	{ID: "J1", Pos: geo.Point{Lat: 10.8290, Lng: 78.6900}},
	{ID: "J2", Pos: geo.Point{Lat: 10.8290, Lng: 78.6910}},
	{ID: "J3", Pos: geo.Point{Lat: 10.8290, Lng: 78.6920}},
	{ID: "J4", Pos: geo.Point{Lat: 10.8300, Lng: 78.6920}},
	{ID: "K1", Pos: geo.Point{Lat: 10.8350, Lng: 78.6950}},
	{ID: "K2", Pos: geo.Point{Lat: 10.8350, Lng: 78.6960}},
}

var testSegments = []graph.Segment{
	{A: "J1", B: "J2"},
	{A: "J2", B: "J3"},
	{A: "J3", B: "J4"},
	{A: "K1", B: "K2"},
}

var testPlaces = []places.Place{
	{Name: "Library", Pos: geo.Point{Lat: 10.8289, Lng: 78.6900}},
	{Name: "Hall", Pos: geo.Point{Lat: 10.8301, Lng: 78.6921}},
	{Name: "Annex", Pos: geo.Point{Lat: 10.8351, Lng: 78.6961}},
}

func newTestPlanner(t *testing.T, newIndex func([]graph.Junction) JunctionIndex) *Planner {
	t.Helper()
	g, err := graph.Build(testJunctions, testSegments)
	require.NoError(t, err)
	reg, err := places.New(testPlaces)
	require.NoError(t, err)
	return NewPlanner(reg, g, newIndex(g.Junctions()))
}

func linear(js []graph.Junction) JunctionIndex { return NewLinearIndex(js) }
func rtreeIdx(js []graph.Junction) JunctionIndex { return NewRTreeIndex(js) }
