package campus

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/places"
	"campus_router/pkg/routing"
)

const smallDataset = `
name: Test Campus
places:
  - {name: Library, lat: 10.8285, lng: 78.6908}
  - {name: Main Gate, lat: 10.8298, lng: 78.6928}
junctions:
  - {id: A, lat: 10.8286, lng: 78.6909}
  - {id: B, lat: 10.8292, lng: 78.6918}
  - {id: C, lat: 10.8297, lng: 78.6927}
segments:
  - [A, B]
  - [B, C]
`

func TestDefaultCampus(t *testing.T) {
	for _, kind := range []IndexKind{IndexLinear, IndexRTree} {
		t.Run(string(kind), func(t *testing.T) {
			c, err := LoadDefault(kind)
			require.NoError(t, err)

			assert.Equal(t, Stats{Places: 5, Junctions: 12, Segments: 15, Components: 1}, c.Stats())
			assert.Equal(t, geo.Point{Lat: 10.8293, Lng: 78.6919}, c.Center)
			assert.Equal(t, []string{"CS Department", "IT Department"}, c.Places.Suggest("department"))

			// Every place is reachable from every other place.
			for _, from := range c.Places.Places() {
				for _, to := range c.Places.Places() {
					r, err := c.Planner.Plan(from.Pos, to.Name)
					require.NoError(t, err, "%s -> %s", from.Name, to.Name)
					assert.GreaterOrEqual(t, r.TotalDistanceMeters, geo.Distance(from.Pos, to.Pos)-1e-6)
				}
			}
		})
	}
}

func TestDefaultCampusRoute(t *testing.T) {
	c, err := LoadDefault(IndexLinear)
	require.NoError(t, err)

	gate, err := c.Places.Resolve("Main Gate")
	require.NoError(t, err)

	r, err := c.Planner.Plan(gate, "Library")
	require.NoError(t, err)

	assert.Equal(t, "J01", r.JunctionIDs[0])
	assert.Equal(t, "J08", r.JunctionIDs[len(r.JunctionIDs)-1])
	assert.Equal(t, gate, r.Waypoints[0])
	assert.Equal(t, geo.Point{Lat: 10.8285, Lng: 78.6908}, r.Waypoints[len(r.Waypoints)-1])
	assert.Len(t, r.Legs, len(r.Waypoints)-1)
	assert.Less(t, r.NetworkDistanceMeters, r.TotalDistanceMeters)
}

func TestParseAndBuild(t *testing.T) {
	ds, err := Parse(strings.NewReader(smallDataset))
	require.NoError(t, err)
	require.Len(t, ds.Segments, 2)
	assert.Equal(t, SegmentRecord{A: "A", B: "B"}, ds.Segments[0])

	c, err := Build(ds, IndexLinear)
	require.NoError(t, err)
	assert.Equal(t, "Test Campus", c.Name)
	assert.Equal(t, []string{"A", "C"}, c.Graph.Neighbors("B"))

	// No centre configured: mean of all coordinates.
	center := c.Center
	assert.InDelta(t, (10.8285+10.8298+10.8286+10.8292+10.8297)/5, center.Lat, 1e-9)
}

func TestWriteRoundTrip(t *testing.T) {
	ds, err := Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ds.Write(&buf))
	assert.Contains(t, buf.String(), "- [J01, J02]")

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, ds, again)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "campus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallDataset), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, ds.Junctions, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"unknown field", "name: x\nbuildings: []\n"},
		{"short segment", "segments:\n  - [A]\n"},
		{"long segment", "segments:\n  - [A, B, C]\n"},
		{"segment is a map", "segments:\n  - {a: A}\n"},
		{"not yaml", "places: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	base := func() *Dataset {
		ds, err := Parse(strings.NewReader(smallDataset))
		require.NoError(t, err)
		return ds
	}

	tests := []struct {
		name   string
		mutate func(*Dataset)
		want   error
	}{
		{
			name:   "duplicate place",
			mutate: func(ds *Dataset) { ds.Places = append(ds.Places, ds.Places[0]) },
			want:   places.ErrDuplicatePlace,
		},
		{
			name:   "duplicate junction",
			mutate: func(ds *Dataset) { ds.Junctions = append(ds.Junctions, ds.Junctions[0]) },
			want:   graph.ErrDuplicateJunction,
		},
		{
			name:   "dangling segment",
			mutate: func(ds *Dataset) { ds.Segments = append(ds.Segments, SegmentRecord{A: "A", B: "Z"}) },
			want:   graph.ErrUnknownJunction,
		},
		{
			name:   "self loop",
			mutate: func(ds *Dataset) { ds.Segments = append(ds.Segments, SegmentRecord{A: "C", B: "C"}) },
			want:   graph.ErrSelfLoop,
		},
		{
			name:   "no junctions",
			mutate: func(ds *Dataset) { ds.Junctions, ds.Segments = nil, nil },
			want:   routing.ErrEmptyIndex,
		},
		{
			name:   "place latitude out of range",
			mutate: func(ds *Dataset) { ds.Places[1].Lat = 91 },
			want:   ErrConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := base()
			tt.mutate(ds)
			c, err := Build(ds, IndexLinear)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, ErrConfig)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Build(nil, IndexLinear)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = Build(base(), IndexKind("kdtree"))
	assert.ErrorIs(t, err, ErrConfig)
}

func TestParseIndexKind(t *testing.T) {
	k, err := ParseIndexKind("rtree")
	require.NoError(t, err)
	assert.Equal(t, IndexRTree, k)

	k, err = ParseIndexKind("")
	require.NoError(t, err)
	assert.Equal(t, IndexLinear, k)

	_, err = ParseIndexKind("grid")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestRestrictToLargestComponent(t *testing.T) {
	ds, err := Parse(strings.NewReader(smallDataset))
	require.NoError(t, err)
	ds.Junctions = append(ds.Junctions,
		JunctionRecord{ID: "D", Lat: 10.8280, Lng: 78.6900},
		JunctionRecord{ID: "E", Lat: 10.8281, Lng: 78.6901})
	ds.Segments = append(ds.Segments, SegmentRecord{A: "D", B: "E"})

	c, err := Build(ds, IndexLinear)
	require.NoError(t, err)
	require.Equal(t, 2, c.Graph.NumComponents())

	small := ds.Restrict(c.Graph.LargestComponent())
	assert.Len(t, small.Junctions, 3)
	assert.Equal(t, ds.Segments[:2], small.Segments)
	assert.Len(t, small.Places, 2)

	c, err = Build(small, IndexLinear)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Graph.NumComponents())
}
