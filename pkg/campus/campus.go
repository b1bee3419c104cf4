package campus

import (
	"fmt"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/places"
	"campus_router/pkg/routing"
)

// IndexKind selects the nearest-junction index implementation.
type IndexKind string

const (
	IndexLinear IndexKind = "linear"
	IndexRTree  IndexKind = "rtree"
)

// ParseIndexKind validates an index name from the command line.
func ParseIndexKind(s string) (IndexKind, error) {
	switch k := IndexKind(s); k {
	case IndexLinear, IndexRTree:
		return k, nil
	case "":
		return IndexLinear, nil
	default:
		return "", fmt.Errorf("%w: unknown index %q (want linear or rtree)", ErrConfig, s)
	}
}

// Campus is the routing core assembled from a dataset. It is built once at
// startup and shared read-only by all callers.
type Campus struct {
	Name   string
	Center geo.Point

	Graph   *graph.Graph
	Places  *places.Registry
	Index   routing.JunctionIndex
	Planner *routing.Planner
}

// Stats summarises a campus for logging and the stats endpoint.
type Stats struct {
	Places     int `json:"places"`
	Junctions  int `json:"junctions"`
	Segments   int `json:"segments"`
	Components int `json:"components"`
}

func (c *Campus) Stats() Stats {
	return Stats{
		Places:     c.Places.Len(),
		Junctions:  c.Graph.NumJunctions(),
		Segments:   c.Graph.NumSegments(),
		Components: c.Graph.NumComponents(),
	}
}

// Build validates ds and assembles the graph, place registry, junction
// index and planner. Every failure wraps ErrConfig.
func Build(ds *Dataset, kind IndexKind) (*Campus, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: nil dataset", ErrConfig)
	}
	if kind == "" {
		kind = IndexLinear
	}

	// Step 1: Places.
	pl := make([]places.Place, 0, len(ds.Places))
	for _, p := range ds.Places {
		if !(geo.Point{Lat: p.Lat, Lng: p.Lng}).Valid() {
			return nil, fmt.Errorf("%w: place %q has invalid coordinate (%v, %v)", ErrConfig, p.Name, p.Lat, p.Lng)
		}
		pl = append(pl, places.Place{Name: p.Name, Pos: geo.Point{Lat: p.Lat, Lng: p.Lng}})
	}
	reg, err := places.New(pl)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	// Step 2: Junctions and segments.
	if len(ds.Junctions) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfig, routing.ErrEmptyIndex)
	}
	junctions := make([]graph.Junction, 0, len(ds.Junctions))
	for _, j := range ds.Junctions {
		if !(geo.Point{Lat: j.Lat, Lng: j.Lng}).Valid() {
			return nil, fmt.Errorf("%w: junction %q has invalid coordinate (%v, %v)", ErrConfig, j.ID, j.Lat, j.Lng)
		}
		junctions = append(junctions, graph.Junction{ID: j.ID, Pos: geo.Point{Lat: j.Lat, Lng: j.Lng}})
	}
	segments := make([]graph.Segment, 0, len(ds.Segments))
	for _, s := range ds.Segments {
		segments = append(segments, graph.Segment{A: s.A, B: s.B})
	}
	g, err := graph.Build(junctions, segments)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	// Step 3: Nearest-junction index.
	var idx routing.JunctionIndex
	switch kind {
	case IndexLinear:
		idx = routing.NewLinearIndex(g.Junctions())
	case IndexRTree:
		idx = routing.NewRTreeIndex(g.Junctions())
	default:
		return nil, fmt.Errorf("%w: unknown index %q", ErrConfig, kind)
	}

	return &Campus{
		Name:    ds.Name,
		Center:  ds.CenterPoint(),
		Graph:   g,
		Places:  reg,
		Index:   idx,
		Planner: routing.NewPlanner(reg, g, idx),
	}, nil
}

// LoadDefault builds the campus compiled into the binary.
func LoadDefault(kind IndexKind) (*Campus, error) {
	ds, err := Default()
	if err != nil {
		return nil, err
	}
	return Build(ds, kind)
}
