package graph

import (
	"fmt"
	"sort"
	"strings"

	"campus_router/pkg/geo"
)

// WeightFunc returns the length in meters of the segment joining a and b.
type WeightFunc func(a, b Junction) float64

// GeodesicWeight weights a segment by the great-circle distance of its
// endpoints.
func GeodesicWeight(a, b Junction) float64 {
	return geo.Distance(a.Pos, b.Pos)
}

type buildOptions struct {
	weight WeightFunc
}

// Option configures Build.
type Option func(*buildOptions)

// WithWeightFunc replaces the geodesic segment weight.
func WithWeightFunc(fn WeightFunc) Option {
	return func(o *buildOptions) {
		if fn != nil {
			o.weight = fn
		}
	}
}

// Build validates the junction and segment tables and creates a CSR Graph.
// Weights are computed once here and never again.
func Build(junctions []Junction, segments []Segment, opts ...Option) (*Graph, error) {
	cfg := buildOptions{weight: GeodesicWeight}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Step 1: Validate IDs.
	byID := make(map[string]Junction, len(junctions))
	for i, j := range junctions {
		if strings.TrimSpace(j.ID) == "" {
			return nil, fmt.Errorf("%w: %w at position %d", ErrInvalidGraph, ErrEmptyID, i)
		}
		if _, dup := byID[j.ID]; dup {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidGraph, ErrDuplicateJunction, j.ID)
		}
		byID[j.ID] = j
	}

	// Step 2: Assign node indices in ascending ID order.
	ids := make([]string, 0, len(junctions))
	for _, j := range junctions {
		ids = append(ids, j.ID)
	}
	sort.Strings(ids)

	numNodes := uint32(len(ids))
	index := make(map[string]uint32, numNodes)
	pos := make([]geo.Point, numNodes)
	for i, id := range ids {
		index[id] = uint32(i)
		pos[i] = byID[id].Pos
	}

	// Step 3: Validate segments and expand each into two directed edges.
	type directedEdge struct {
		from   uint32
		to     uint32
		weight float64
	}

	seen := make(map[[2]uint32]struct{}, len(segments))
	edges := make([]directedEdge, 0, 2*len(segments))
	for _, s := range segments {
		a, okA := index[s.A]
		if !okA {
			return nil, fmt.Errorf("%w: %w %q (segment %s-%s)", ErrInvalidGraph, ErrUnknownJunction, s.A, s.A, s.B)
		}
		b, okB := index[s.B]
		if !okB {
			return nil, fmt.Errorf("%w: %w %q (segment %s-%s)", ErrInvalidGraph, ErrUnknownJunction, s.B, s.A, s.B)
		}
		if a == b {
			return nil, fmt.Errorf("%w: %w %q", ErrInvalidGraph, ErrSelfLoop, s.A)
		}

		key := [2]uint32{min(a, b), max(a, b)}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		w := cfg.weight(byID[s.A], byID[s.B])
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %f on segment %s-%s", ErrInvalidGraph, w, s.A, s.B)
		}
		edges = append(edges,
			directedEdge{from: a, to: b, weight: w},
			directedEdge{from: b, to: a, weight: w},
		)
	}

	// Step 4: Sort edges by source node, then by target.
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].from != edges[j].from {
			return edges[i].from < edges[j].from
		}
		return edges[i].to < edges[j].to
	})

	// Step 5: Build CSR arrays.
	numEdges := uint32(len(edges))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	weight := make([]float64, numEdges)

	for i, e := range edges {
		head[i] = e.to
		weight[i] = e.weight
	}
	for _, e := range edges {
		firstOut[e.from+1]++
	}
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	g := &Graph{
		NumNodes:  numNodes,
		NumEdges:  numEdges,
		FirstOut:  firstOut,
		Head:      head,
		Weight:    weight,
		ids:       ids,
		pos:       pos,
		index:     index,
		junctions: append([]Junction(nil), junctions...),
	}

	// Step 6: Label connected components.
	g.component, g.numComps = labelComponents(g)

	return g, nil
}
