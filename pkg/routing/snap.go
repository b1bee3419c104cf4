package routing

import (
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/rtree"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
)

var (
	// ErrEmptyIndex is returned when no junctions are configured.
	ErrEmptyIndex = errors.New("junction index is empty")

	// ErrInvalidPoint is returned for a query point that is not a finite
	// in-range coordinate.
	ErrInvalidPoint = errors.New("invalid coordinate")
)

// JunctionIndex snaps an arbitrary coordinate to the closest junction.
type JunctionIndex interface {
	Nearest(p geo.Point) (graph.Junction, error)
}

// LinearIndex scans every junction per query. It is the default at campus
// scale (tens of junctions); past a few thousand junctions use RTreeIndex.
type LinearIndex struct {
	junctions []graph.Junction
}

// NewLinearIndex creates a LinearIndex. Ties resolve to the junction that
// comes first in junctions.
func NewLinearIndex(junctions []graph.Junction) *LinearIndex {
	return &LinearIndex{junctions: append([]graph.Junction(nil), junctions...)}
}

// Nearest returns the junction minimizing the great-circle distance to p.
func (x *LinearIndex) Nearest(p geo.Point) (graph.Junction, error) {
	if len(x.junctions) == 0 {
		return graph.Junction{}, ErrEmptyIndex
	}
	if !p.Valid() {
		return graph.Junction{}, fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}

	best := 0
	bestDist := geo.Distance(p, x.junctions[0].Pos)
	for i := 1; i < len(x.junctions); i++ {
		if d := geo.Distance(p, x.junctions[i].Pos); d < bestDist {
			best, bestDist = i, d
		}
	}
	return x.junctions[best], nil
}

// Candidates whose planar lower bound exceeds the best great-circle
// distance by more than this margin cannot win.
const (
	snapSlackRatio  = 0.005
	snapSlackMeters = 1.0
)

// RTreeIndex answers Nearest with a best-first R-tree search. Candidates are
// ordered by an equirectangular lower bound and refined with geo.Distance,
// so results and tie-breaks match LinearIndex for points within a few
// hundred kilometres of the junctions.
type RTreeIndex struct {
	tr        rtree.RTreeG[int]
	junctions []graph.Junction
}

// NewRTreeIndex builds the R-tree over the junction coordinates.
func NewRTreeIndex(junctions []graph.Junction) *RTreeIndex {
	x := &RTreeIndex{junctions: append([]graph.Junction(nil), junctions...)}
	for i, j := range x.junctions {
		pt := [2]float64{j.Pos.Lng, j.Pos.Lat}
		x.tr.Insert(pt, pt, i)
	}
	return x
}

// Nearest returns the junction minimizing the great-circle distance to p.
func (x *RTreeIndex) Nearest(p geo.Point) (graph.Junction, error) {
	if len(x.junctions) == 0 {
		return graph.Junction{}, ErrEmptyIndex
	}
	if !p.Valid() {
		return graph.Junction{}, fmt.Errorf("%w: %v", ErrInvalidPoint, p)
	}

	// Distance to the closest point of the box.
	lowerBound := func(min, max [2]float64, _ int, _ bool) float64 {
		lng := clamp(p.Lng, min[0], max[0])
		lat := clamp(p.Lat, min[1], max[1])
		return geo.EquirectangularDist(p.Lat, p.Lng, lat, lng)
	}

	best := -1
	bestDist := math.Inf(1)
	x.tr.Nearby(lowerBound, func(_, _ [2]float64, i int, approx float64) bool {
		if approx > bestDist*(1+snapSlackRatio)+snapSlackMeters {
			return false
		}
		d := geo.Distance(p, x.junctions[i].Pos)
		if d < bestDist || (d == bestDist && i < best) {
			best, bestDist = i, d
		}
		return true
	})
	if best < 0 {
		return graph.Junction{}, fmt.Errorf("%w: no candidate for %v", ErrInvalidPoint, p)
	}
	return x.junctions[best], nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}
