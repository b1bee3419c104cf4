package routing

import (
	"fmt"

	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/places"
)

// Leg is one straight piece of a route between consecutive waypoints.
type Leg struct {
	From           geo.Point
	To             geo.Point
	DistanceMeters float64
}

// Route is the output of a planning query.
type Route struct {
	Destination string

	// Waypoints starts with the raw start point and ends with the raw
	// destination, with the junction chain in between.
	Waypoints   []geo.Point
	JunctionIDs []string
	Legs        []Leg

	// TotalDistanceMeters covers the full waypoint chain, snapping legs
	// included. NetworkDistanceMeters is the junction-to-junction part only.
	TotalDistanceMeters   float64
	NetworkDistanceMeters float64
}

// Router is the interface for route queries.
type Router interface {
	Plan(start geo.Point, destination string) (*Route, error)
}

// Planner implements Router over a static graph, place registry and
// junction index. It holds no mutable state and is safe for concurrent use.
type Planner struct {
	places *places.Registry
	graph  *graph.Graph
	index  JunctionIndex
}

// NewPlanner creates a Planner.
func NewPlanner(reg *places.Registry, g *graph.Graph, idx JunctionIndex) *Planner {
	return &Planner{
		places: reg,
		graph:  g,
		index:  idx,
	}
}

// Plan computes the walking route from start to the named destination.
func (p *Planner) Plan(start geo.Point, destination string) (*Route, error) {
	// Step 1: Resolve the destination name.
	dest, err := p.places.Resolve(destination)
	if err != nil {
		return nil, err
	}

	// Step 2: Snap both endpoints to junctions.
	from, err := p.index.Nearest(start)
	if err != nil {
		return nil, fmt.Errorf("snap start: %w", err)
	}
	to, err := p.index.Nearest(dest)
	if err != nil {
		return nil, fmt.Errorf("snap destination: %w", err)
	}

	// Step 3: Shortest path over the junction graph.
	ids, networkDist, err := p.graph.ShortestPath(from.ID, to.ID)
	if err != nil {
		return nil, err
	}

	// Step 4: Stitch the raw endpoints onto the junction chain.
	waypoints := make([]geo.Point, 0, len(ids)+2)
	waypoints = append(waypoints, start)
	for _, id := range ids {
		j, ok := p.graph.Junction(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", graph.ErrUnknownNode, id)
		}
		waypoints = append(waypoints, j.Pos)
	}
	waypoints = append(waypoints, dest)

	// Step 5: Sum the full chain.
	legs := make([]Leg, 0, len(waypoints)-1)
	var total float64
	for i := 0; i < len(waypoints)-1; i++ {
		d := geo.Distance(waypoints[i], waypoints[i+1])
		legs = append(legs, Leg{From: waypoints[i], To: waypoints[i+1], DistanceMeters: d})
		total += d
	}

	return &Route{
		Destination:           destination,
		Waypoints:             waypoints,
		JunctionIDs:           ids,
		Legs:                  legs,
		TotalDistanceMeters:   total,
		NetworkDistanceMeters: networkDist,
	}, nil
}
