package graph

import (
	"errors"

	"campus_router/pkg/geo"
)

var (
	// ErrInvalidGraph is wrapped by every construction failure.
	ErrInvalidGraph = errors.New("invalid campus graph")

	ErrEmptyID           = errors.New("empty junction id")
	ErrDuplicateJunction = errors.New("duplicate junction id")
	ErrUnknownJunction   = errors.New("segment references unknown junction")
	ErrSelfLoop          = errors.New("segment joins a junction to itself")

	// ErrUnknownNode is returned when a query names a junction the graph
	// does not contain.
	ErrUnknownNode = errors.New("unknown junction")

	// ErrUnreachable is returned when no path joins the two junctions.
	ErrUnreachable = errors.New("no path available")
)

// Junction is a fixed point of the walkable path network.
type Junction struct {
	ID  string
	Pos geo.Point
}

// Segment is a walkable connection between two junctions. Orientation
// carries no meaning.
type Segment struct {
	A string
	B string
}

// Graph is an undirected junction graph in CSR (Compressed Sparse Row)
// format. Every segment is stored once in each direction. Node indices
// follow ascending junction ID, and each node's edge run is sorted by
// ascending neighbour index.
type Graph struct {
	NumNodes uint32
	NumEdges uint32    // directed edge count, twice the segment count
	FirstOut []uint32  // len: NumNodes + 1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32  // len: NumEdges; target node for each edge
	Weight   []float64 // len: NumEdges; geodesic length in meters

	ids       []string          // node index -> junction ID
	pos       []geo.Point       // node index -> coordinate
	index     map[string]uint32 // junction ID -> node index
	component []uint32          // node index -> component label
	numComps  int

	junctions []Junction // configured order
}

// EdgesFrom returns the range of edge indices for edges originating from node u.
func (g *Graph) EdgesFrom(u uint32) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// Junction looks up a junction by ID.
func (g *Graph) Junction(id string) (Junction, bool) {
	idx, ok := g.index[id]
	if !ok {
		return Junction{}, false
	}
	return Junction{ID: id, Pos: g.pos[idx]}, true
}

// Junctions returns the junctions in their configured order.
// The returned slice must not be modified.
func (g *Graph) Junctions() []Junction {
	return g.junctions
}

// Neighbors returns the IDs adjacent to id in ascending order, or nil if
// id is unknown.
func (g *Graph) Neighbors(id string) []string {
	u, ok := g.index[id]
	if !ok {
		return nil
	}
	start, end := g.EdgesFrom(u)
	out := make([]string, 0, end-start)
	for e := start; e < end; e++ {
		out = append(out, g.ids[g.Head[e]])
	}
	return out
}

// NumSegments returns the number of undirected segments.
func (g *Graph) NumSegments() int {
	return int(g.NumEdges / 2)
}

// NumComponents returns the number of connected components.
func (g *Graph) NumComponents() int {
	return g.numComps
}

// Connected reports whether a path exists between the two junctions.
// Unknown IDs are never connected.
func (g *Graph) Connected(a, b string) bool {
	ia, okA := g.index[a]
	ib, okB := g.index[b]
	return okA && okB && g.component[ia] == g.component[ib]
}

// NumJunctions returns the number of junctions.
func (g *Graph) NumJunctions() int {
	return int(g.NumNodes)
}
