package graph

// UnionFind implements a disjoint-set data structure with path compression
// and union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	for i := range n {
		parent[i] = i
	}
	return &UnionFind{
		parent: parent,
		rank:   make([]byte, n),
	}
}

// Find returns the representative of the set containing x, with path halving.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]] // path halving
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx := uf.Find(x)
	ry := uf.Find(y)
	if rx == ry {
		return false
	}

	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// labelComponents assigns each node a dense component label. Labels are
// numbered in order of each component's lowest node index.
func labelComponents(g *Graph) ([]uint32, int) {
	if g.NumNodes == 0 {
		return nil, 0
	}

	uf := NewUnionFind(g.NumNodes)
	for u := uint32(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			uf.Union(u, g.Head[e])
		}
	}

	labels := make([]uint32, g.NumNodes)
	byRoot := make(map[uint32]uint32)
	for i := uint32(0); i < g.NumNodes; i++ {
		root := uf.Find(i)
		label, ok := byRoot[root]
		if !ok {
			label = uint32(len(byRoot))
			byRoot[root] = label
		}
		labels[i] = label
	}
	return labels, len(byRoot)
}

// Components returns the junction IDs of every connected component, each
// sorted ascending, ordered by their smallest ID.
func (g *Graph) Components() [][]string {
	comps := make([][]string, g.numComps)
	for i := uint32(0); i < g.NumNodes; i++ {
		c := g.component[i]
		comps[c] = append(comps[c], g.ids[i])
	}
	return comps
}

// LargestComponent returns the IDs of the largest component; ties go to
// the component containing the smallest ID.
func (g *Graph) LargestComponent() []string {
	var best []string
	for _, c := range g.Components() {
		if len(c) > len(best) {
			best = c
		}
	}
	return best
}
