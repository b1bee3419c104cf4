package graph

import (
	"fmt"
	"math"
)

const noNode = ^uint32(0) // sentinel for "no node"

// MinHeap is a concrete-typed min-heap for the Dijkstra priority queue.
// Entries order by distance, then by node index, so equal-distance nodes
// are settled in ascending-ID order.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node uint32
	Dist float64
}

func (a PQItem) less(b PQItem) bool {
	if a.Dist != b.Dist {
		return a.Dist < b.Dist
	}
	return a.Node < b.Node
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, dist float64) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.items[i].less(h.items[parent]) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].less(h.items[smallest]) {
			smallest = left
		}
		if right < n && h.items[right].less(h.items[smallest]) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// ShortestPath returns the junction IDs along the shortest path from
// fromID to toID, endpoints included, and its total weight in meters.
//
// Among paths of equal weight the one discovered first wins: a predecessor
// is replaced only by a strictly shorter distance, and nodes at equal
// distance are settled in ascending-ID order. Results are reproducible for
// identical graphs and queries.
func (g *Graph) ShortestPath(fromID, toID string) ([]string, float64, error) {
	source, ok := g.index[fromID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownNode, fromID)
	}
	target, ok := g.index[toID]
	if !ok {
		return nil, 0, fmt.Errorf("%w: %q", ErrUnknownNode, toID)
	}
	if source == target {
		return []string{fromID}, 0, nil
	}
	if !g.Connected(fromID, toID) {
		return nil, 0, fmt.Errorf("%w: %s -> %s", ErrUnreachable, fromID, toID)
	}

	dist := make([]float64, g.NumNodes)
	pred := make([]uint32, g.NumNodes)
	settled := make([]bool, g.NumNodes)
	for i := range dist {
		dist[i] = math.Inf(1)
		pred[i] = noNode
	}
	dist[source] = 0

	var pq MinHeap
	pq.Push(source, 0)

	for pq.Len() > 0 {
		item := pq.Pop()
		u := item.Node
		if settled[u] || item.Dist > dist[u] {
			continue // stale entry
		}
		settled[u] = true
		if u == target {
			break
		}

		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			if settled[v] {
				continue
			}
			newDist := item.Dist + g.Weight[e]
			if newDist < dist[v] {
				dist[v] = newDist
				pred[v] = u
				pq.Push(v, newDist)
			}
		}
	}

	if math.IsInf(dist[target], 1) {
		return nil, 0, fmt.Errorf("%w: %s -> %s", ErrUnreachable, fromID, toID)
	}

	// Walk predecessors back from the target, then reverse.
	var path []string
	for node := target; node != noNode; node = pred[node] {
		path = append(path, g.ids[node])
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, dist[target], nil
}
