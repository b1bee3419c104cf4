// Package osm derives a campus dataset from an OpenStreetMap PBF extract.
package osm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"campus_router/pkg/campus"
	"campus_router/pkg/logging"
)

// Junction is a way node kept in the walking network.
type Junction struct {
	NodeID osm.NodeID
	Lat    float64
	Lng    float64
}

// Segment joins two junctions along a single walkable way.
type Segment struct {
	From osm.NodeID
	To   osm.NodeID
}

// Place is a named point of interest.
type Place struct {
	NodeID osm.NodeID
	Name   string
	Lat    float64
	Lng    float64
}

// Stats counts what the extractor kept and dropped.
type Stats struct {
	Ways            int
	SkippedWays     int
	DroppedNodes    int
	DuplicatePlaces int
}

// ParseResult holds the walking network extracted from OSM data.
type ParseResult struct {
	Junctions []Junction // ascending node ID
	Segments  []Segment
	Places    []Place // ascending name
	Stats     Stats
}

// walkHighways lists highway tag values open to pedestrians by default.
var walkHighways = map[string]bool{
	"footway":       true,
	"path":          true,
	"pedestrian":    true,
	"steps":         true,
	"corridor":      true,
	"living_street": true,
	"residential":   true,
	"service":       true,
	"track":         true,
	"unclassified":  true,
	"tertiary":      true,
	"tertiary_link": true,
	"secondary":     true,
	"primary":       true,
}

// footOnlyIfTagged lists highway values walkable only with an explicit foot tag.
var footOnlyIfTagged = map[string]bool{
	"cycleway":      true,
	"bridleway":     true,
	"trunk":         true,
	"trunk_link":    true,
	"motorway":      true,
	"motorway_link": true,
}

func footAllowed(v string) bool {
	return v == "yes" || v == "designated" || v == "permissive"
}

// isWalkable returns true if the way can be used on foot.
func isWalkable(tags osm.Tags) bool {
	hw := tags.Find("highway")
	foot := tags.Find("foot")

	switch {
	case walkHighways[hw]:
	case footOnlyIfTagged[hw]:
		if !footAllowed(foot) {
			return false
		}
	default:
		return false
	}

	// Skip area highways (plazas are outlines, not paths).
	if tags.Find("area") == "yes" {
		return false
	}
	if foot == "no" {
		return false
	}

	// Restricted access unless pedestrians are explicitly let in.
	access := tags.Find("access")
	if (access == "no" || access == "private") && !footAllowed(foot) {
		return false
	}

	return true
}

// placeKeys are the tags that make a named node a destination.
var placeKeys = []string{"amenity", "building", "leisure", "shop", "tourism", "office", "entrance"}

// isPlace returns true if the node is a named point of interest.
func isPlace(tags osm.Tags) bool {
	if strings.TrimSpace(tags.Find("name")) == "" {
		return false
	}
	for _, k := range placeKeys {
		if tags.Find(k) != "" {
			return true
		}
	}
	return false
}

// ParseOptions configures the OSM parser.
type ParseOptions struct {
	// BBox, if non-zero, drops every node outside it. Ways crossing the
	// boundary are cut where they leave the box.
	BBox orb.Bound

	// KeepShapeNodes turns every way node into a junction instead of
	// collapsing runs of shape nodes into one segment.
	KeepShapeNodes bool
}

func (o ParseOptions) inBounds(p orb.Point) bool {
	return o.BBox.IsZero() || o.BBox.Contains(p)
}

// ParseBBox parses "minLat,minLng,maxLat,maxLng".
func ParseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox %q: want minLat,minLng,maxLat,maxLng", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}
	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}
	return orb.Bound{Min: orb.Point{v[1], v[0]}, Max: orb.Point{v[3], v[2]}}, nil
}

// Parse reads an OSM PBF file and extracts the walking network.
// The reader is consumed twice (seeks back to start for the second pass),
// so it must implement io.ReadSeeker.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ...ParseOptions) (*ParseResult, error) {
	var opt ParseOptions
	if len(opts) > 0 {
		opt = opts[0]
	}
	logger := logging.FromContext(ctx)

	// Pass 1: Scan ways to collect walkable ways and their node IDs.
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []*osm.Way

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || !isWalkable(w.Tags) || len(w.Nodes) < 2 {
			continue
		}
		for _, wn := range w.Nodes {
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, w)
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	logger.Info("pass 1 complete",
		slog.Int("ways", len(ways)),
		slog.Int("referenced_nodes", len(referencedNodes)))

	// Pass 2: Scan nodes for way coordinates and named places.
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	var nodes []*osm.Node
	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; needed || isPlace(n.Tags) {
			nodes = append(nodes, n)
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	logger.Info("pass 2 complete", slog.Int("nodes", len(nodes)))

	res := Extract(ways, nodes, opt)

	if res.Stats.DroppedNodes > 0 {
		logger.Warn("dropped way nodes",
			slog.Int("count", res.Stats.DroppedNodes),
			slog.Bool("bbox", !opt.BBox.IsZero()))
	}
	if res.Stats.DuplicatePlaces > 0 {
		logger.Warn("skipped duplicate place names", slog.Int("count", res.Stats.DuplicatePlaces))
	}
	logging.LogOperation(logger, "extracted walking network",
		slog.Int("junctions", len(res.Junctions)),
		slog.Int("segments", len(res.Segments)),
		slog.Int("places", len(res.Places)))

	return res, nil
}

// Extract builds the walking network from decoded OSM objects. Way nodes
// become junctions when they end a way or are shared by several ways; the
// shape nodes between two junctions collapse into one segment.
func Extract(ways []*osm.Way, nodes []*osm.Node, opt ParseOptions) *ParseResult {
	res := &ParseResult{}

	coords := make(map[osm.NodeID]orb.Point, len(nodes))
	var pois []*osm.Node
	for _, n := range nodes {
		coords[n.ID] = orb.Point{n.Lon, n.Lat}
		if isPlace(n.Tags) {
			pois = append(pois, n)
		}
	}

	// Step 1: Split walkable ways into runs of usable nodes.
	var runs [][]osm.NodeID
	for _, w := range ways {
		if !isWalkable(w.Tags) || len(w.Nodes) < 2 {
			res.Stats.SkippedWays++
			continue
		}
		res.Stats.Ways++

		var run []osm.NodeID
		flush := func() {
			if len(run) >= 2 {
				runs = append(runs, run)
			}
			run = nil
		}
		for _, wn := range w.Nodes {
			p, ok := coords[wn.ID]
			if !ok || !opt.inBounds(p) {
				res.Stats.DroppedNodes++
				flush()
				continue
			}
			if len(run) > 0 && run[len(run)-1] == wn.ID {
				continue
			}
			run = append(run, wn.ID)
		}
		flush()
	}

	// Step 2: Mark junctions.
	uses := make(map[osm.NodeID]int)
	junction := make(map[osm.NodeID]bool)
	for _, run := range runs {
		junction[run[0]] = true
		junction[run[len(run)-1]] = true
		for _, id := range run {
			uses[id]++
		}
	}
	for id, n := range uses {
		if n > 1 || opt.KeepShapeNodes {
			junction[id] = true
		}
	}

	// Step 3: Collapse each run into junction-to-junction segments.
	seen := make(map[[2]osm.NodeID]bool)
	addSegment := func(a, b osm.NodeID) {
		if a == b {
			return
		}
		key := [2]osm.NodeID{min(a, b), max(a, b)}
		if seen[key] {
			return
		}
		seen[key] = true
		res.Segments = append(res.Segments, Segment{From: a, To: b})
	}
	for _, run := range runs {
		start := 0
		for i := 1; i < len(run); i++ {
			if !junction[run[i]] {
				continue
			}
			if run[i] == run[start] && i-start > 1 {
				// Closed loop: split it at its middle shape node.
				mid := run[start+(i-start)/2]
				junction[mid] = true
				addSegment(run[start], mid)
				addSegment(mid, run[i])
			} else {
				addSegment(run[start], run[i])
			}
			start = i
		}
	}

	// Step 4: Emit junctions in ascending node ID.
	for id := range junction {
		p := coords[id]
		res.Junctions = append(res.Junctions, Junction{NodeID: id, Lat: p.Lat(), Lng: p.Lon()})
	}
	sort.Slice(res.Junctions, func(i, j int) bool {
		return res.Junctions[i].NodeID < res.Junctions[j].NodeID
	})

	// Step 5: Named places, first occurrence of each name wins.
	names := make(map[string]bool)
	for _, n := range pois {
		if !opt.inBounds(orb.Point{n.Lon, n.Lat}) {
			continue
		}
		name := strings.TrimSpace(n.Tags.Find("name"))
		if names[name] {
			res.Stats.DuplicatePlaces++
			continue
		}
		names[name] = true
		res.Places = append(res.Places, Place{NodeID: n.ID, Name: name, Lat: n.Lat, Lng: n.Lon})
	}
	sort.SliceStable(res.Places, func(i, j int) bool {
		return res.Places[i].Name < res.Places[j].Name
	})

	return res
}

// JunctionID is the dataset ID of an OSM node.
func JunctionID(id osm.NodeID) string {
	return "n" + strconv.FormatInt(int64(id), 10)
}

// Dataset converts the result into a campus dataset.
func (r *ParseResult) Dataset(name string) *campus.Dataset {
	ds := &campus.Dataset{
		Name:      name,
		Places:    make([]campus.PlaceRecord, 0, len(r.Places)),
		Junctions: make([]campus.JunctionRecord, 0, len(r.Junctions)),
		Segments:  make([]campus.SegmentRecord, 0, len(r.Segments)),
	}
	for _, p := range r.Places {
		ds.Places = append(ds.Places, campus.PlaceRecord{Name: p.Name, Lat: p.Lat, Lng: p.Lng})
	}
	for _, j := range r.Junctions {
		ds.Junctions = append(ds.Junctions, campus.JunctionRecord{ID: JunctionID(j.NodeID), Lat: j.Lat, Lng: j.Lng})
	}
	for _, s := range r.Segments {
		ds.Segments = append(ds.Segments, campus.SegmentRecord{A: JunctionID(s.From), B: JunctionID(s.To)})
	}
	return ds
}
