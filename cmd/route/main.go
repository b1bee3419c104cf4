package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"campus_router/pkg/api"
	"campus_router/pkg/campus"
	"campus_router/pkg/geo"
	"campus_router/pkg/logging"
	"campus_router/pkg/routing"
)

func main() {
	dataPath := flag.String("data", "", "Path to campus dataset YAML (empty = built-in campus)")
	from := flag.String("from", "", "Start point as lat,lng")
	to := flag.String("to", "", "Destination place name")
	index := flag.String("index", string(campus.IndexLinear), "Nearest-junction index: linear or rtree")
	asGeoJSON := flag.Bool("geojson", false, "Print the route as GeoJSON")
	list := flag.Bool("list", false, "List place names and exit")
	flag.Parse()

	if err := run(os.Stdout, *dataPath, *from, *to, *index, *asGeoJSON, *list); err != nil {
		logger := logging.NewStructuredLogger(os.Stderr, "text", slog.LevelInfo)
		logging.LogError(logger, "route failed", err)
		os.Exit(1)
	}
}

func run(w io.Writer, dataPath, from, to, index string, asGeoJSON, list bool) error {
	kind, err := campus.ParseIndexKind(index)
	if err != nil {
		return err
	}

	var ds *campus.Dataset
	if dataPath == "" {
		ds, err = campus.Default()
	} else {
		ds, err = campus.Load(dataPath)
	}
	if err != nil {
		return err
	}
	c, err := campus.Build(ds, kind)
	if err != nil {
		return err
	}

	if list {
		for _, p := range c.Places.Places() {
			fmt.Fprintln(w, p.Name)
		}
		return nil
	}

	if from == "" || to == "" {
		return fmt.Errorf("usage: route -from lat,lng -to <place> [-geojson]")
	}
	start, err := parseLatLng(from)
	if err != nil {
		return err
	}

	r, err := c.Planner.Plan(start, to)
	if err != nil {
		if suggestions := c.Places.Suggest(to); len(suggestions) > 0 {
			return fmt.Errorf("%w (did you mean: %s?)", err, strings.Join(suggestions, ", "))
		}
		return err
	}

	if asGeoJSON {
		data, err := api.RouteFeatureCollection(r).MarshalJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	printRoute(w, r)
	return nil
}

func parseLatLng(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("start %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("start latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("start longitude: %w", err)
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("start %q: coordinates must be finite and in range", s)
	}
	return p, nil
}

func printRoute(w io.Writer, r *routing.Route) {
	fmt.Fprintf(w, "Route to %s: %.1f m (%.1f m between junctions)\n",
		r.Destination, r.TotalDistanceMeters, r.NetworkDistanceMeters)
	for i, leg := range r.Legs {
		label := "junction " + r.JunctionIDs[min(i, len(r.JunctionIDs)-1)]
		if i == len(r.Legs)-1 {
			label = r.Destination
		}
		fmt.Fprintf(w, "  %2d. %8.1f m  to %-16s (%.6f, %.6f)\n",
			i+1, leg.DistanceMeters, label, leg.To.Lat, leg.To.Lng)
	}
}
