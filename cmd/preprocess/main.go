package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"campus_router/pkg/campus"
	"campus_router/pkg/logging"
	osmparser "campus_router/pkg/osm"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	output := flag.String("output", "campus.yaml", "Output dataset file path")
	name := flag.String("name", "Campus", "Campus name written to the dataset")
	bbox := flag.String("bbox", "", "Bounding box filter: minLat,minLng,maxLat,maxLng (e.g. 10.826,78.688,10.832,78.695)")
	keepShape := flag.Bool("keep-shape", false, "Keep every way node as a junction")
	largest := flag.Bool("largest-component", true, "Drop junctions outside the largest connected component")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: preprocess --input <file.osm.pbf> [--output campus.yaml] [--bbox minLat,minLng,maxLat,maxLng]")
		os.Exit(1)
	}

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger(os.Stderr, "text", level)
	ctx := logging.WithLogger(context.Background(), logger)

	opts := osmparser.ParseOptions{KeepShapeNodes: *keepShape}
	if *bbox != "" {
		b, err := osmparser.ParseBBox(*bbox)
		if err != nil {
			logging.LogError(logger, "invalid bbox", err)
			os.Exit(1)
		}
		opts.BBox = b
		logger.Info("using bounding box filter",
			slog.Float64("min_lat", b.Min.Lat()), slog.Float64("max_lat", b.Max.Lat()),
			slog.Float64("min_lng", b.Min.Lon()), slog.Float64("max_lng", b.Max.Lon()))
	}

	start := time.Now()

	// Step 1: Parse OSM data.
	f, err := os.Open(*input)
	if err != nil {
		logging.LogError(logger, "failed to open input file", err)
		os.Exit(1)
	}
	defer f.Close()

	res, err := osmparser.Parse(ctx, f, opts)
	if err != nil {
		logging.LogError(logger, "failed to parse OSM data", err)
		os.Exit(1)
	}
	ds := res.Dataset(*name)

	// Step 2: Validate by building the routing core.
	c, err := campus.Build(ds, campus.IndexLinear)
	if err != nil {
		logging.LogError(logger, "extracted dataset is invalid", err)
		os.Exit(1)
	}

	// Step 3: Keep only the largest connected component.
	if *largest && c.Graph.NumComponents() > 1 {
		keep := c.Graph.LargestComponent()
		before := len(ds.Junctions)
		ds = ds.Restrict(keep)
		logger.Info("kept largest component",
			slog.Int("junctions", len(ds.Junctions)),
			slog.Float64("percent", float64(len(ds.Junctions))/float64(before)*100))
	}

	// Step 4: Write the dataset.
	out, err := os.Create(*output)
	if err != nil {
		logging.LogError(logger, "failed to create output", err)
		os.Exit(1)
	}
	if err := ds.Write(out); err != nil {
		out.Close()
		logging.LogError(logger, "failed to write dataset", err)
		os.Exit(1)
	}
	if err := out.Close(); err != nil {
		logging.LogError(logger, "failed to close output", err)
		os.Exit(1)
	}

	logging.LogOperation(logger, "done",
		slog.String("output", *output),
		slog.Int("places", len(ds.Places)),
		slog.Int("junctions", len(ds.Junctions)),
		slog.Int("segments", len(ds.Segments)),
		slog.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
}
