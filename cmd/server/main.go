package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"campus_router/pkg/api"
	"campus_router/pkg/campus"
	"campus_router/pkg/logging"
)

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func main() {
	// A missing .env is fine; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	defaults := api.DefaultConfig("")
	dataPath := flag.String("data", getEnvOrDefault("CAMPUS_DATA", ""), "Path to campus dataset YAML (empty = built-in campus)")
	port := flag.Int("port", getEnvInt("PORT", 8080), "HTTP port")
	index := flag.String("index", getEnvOrDefault("CAMPUS_INDEX", string(campus.IndexLinear)), "Nearest-junction index: linear or rtree")
	corsOrigin := flag.String("cors-origin", getEnvOrDefault("CORS_ORIGIN", ""), "CORS allowed origin (empty = same-origin)")
	rateLimit := flag.Float64("rate", getEnvFloat("RATE_LIMIT", defaults.RateLimit), "Requests per second across all clients (0 = unlimited)")
	rateBurst := flag.Int("burst", getEnvInt("RATE_BURST", defaults.RateBurst), "Rate limiter burst size")
	requestTimeout := flag.Duration("request-timeout", getEnvDuration("REQUEST_TIMEOUT", defaults.RequestTimeout), "Per-request deadline")
	logLevel := flag.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	logFormat := flag.String("log-format", getEnvOrDefault("LOG_FORMAT", "text"), "Log format: text or json")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.NewStructuredLogger(os.Stderr, *logFormat, level)
	slog.SetDefault(logger)

	start := time.Now()

	kind, err := campus.ParseIndexKind(*index)
	if err != nil {
		logging.LogError(logger, "invalid configuration", err)
		os.Exit(1)
	}

	// Load dataset.
	var ds *campus.Dataset
	if *dataPath == "" {
		logger.Info("using built-in campus dataset")
		ds, err = campus.Default()
	} else {
		logger.Info("loading campus dataset", slog.String("path", *dataPath))
		ds, err = campus.Load(*dataPath)
	}
	if err != nil {
		logging.LogError(logger, "failed to load dataset", err)
		os.Exit(1)
	}

	// Build routing core.
	c, err := campus.Build(ds, kind)
	if err != nil {
		logging.LogError(logger, "failed to build campus", err)
		os.Exit(1)
	}
	stats := c.Stats()
	if stats.Components > 1 {
		logger.Warn("path network is disconnected; some routes will fail",
			slog.Int("components", stats.Components))
	}
	logging.LogOperation(logger, "campus ready",
		slog.String("name", c.Name),
		slog.Int("places", stats.Places),
		slog.Int("junctions", stats.Junctions),
		slog.Int("segments", stats.Segments),
		slog.String("index", string(kind)),
		slog.Duration("load_time", time.Since(start).Round(time.Millisecond)))

	// Setup HTTP server.
	cfg := api.DefaultConfig(fmt.Sprintf(":%d", *port))
	cfg.CORSOrigin = *corsOrigin
	cfg.RateLimit = *rateLimit
	cfg.RateBurst = *rateBurst
	cfg.RequestTimeout = *requestTimeout
	cfg.Logger = logger

	srv := api.NewServer(cfg, api.NewCampusHandlers(c, kind))

	if err := api.ListenAndServe(srv, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}
