package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	"campus_router/pkg/logging"
)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// RequestTimeout bounds each request from the moment it passes the
	// limiters; route handlers answer 503 once it expires.
	RequestTimeout time.Duration
	MaxConcurrent  int
	CORSOrigin     string

	// RateLimit is the sustained requests per second across all clients;
	// zero disables limiting.
	RateLimit float64
	RateBurst int

	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		RequestTimeout: 5 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 2,
		CORSOrigin:     "",
		RateLimit:      20,
		RateBurst:      40,
	}
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, handlers *Handlers) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewHandler(cfg, handlers),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// NewHandler builds the routed, compressed handler tree.
func NewHandler(cfg ServerConfig, handlers *Handlers) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 5 * time.Second
	}

	mux := http.NewServeMux()

	// Concurrency limiter.
	sem := make(chan struct{}, cfg.MaxConcurrent)

	// Rate limiter shared by all routes.
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := max(cfg.RateBurst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return withMiddleware(h, sem, limiter, cfg)
	}

	// Routes.
	mux.HandleFunc("POST /api/v1/route", wrap(handlers.HandleRoute))
	mux.HandleFunc("POST /api/v1/route.geojson", wrap(handlers.HandleRouteGeoJSON))
	mux.HandleFunc("GET /api/v1/places", wrap(handlers.HandlePlaces))
	mux.HandleFunc("GET /api/v1/places/suggest", wrap(handlers.HandleSuggest))
	mux.HandleFunc("GET /api/v1/campus", wrap(handlers.HandleCampus))
	mux.HandleFunc("GET /api/v1/health", wrap(handlers.HandleHealth))
	mux.HandleFunc("GET /api/v1/stats", wrap(handlers.HandleStats))
	mux.HandleFunc("OPTIONS /api/v1/", wrap(handlePreflight))

	return gzhttp.GzipHandler(mux)
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func handlePreflight(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// withMiddleware wraps a handler with logging, recovery, security headers,
// rate and concurrency limiting.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}, limiter *rate.Limiter, cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			logging.LogHTTPRequest(cfg.Logger, r.Method, r.URL.Path, rec.status,
				float64(time.Since(start).Microseconds())/1000)
		}()

		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		// CORS.
		if cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		// Rate limiter.
		if limiter != nil && !limiter.Allow() {
			w.Header().Set("Retry-After", "1")
			writeError(rec, http.StatusTooManyRequests, "rate_limited", "")
			return
		}

		// Concurrency limiter.
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			writeError(rec, http.StatusServiceUnavailable, "service_unavailable", "")
			return
		}

		// Recovery.
		defer func() {
			if p := recover(); p != nil {
				logging.LogError(cfg.Logger, "panic in handler", fmt.Errorf("%v", p),
					slog.String("path", r.URL.Path))
				writeError(rec, http.StatusInternalServerError, "internal_error", "")
			}
		}()

		// Request timeout.
		ctx, cancel := context.WithTimeout(r.Context(), cfg.RequestTimeout)
		defer cancel()
		ctx = logging.WithLogger(ctx, cfg.Logger)

		handler(rec, r.WithContext(ctx))
	}
}
