package api

import (
	"encoding/json"
	"errors"
	"math"
	"mime"
	"net/http"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-polyline"

	"campus_router/pkg/campus"
	"campus_router/pkg/geo"
	"campus_router/pkg/graph"
	"campus_router/pkg/logging"
	"campus_router/pkg/places"
	"campus_router/pkg/routing"
)

const maxRequestBody = 4096

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	router routing.Router
	places *places.Registry
	campus CampusResponse
	stats  StatsResponse
}

// NewHandlers creates handlers with the given router and place registry.
func NewHandlers(router routing.Router, reg *places.Registry, info CampusResponse, stats StatsResponse) *Handlers {
	return &Handlers{
		router: router,
		places: reg,
		campus: info,
		stats:  stats,
	}
}

// NewCampusHandlers wires handlers to an assembled campus.
func NewCampusHandlers(c *campus.Campus, kind campus.IndexKind) *Handlers {
	info := CampusResponse{
		Name:   c.Name,
		Center: toJSON(c.Center),
	}
	for _, j := range c.Graph.Junctions() {
		info.Junctions = append(info.Junctions, JunctionJSON{ID: j.ID, Lat: j.Pos.Lat, Lng: j.Pos.Lng})
	}
	s := c.Stats()
	stats := StatsResponse{
		Places:     s.Places,
		Junctions:  s.Junctions,
		Segments:   s.Segments,
		Components: s.Components,
		Index:      string(kind),
	}
	return NewHandlers(c.Planner, c.Places, info, stats)
}

// HandleRoute handles POST /api/v1/route.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := h.plan(w, r)
	if !ok {
		return
	}

	resp := RouteResponse{
		Destination:           route.Destination,
		TotalDistanceMeters:   route.TotalDistanceMeters,
		NetworkDistanceMeters: route.NetworkDistanceMeters,
		Waypoints:             make([]LatLngJSON, len(route.Waypoints)),
		Junctions:             route.JunctionIDs,
		Legs:                  make([]LegJSON, len(route.Legs)),
	}
	coords := make([][]float64, len(route.Waypoints))
	for i, p := range route.Waypoints {
		resp.Waypoints[i] = toJSON(p)
		coords[i] = []float64{p.Lat, p.Lng}
	}
	for i, leg := range route.Legs {
		resp.Legs[i] = LegJSON{From: toJSON(leg.From), To: toJSON(leg.To), DistanceMeters: leg.DistanceMeters}
	}
	resp.Polyline = string(polyline.EncodeCoords(coords))

	writeJSON(w, http.StatusOK, resp)
}

// HandleRouteGeoJSON handles POST /api/v1/route.geojson. The response is a
// FeatureCollection holding the route line and the two raw endpoints.
func (h *Handlers) HandleRouteGeoJSON(w http.ResponseWriter, r *http.Request) {
	route, ok := h.plan(w, r)
	if !ok {
		return
	}

	data, err := RouteFeatureCollection(route).MarshalJSON()
	if err != nil {
		logging.LogError(logging.FromContext(r.Context()), "encode geojson", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(data)
}

// RouteFeatureCollection converts a route to GeoJSON.
func RouteFeatureCollection(route *routing.Route) *geojson.FeatureCollection {
	line := make(orb.LineString, len(route.Waypoints))
	for i, p := range route.Waypoints {
		line[i] = orb.Point{p.Lng, p.Lat}
	}

	fc := geojson.NewFeatureCollection()

	path := geojson.NewFeature(line)
	path.Properties["kind"] = "route"
	path.Properties["destination"] = route.Destination
	path.Properties["total_distance_meters"] = route.TotalDistanceMeters
	path.Properties["network_distance_meters"] = route.NetworkDistanceMeters
	path.Properties["junctions"] = route.JunctionIDs
	fc.Append(path)

	start := geojson.NewFeature(line[0])
	start.Properties["kind"] = "start"
	fc.Append(start)

	end := geojson.NewFeature(line[len(line)-1])
	end.Properties["kind"] = "destination"
	end.Properties["name"] = route.Destination
	fc.Append(end)

	return fc
}

// plan decodes and validates a route request and runs the router. On
// failure it writes the error response and returns false.
func (h *Handlers) plan(w http.ResponseWriter, r *http.Request) (*routing.Route, bool) {
	// Enforce Content-Type.
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return nil, false
	}

	// Parse request.
	var req RouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "")
		return nil, false
	}

	// Validate.
	if req.Start == nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return nil, false
	}
	if err := validateCoord(*req.Start); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		return nil, false
	}
	if strings.TrimSpace(req.Destination) == "" {
		writeError(w, http.StatusBadRequest, "missing_destination", "destination")
		return nil, false
	}

	// A request that used up its deadline reading the body is not planned.
	if err := r.Context().Err(); err != nil {
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "")
		return nil, false
	}

	// Route.
	start := geo.Point{Lat: req.Start.Lat, Lng: req.Start.Lng}
	route, err := h.router.Plan(start, req.Destination)
	if err != nil {
		switch {
		case errors.Is(err, places.ErrUnknownPlace):
			writeError(w, http.StatusNotFound, "place_not_found", "destination")
		case errors.Is(err, routing.ErrInvalidPoint):
			writeError(w, http.StatusBadRequest, "invalid_coordinates", "start")
		case errors.Is(err, graph.ErrUnreachable):
			writeError(w, http.StatusNotFound, "no_path_available", "")
		default:
			logging.LogError(logging.FromContext(r.Context()), "route planning failed", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "")
		}
		return nil, false
	}
	return route, true
}

// HandlePlaces handles GET /api/v1/places.
func (h *Handlers) HandlePlaces(w http.ResponseWriter, r *http.Request) {
	all := h.places.Places()
	resp := PlacesResponse{Places: make([]PlaceJSON, len(all))}
	for i, p := range all {
		resp.Places[i] = PlaceJSON{Name: p.Name, Lat: p.Pos.Lat, Lng: p.Pos.Lng}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSuggest handles GET /api/v1/places/suggest?q=.
func (h *Handlers) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	writeJSON(w, http.StatusOK, SuggestResponse{Query: q, Suggestions: h.places.Suggest(q)})
}

// HandleCampus handles GET /api/v1/campus.
func (h *Handlers) HandleCampus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.campus)
}

// HandleHealth handles GET /api/v1/health.
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats)
}

func toJSON(p geo.Point) LatLngJSON {
	return LatLngJSON{Lat: p.Lat, Lng: p.Lng}
}

func validateCoord(ll LatLngJSON) error {
	if math.IsNaN(ll.Lat) || math.IsNaN(ll.Lng) || math.IsInf(ll.Lat, 0) || math.IsInf(ll.Lng, 0) {
		return errors.New("coordinates must be finite numbers")
	}
	if ll.Lat < -90 || ll.Lat > 90 || ll.Lng < -180 || ll.Lng > 180 {
		return errors.New("coordinates out of range")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field string) {
	writeJSON(w, status, ErrorResponse{Error: code, Field: field})
}
