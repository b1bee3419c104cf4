package api

// RouteRequest is the JSON body for POST /api/v1/route.
type RouteRequest struct {
	Start       *LatLngJSON `json:"start"`
	Destination string      `json:"destination"`
}

// LatLngJSON represents a lat/lng pair in JSON.
type LatLngJSON struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteResponse is the JSON response for a successful route query.
type RouteResponse struct {
	Destination           string       `json:"destination"`
	TotalDistanceMeters   float64      `json:"total_distance_meters"`
	NetworkDistanceMeters float64      `json:"network_distance_meters"`
	Waypoints             []LatLngJSON `json:"waypoints"`
	Junctions             []string     `json:"junctions"`
	Legs                  []LegJSON    `json:"legs"`
	Polyline              string       `json:"polyline"`
}

// LegJSON is one straight piece of the route.
type LegJSON struct {
	From           LatLngJSON `json:"from"`
	To             LatLngJSON `json:"to"`
	DistanceMeters float64    `json:"distance_meters"`
}

// PlaceJSON is a named destination.
type PlaceJSON struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type PlacesResponse struct {
	Places []PlaceJSON `json:"places"`
}

type SuggestResponse struct {
	Query       string   `json:"query"`
	Suggestions []string `json:"suggestions"`
}

// JunctionJSON is a path junction, for drawing the network.
type JunctionJSON struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CampusResponse is the JSON response for GET /api/v1/campus.
type CampusResponse struct {
	Name      string         `json:"name"`
	Center    LatLngJSON     `json:"center"`
	Junctions []JunctionJSON `json:"junctions"`
}

// ErrorResponse is the JSON response for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// StatsResponse is the JSON response for GET /api/v1/stats.
type StatsResponse struct {
	Places     int    `json:"places"`
	Junctions  int    `json:"junctions"`
	Segments   int    `json:"segments"`
	Components int    `json:"components"`
	Index      string `json:"index"`
}

// HealthResponse is the JSON response for GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
}
