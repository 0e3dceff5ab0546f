package domain

// Represents a request to the external routing engine.
// The first waypoint is always the depot; the remaining ones are critical bins
// in visiting order. SuppressDisplay asks the engine not to produce itinerary
// output, only the summary.
type RouteRequest struct {
	Waypoints       []Waypoint
	SuppressDisplay bool
}

// Distance and time totals returned by the routing engine for one request.
// A RouteSummary is only valid for the dispatch cycle that requested it.
type RouteSummary struct {
	TotalDistanceMeters float64
	TotalTimeSeconds    float64
}

// Operational figures derived from a RouteSummary.
type Metrics struct {
	DistanceKm float64 `json:"distance_km"`
	ETAMinutes int     `json:"eta_minutes"`
	FuelCost   float64 `json:"fuel_cost"`
	CO2SavedKg float64 `json:"co2_saved_kg"`
}
