package domain

import "time"

// Dispatch state reported to the presentation sink.
type DispatchState string

const (
	StateNominal  DispatchState = "NOMINAL"
	StateCritical DispatchState = "CRITICAL"
)

// Lifecycle of the route attached to a cycle report.
type RouteStatus string

const (
	RouteNone      RouteStatus = "none"
	RoutePending   RouteStatus = "pending"
	RouteReady     RouteStatus = "ready"
	RouteFailed    RouteStatus = "failed"
	RouteRetracted RouteStatus = "retracted"
)

// BinView is the per-bin card rendered by the presentation sink.
type BinView struct {
	ID       string  `json:"id"`
	Area     string  `json:"area"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Level    int     `json:"level"`
	Priority int     `json:"priority"`
	Health   Health  `json:"health"`
	Band     Band    `json:"band"`
}

type Notification struct {
	State         DispatchState `json:"state"`
	Text          string        `json:"text"`
	CriticalCount int           `json:"critical_count"`
}

type RouteView struct {
	Status    RouteStatus `json:"status"`
	Waypoints []Waypoint  `json:"waypoints,omitempty"`
}

type ChartPoint struct {
	Area  string `json:"area"`
	Level int    `json:"level"`
}

// CycleReport is everything the presentation sink receives for one dispatch cycle.
// A report can be published more than once per cycle: first when the cycle is
// evaluated, then again when its route request settles.
type CycleReport struct {
	CycleID      string       `json:"cycle_id"`
	GeneratedAt  time.Time    `json:"generated_at"`
	Bins         []BinView    `json:"bins"`
	Notification Notification `json:"notification"`
	Route        RouteView    `json:"route"`
	Metrics      *Metrics     `json:"metrics,omitempty"`
	Chart        []ChartPoint `json:"chart,omitempty"`
}

// Clone returns a copy that shares no slices with r.
func (r CycleReport) Clone() CycleReport {
	out := r
	out.Bins = append([]BinView(nil), r.Bins...)
	out.Route.Waypoints = append([]Waypoint(nil), r.Route.Waypoints...)
	out.Chart = append([]ChartPoint(nil), r.Chart...)
	if r.Metrics != nil {
		m := *r.Metrics
		out.Metrics = &m
	}
	return out
}
