package services

import (
	"bin-dispatch-service/internal/domain"
	"fmt"
)

// BuildRouteRequest turns the selector output into the waypoint list for the
// routing engine: depot first, then the critical bins in the given order.
//
// The order is a priority hint only. Sequence optimization is left to the
// routing engine.
func BuildRouteRequest(depot domain.Coordinates, critical []domain.Bin) (domain.RouteRequest, error) {
	if len(critical) == 0 {
		return domain.RouteRequest{}, fmt.Errorf("build route request: %w", domain.ErrEmptyRequest)
	}

	waypoints := make([]domain.Waypoint, 0, 1+len(critical))
	waypoints = append(waypoints, depot)
	for _, b := range critical {
		waypoints = append(waypoints, b.Location)
	}

	return domain.RouteRequest{
		Waypoints:       waypoints,
		SuppressDisplay: true,
	}, nil
}
