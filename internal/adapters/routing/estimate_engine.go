package routing

import (
	"bin-dispatch-service/internal/domain"
	"bin-dispatch-service/internal/platform/geo"
	"context"
	"fmt"
)

// EstimateEngine is an offline RoutingEngine used when no routing API is
// configured. It sums straight-line legs, inflates them by a road detour
// factor and converts distance to time at a fixed average speed.
type EstimateEngine struct {
	DetourFactor float64
	SpeedKmh     float64
}

func NewEstimateEngine() *EstimateEngine {
	return &EstimateEngine{DetourFactor: 1.3, SpeedKmh: 25}
}

func (e *EstimateEngine) Route(ctx context.Context, req domain.RouteRequest) (domain.RouteSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.RouteSummary{}, err
	}
	if len(req.Waypoints) < 2 {
		return domain.RouteSummary{}, fmt.Errorf("estimate route: need at least 2 waypoints, got %d", len(req.Waypoints))
	}
	if e.SpeedKmh <= 0 {
		return domain.RouteSummary{}, fmt.Errorf("estimate route: speed must be positive, got %v", e.SpeedKmh)
	}

	meters := 0.0
	for i := 1; i < len(req.Waypoints); i++ {
		a, b := req.Waypoints[i-1], req.Waypoints[i]
		meters += geo.Haversine(a.Lat, a.Lng, b.Lat, b.Lng)
	}

	factor := e.DetourFactor
	if factor < 1 {
		factor = 1
	}
	meters *= factor

	return domain.RouteSummary{
		TotalDistanceMeters: meters,
		TotalTimeSeconds:    meters / (e.SpeedKmh * 1000 / 3600),
	}, nil
}
