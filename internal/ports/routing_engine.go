package ports

import (
	"bin-dispatch-service/internal/domain"
	"context"
)

// Contract for the external routing engine.
// Implementations must return promptly with ctx.Err() once ctx is cancelled.
type RoutingEngine interface {
	// Return total distance and time for visiting the waypoints in order.
	Route(ctx context.Context, req domain.RouteRequest) (domain.RouteSummary, error)
}
