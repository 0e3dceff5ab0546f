package ports

import (
	"bin-dispatch-service/internal/domain"
	"context"
)

// Persistent cache of route summaries keyed by a waypoint fingerprint.
type RouteCache interface {
	// Return the cached summary and whether it was found.
	Get(ctx context.Context, key string) (domain.RouteSummary, bool, error)
	Put(ctx context.Context, key string, summary domain.RouteSummary) error
}
