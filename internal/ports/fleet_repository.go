package ports

import (
	"bin-dispatch-service/internal/domain"
	"context"
)

// Port: a boundary for loading the static fleet (areas and seed bins).
type FleetRepository interface {
	ListAreas(ctx context.Context) ([]domain.Area, error)
	// Bins are returned in seed order.
	ListBins(ctx context.Context) ([]domain.Bin, error)
}
