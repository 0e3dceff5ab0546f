package ports

import (
	"bin-dispatch-service/internal/domain"
	"context"
)

// Consumer of per-cycle reports (map, bin cards, notification bar, charts).
type PresentationSink interface {
	Publish(ctx context.Context, report domain.CycleReport) error
}
