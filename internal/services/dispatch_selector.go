package services

import (
	"bin-dispatch-service/internal/domain"
	"cmp"
	"fmt"
	"slices"
)

// DefaultCriticalThreshold is the fill level a bin must exceed to be dispatched.
const DefaultCriticalThreshold = 80

// SelectCritical returns the bins whose level exceeds threshold, ordered by
// priority descending.
//
// The sort is stable: bins sharing a priority keep their input order. Priority
// only orders the result; it never moves the threshold.
// An empty result means the fleet is under control and is not an error.
func SelectCritical(bins []domain.Bin, threshold int) []domain.Bin {
	critical := make([]domain.Bin, 0, len(bins))
	for _, b := range bins {
		if b.Level > threshold {
			critical = append(critical, b)
		}
	}

	slices.SortStableFunc(critical, func(a, b domain.Bin) int {
		return cmp.Compare(b.Priority, a.Priority)
	})

	return critical
}

// Notify derives the notification shown for a selection result.
func Notify(critical []domain.Bin) domain.Notification {
	if len(critical) == 0 {
		return domain.Notification{
			State: domain.StateNominal,
			Text:  "All bins under control",
		}
	}

	return domain.Notification{
		State:         domain.StateCritical,
		Text:          fmt.Sprintf("%d Critical Bins | Optimized Route Generated", len(critical)),
		CriticalCount: len(critical),
	}
}
