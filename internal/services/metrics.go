package services

import (
	"bin-dispatch-service/internal/domain"
	"math"
)

const (
	// Currency units per km.
	FuelCostPerKm = 8.0
	// kg of CO2 per km.
	CO2KgPerKm = 0.21
	// Buffer applied over the raw routing estimate.
	ETABuffer = 1.2
)

// DeriveMetrics converts a routing summary into the reported operational figures.
//
// Distance and CO2 are rounded to 2 decimals, fuel cost to a whole unit, and
// ETA is the buffered minute count rounded up. Fuel and CO2 are computed from
// the unrounded distance.
func DeriveMetrics(summary domain.RouteSummary) domain.Metrics {
	km := summary.TotalDistanceMeters / 1000
	minutes := summary.TotalTimeSeconds / 60 * ETABuffer

	return domain.Metrics{
		DistanceKm: roundTo(km, 2),
		ETAMinutes: ceilMinutes(minutes),
		FuelCost:   roundTo(km*FuelCostPerKm, 0),
		CO2SavedKg: roundTo(km*CO2KgPerKm, 2),
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ceilMinutes tolerates float noise so that e.g. 12.000000000000002 reports 12.
func ceilMinutes(m float64) int {
	if m <= 0 {
		return 0
	}
	return int(math.Ceil(m - 1e-9))
}
