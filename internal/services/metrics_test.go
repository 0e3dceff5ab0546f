package services

import (
	"bin-dispatch-service/internal/domain"
	"testing"
)

func TestDeriveMetrics(t *testing.T) {
	cases := []struct {
		name    string
		summary domain.RouteSummary
		want    domain.Metrics
	}{
		{
			name:    "round numbers",
			summary: domain.RouteSummary{TotalDistanceMeters: 10000, TotalTimeSeconds: 600},
			want:    domain.Metrics{DistanceKm: 10.00, ETAMinutes: 12, FuelCost: 80, CO2SavedKg: 2.10},
		},
		{
			name:    "fractional",
			summary: domain.RouteSummary{TotalDistanceMeters: 3456.7, TotalTimeSeconds: 610},
			// 610/60*1.2 = 12.2 -> 13; 3.4567*8 = 27.65 -> 28; 3.4567*0.21 = 0.7259 -> 0.73
			want: domain.Metrics{DistanceKm: 3.46, ETAMinutes: 13, FuelCost: 28, CO2SavedKg: 0.73},
		},
		{
			name:    "zero",
			summary: domain.RouteSummary{},
			want:    domain.Metrics{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveMetrics(tc.summary)
			if got != tc.want {
				t.Fatalf("DeriveMetrics(%+v) = %+v, want %+v", tc.summary, got, tc.want)
			}
		})
	}
}

func TestDeriveMetricsIsDeterministic(t *testing.T) {
	s := domain.RouteSummary{TotalDistanceMeters: 7321.4, TotalTimeSeconds: 1234}

	first := DeriveMetrics(s)
	for i := 0; i < 5; i++ {
		if got := DeriveMetrics(s); got != first {
			t.Fatalf("run %d = %+v, want %+v", i, got, first)
		}
	}
}
