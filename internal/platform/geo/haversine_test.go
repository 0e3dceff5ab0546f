package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	if d := Haversine(18.6725, 78.0940, 18.6725, 78.0940); d != 0 {
		t.Fatalf("same point distance = %f, want 0", d)
	}

	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := Haversine(0, 0, 1, 0)
	if math.Abs(d-111195) > 10 {
		t.Fatalf("1 degree latitude = %.0f m, want ~111195", d)
	}

	if a, b := Haversine(18.67, 78.09, 18.68, 78.10), Haversine(18.68, 78.10, 18.67, 78.09); math.Abs(a-b) > 1e-6 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}
