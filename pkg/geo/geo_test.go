package geo

import (
	"math"
	"testing"
)

func TestDistance_Symmetric(t *testing.T) {
	lat1, lon1 := 48.7139, 21.2581
	lat2, lon2 := 48.7203, 21.2575

	d1 := Distance(lat1, lon1, lat2, lon2)
	d2 := Distance(lat2, lon2, lat1, lon1)

	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Expected symmetric distance, got %f and %f", d1, d2)
	}
}

func TestDistance_Zero(t *testing.T) {
	if d := Distance(48.7139, 21.2581, 48.7139, 21.2581); d != 0 {
		t.Errorf("Expected zero distance to self, got %f", d)
	}
}

func TestDistance_KnownPair(t *testing.T) {
	// Košice city centre to St. Elisabeth Cathedral, roughly 715 m.
	d := Distance(48.7139, 21.2581, 48.72039, 21.25759)
	if d < 700 || d > 730 {
		t.Errorf("Expected roughly 715 m, got %f", d)
	}
}

func TestDistance_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude on the mean sphere is ~111.19 km.
	d := Distance(48.0, 21.0, 49.0, 21.0)
	if math.Abs(d-111194.9) > 10 {
		t.Errorf("Expected ~111195 m, got %f", d)
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		radius   float64
		want     bool
	}{
		{"just inside token radius", 24.9, TokenRadiusM, true},
		{"just outside token radius", 25.1, TokenRadiusM, false},
		{"on the boundary", 25.0, TokenRadiusM, false},
		{"inside free roam radius", 99.9, FreeRoamRadiusM, true},
		{"outside free roam radius", 100.0, FreeRoamRadiusM, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Within(tt.distance, tt.radius); got != tt.want {
				t.Errorf("Within(%f, %f) = %v, want %v", tt.distance, tt.radius, got, tt.want)
			}
		})
	}
}

func TestRound1(t *testing.T) {
	if got := Round1(24.94999); got != 24.9 {
		t.Errorf("Expected 24.9, got %f", got)
	}
	if got := Round1(25.05); got != 25.1 {
		t.Errorf("Expected 25.1, got %f", got)
	}
}
