package utils

import (
	"math"
	"testing"
)

// one degree of latitude under the haversine sphere model
const kmPerDegreeLat = 6371 * math.Pi / 180

func TestHaversineZeroForSamePoint(t *testing.T) {
	points := [][2]float64{
		{18.56, 73.78},
		{-1.2864, 36.8172},
		{90, 0},
		{-45.5, 179.9},
	}
	for _, p := range points {
		if d := HaversineDistance(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("distance from (%v,%v) to itself = %v, want 0", p[0], p[1], d)
		}
	}
}

func TestHaversineSymmetric(t *testing.T) {
	d1 := HaversineDistance(18.56, 73.78, 18.60, 73.80)
	d2 := HaversineDistance(18.60, 73.80, 18.56, 73.78)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineAlongMeridian(t *testing.T) {
	// Moving purely north, the great-circle distance is exactly the
	// latitude delta times the Earth circumference per degree.
	for _, km := range []float64{10, 50, 150} {
		got := HaversineDistance(18.56, 73.78, 18.56+km/kmPerDegreeLat, 73.78)
		if math.Abs(got-km) > 0.01 {
			t.Errorf("meridian distance = %v, want %v ± 0.01", got, km)
		}
	}
}

func TestIsWithinRadius(t *testing.T) {
	near := 18.56 + 10/kmPerDegreeLat
	far := 18.56 + 150/kmPerDegreeLat

	if !IsWithinRadius(18.56, 73.78, near, 73.78, 100) {
		t.Error("point 10km away should be within 100km radius")
	}
	if IsWithinRadius(18.56, 73.78, far, 73.78, 100) {
		t.Error("point 150km away should not be within 100km radius")
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{18.56, 73.78, true},
		{0, 5, true},
		{-90, 180, true},
		{0, 0, false}, // zero/zero means "no location"
		{91, 0, false},
		{-91, 0, false},
		{0, 181, false},
		{math.NaN(), 73.78, false},
		{18.56, math.Inf(1), false},
	}
	for _, c := range cases {
		if got := ValidCoordinates(c.lat, c.lng); got != c.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", c.lat, c.lng, got, c.want)
		}
	}
}

func TestCalculateETA(t *testing.T) {
	if eta := CalculateETA(30, 30); eta != 60 {
		t.Errorf("30km at 30km/h = %d minutes, want 60", eta)
	}
	if eta := CalculateETA(0.1, 30); eta != 1 {
		t.Errorf("short hops clamp to 1 minute, got %d", eta)
	}
	if eta := CalculateETA(15, 0); eta != 30 {
		t.Errorf("zero speed falls back to 30km/h, got %d", eta)
	}
}
