package utils

import "testing"

func TestEstimateFreightDedicated(t *testing.T) {
	est := EstimateFreight(10, false)
	if est.Total != 180 {
		t.Errorf("10km dedicated = %v, want 180", est.Total)
	}
	if est.RatePerKm != StandardRatePerKm {
		t.Errorf("rate = %v, want %v", est.RatePerKm, StandardRatePerKm)
	}
	if est.SharedTrip {
		t.Error("estimate marked shared for a dedicated trip")
	}
}

func TestEstimateFreightShared(t *testing.T) {
	est := EstimateFreight(10, true)
	if est.Total != 108 {
		t.Errorf("10km shared = %v, want 108", est.Total)
	}
	if !est.SharedTrip {
		t.Error("estimate not marked shared")
	}
}

func TestEstimateFreightMinimumFare(t *testing.T) {
	for _, km := range []float64{0.5, 3, 5} {
		est := EstimateFreight(km, false)
		if est.Total != MinimumFreight {
			t.Errorf("%vkm = %v, want minimum %v", km, est.Total, MinimumFreight)
		}
	}
	// Just past the threshold the per-km rate takes over.
	est := EstimateFreight(5.01, true)
	if est.Total == MinimumFreight {
		t.Errorf("5.01km shared should not be the flat minimum, got %v", est.Total)
	}
}

func TestEstimateFreightRounding(t *testing.T) {
	est := EstimateFreight(7.333, false)
	if est.Total != 131.99 {
		t.Errorf("7.333km dedicated = %v, want 131.99", est.Total)
	}
	if est.DistanceKm != 7.33 {
		t.Errorf("distance rounded to %v, want 7.33", est.DistanceKm)
	}
}
