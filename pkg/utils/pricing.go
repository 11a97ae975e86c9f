package utils

import (
	"math"
)

// FreightEstimate contains the estimated freight charge and its breakdown
type FreightEstimate struct {
	Total       float64 `json:"total"`
	DistanceKm  float64 `json:"distance_km"`
	RatePerKm   float64 `json:"rate_per_km"`
	SharedTrip  bool    `json:"shared_trip"`
	MinimumFare float64 `json:"minimum_fare"`
}

const (
	// Freight rates in INR
	StandardRatePerKm   = 18.0  // Rate per km for a dedicated vehicle
	SharedRateDiscount  = 0.6   // Shared (pooled) trips pay a fraction of the rate
	MinimumFreight      = 250.0 // Minimum charge for distances <= 5km
	MinimumFareDistance = 5.0   // Distance threshold for minimum charge in km
)

// EstimateFreight calculates the freight charge for a trip of the given
// distance. Shared bookings split vehicle capacity across farmers, so they
// are billed at a discounted per-km rate.
func EstimateFreight(distanceKm float64, shared bool) FreightEstimate {
	ratePerKm := StandardRatePerKm
	if shared {
		ratePerKm = StandardRatePerKm * SharedRateDiscount
	}

	var total float64
	if distanceKm <= MinimumFareDistance {
		total = MinimumFreight
	} else {
		total = distanceKm * ratePerKm
	}

	// Round to 2 decimal places
	total = math.Round(total*100) / 100

	return FreightEstimate{
		Total:       total,
		DistanceKm:  math.Round(distanceKm*100) / 100,
		RatePerKm:   ratePerKm,
		SharedTrip:  shared,
		MinimumFare: MinimumFreight,
	}
}
