package models

import (
	"math"
	"testing"
)

const kmPerDegreeLat = 6371 * math.Pi / 180

// vehicleAtKm places a vehicle due north of the reference point.
func vehicleAtKm(baseLat, lng, km float64) Vehicle {
	lat := baseLat + km/kmPerDegreeLat
	return Vehicle{Latitude: &lat, Longitude: &lng}
}

func TestFilterNearby(t *testing.T) {
	const farmerLat, farmerLng = 18.56, 73.78

	vehicles := []Vehicle{
		vehicleAtKm(farmerLat, farmerLng, 10),
		vehicleAtKm(farmerLat, farmerLng, 50),
		vehicleAtKm(farmerLat, farmerLng, 150),
	}

	nearby := FilterNearby(vehicles, farmerLat, farmerLng, 100, false)
	if len(nearby) != 2 {
		t.Fatalf("got %d vehicles within 100km, want 2", len(nearby))
	}
	if math.Abs(nearby[0].DistanceKm-10) > 0.01 {
		t.Errorf("first distance = %v, want 10 ± 0.01", nearby[0].DistanceKm)
	}
	if math.Abs(nearby[1].DistanceKm-50) > 0.01 {
		t.Errorf("second distance = %v, want 50 ± 0.01", nearby[1].DistanceKm)
	}
}

func TestFilterNearbySkipsVehiclesWithoutPosition(t *testing.T) {
	zero := 0.0
	vehicles := []Vehicle{
		{}, // never pinged
		{Latitude: &zero, Longitude: &zero}, // pinged the null island sentinel
		vehicleAtKm(18.56, 73.78, 5),
	}

	nearby := FilterNearby(vehicles, 18.56, 73.78, 100, false)
	if len(nearby) != 1 {
		t.Fatalf("got %d vehicles, want 1", len(nearby))
	}
}

func TestFilterNearbySortsWhenAsked(t *testing.T) {
	const lat, lng = 18.56, 73.78
	vehicles := []Vehicle{
		vehicleAtKm(lat, lng, 80),
		vehicleAtKm(lat, lng, 20),
		vehicleAtKm(lat, lng, 40),
	}

	unsorted := FilterNearby(vehicles, lat, lng, 100, false)
	if math.Abs(unsorted[0].DistanceKm-80) > 0.01 {
		t.Errorf("unsorted result reordered: first = %v, want 80", unsorted[0].DistanceKm)
	}

	sorted := FilterNearby(vehicles, lat, lng, 100, true)
	for i := 1; i < len(sorted); i++ {
		if sorted[i].DistanceKm < sorted[i-1].DistanceKm {
			t.Fatalf("sorted result out of order at %d: %v after %v", i, sorted[i].DistanceKm, sorted[i-1].DistanceKm)
		}
	}
}

func TestMatchesPreference(t *testing.T) {
	truck := Vehicle{VehicleType: VehicleTypeTruck}

	if !truck.MatchesPreference("") {
		t.Error("empty preference should match any vehicle")
	}
	if !truck.MatchesPreference(VehicleTypeAny) {
		t.Error("'any' preference should match any vehicle")
	}
	if !truck.MatchesPreference(VehicleTypeTruck) {
		t.Error("exact preference should match")
	}
	if truck.MatchesPreference(VehicleTypeTempo) {
		t.Error("mismatched preference should not match")
	}
}

func TestDriverPasswordRoundtrip(t *testing.T) {
	v := Vehicle{}
	if err := v.SetDriverPassword("field-gate-7"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if v.DriverPasswordHash == "field-gate-7" {
		t.Error("password stored in the clear")
	}
	if err := v.CheckDriverPassword("field-gate-7"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := v.CheckDriverPassword("wrong"); err == nil {
		t.Error("wrong password accepted")
	}
}
