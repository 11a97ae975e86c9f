package models

import "testing"

func TestRankFacilitiesByDistance(t *testing.T) {
	const plotLat, plotLng = 18.56, 73.78

	facilities := []StorageFacility{
		{Name: "Far cold storage", Latitude: plotLat + 60/kmPerDegreeLat, Longitude: plotLng},
		{Name: "Village warehouse", Latitude: plotLat + 4/kmPerDegreeLat, Longitude: plotLng},
		{Name: "Taluka godown", Latitude: plotLat + 22/kmPerDegreeLat, Longitude: plotLng},
	}

	ranked := RankFacilitiesByDistance(facilities, plotLat, plotLng)
	if len(ranked) != 3 {
		t.Fatalf("got %d facilities, want 3", len(ranked))
	}
	want := []string{"Village warehouse", "Taluka godown", "Far cold storage"}
	for i, name := range want {
		if ranked[i].Facility.Name != name {
			t.Errorf("rank %d = %q, want %q", i, ranked[i].Facility.Name, name)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceKm < ranked[i-1].DistanceKm {
			t.Errorf("distances out of order at %d", i)
		}
	}
}
