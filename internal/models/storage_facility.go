package models

import (
	"sort"

	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"gorm.io/gorm"
)

// StorageFacility is a known warehouse or cold-storage drop target.
type StorageFacility struct {
	gorm.Model
	Name      string  `gorm:"not null" json:"name"`
	Address   string  `gorm:"not null" json:"address"`
	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`
}

// TableName specifies the table name
func (StorageFacility) TableName() string {
	return "storage_facilities"
}

// RankedFacility is a facility annotated with its distance from a plot.
type RankedFacility struct {
	Facility   StorageFacility `json:"facility"`
	DistanceKm float64         `json:"distance_km"`
}

// RankFacilitiesByDistance returns facilities sorted by ascending distance
// from the given point, for drop-location suggestions.
func RankFacilitiesByDistance(facilities []StorageFacility, lat, lng float64) []RankedFacility {
	ranked := make([]RankedFacility, 0, len(facilities))
	for _, f := range facilities {
		ranked = append(ranked, RankedFacility{
			Facility:   f,
			DistanceKm: utils.HaversineDistance(lat, lng, f.Latitude, f.Longitude),
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}
