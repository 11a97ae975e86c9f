package models

import (
	"sort"
	"time"

	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Vehicle type constants
const (
	VehicleTypeAny     = "any"
	VehicleTypeTempo   = "tempo"
	VehicleTypeTruck   = "truck"
	VehicleTypeTractor = "tractor"
)

// Vehicle represents a transporter-owned vehicle with an optional live
// position. Vehicles are registered once and never deleted; position is
// refreshed by driver app pings.
type Vehicle struct {
	gorm.Model
	TransporterID      uint       `gorm:"not null;index" json:"transporter_id"`
	Transporter        *User      `gorm:"foreignKey:TransporterID" json:"transporter,omitempty"`
	DriverName         string     `gorm:"not null" json:"driver_name"`
	ContactNumber      string     `gorm:"unique;not null" json:"contact_number"`
	VehicleNumber      string     `gorm:"unique;not null" json:"vehicle_number"`
	CapacityTons       float64    `gorm:"not null;check:capacity_tons > 0" json:"capacity_tons"`
	VehicleType        string     `gorm:"not null" json:"vehicle_type"`
	DriverPasswordHash string     `gorm:"not null" json:"-"`
	Latitude           *float64   `json:"latitude"`
	Longitude          *float64   `json:"longitude"`
	LocationUpdatedAt  *time.Time `json:"location_updated_at"`
}

// TableName specifies the table name
func (Vehicle) TableName() string {
	return "vehicles"
}

func (v *Vehicle) SetDriverPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	v.DriverPasswordHash = string(hashedPassword)
	return nil
}

func (v *Vehicle) CheckDriverPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(v.DriverPasswordHash), []byte(password))
}

// HasLiveLocation reports whether the vehicle has ever pinged a position.
func (v *Vehicle) HasLiveLocation() bool {
	return v.Latitude != nil && v.Longitude != nil
}

// MatchesPreference reports whether the vehicle loosely satisfies a booking's
// vehicle-type preference. An empty or "any" preference matches everything.
func (v *Vehicle) MatchesPreference(preference string) bool {
	if preference == "" || preference == VehicleTypeAny {
		return true
	}
	return v.VehicleType == preference
}

// NearbyVehicle is a vehicle annotated with its distance from a reference point.
type NearbyVehicle struct {
	Vehicle    Vehicle `json:"vehicle"`
	DistanceKm float64 `json:"distance_km"`
}

// FilterNearby returns the vehicles with a live position within radiusKm of
// the reference point, each annotated with its computed distance. The result
// is left in input order unless sortByDistance is set; the farmer-facing
// nearby list is unsorted while storage-facility suggestions sort ascending.
func FilterNearby(vehicles []Vehicle, lat, lng, radiusKm float64, sortByDistance bool) []NearbyVehicle {
	nearby := make([]NearbyVehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if !v.HasLiveLocation() {
			continue
		}
		if !utils.ValidCoordinates(*v.Latitude, *v.Longitude) {
			continue
		}
		distance := utils.HaversineDistance(lat, lng, *v.Latitude, *v.Longitude)
		if distance <= radiusKm {
			nearby = append(nearby, NearbyVehicle{Vehicle: v, DistanceKm: distance})
		}
	}

	if sortByDistance {
		sort.Slice(nearby, func(i, j int) bool {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		})
	}

	return nearby
}
