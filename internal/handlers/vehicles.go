package handlers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/agrohaul/agrohaul-backend/internal/models"
	"github.com/agrohaul/agrohaul-backend/internal/services"
	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterVehicle adds a vehicle to the transporter's fleet. The driver
// password captured here is what the driver later logs in with.
func RegisterVehicle(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		transporterID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeTransporter) {
			c.JSON(403, gin.H{"error": "Only transporters can register vehicles"})
			return
		}

		var input struct {
			DriverName     string  `json:"driver_name" binding:"required"`
			ContactNumber  string  `json:"contact_number" binding:"required"`
			VehicleNumber  string  `json:"vehicle_number" binding:"required"`
			CapacityTons   float64 `json:"capacity_tons" binding:"required"`
			VehicleType    string  `json:"vehicle_type" binding:"required,oneof=tempo truck tractor"`
			DriverPassword string  `json:"driver_password" binding:"required,min=6"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if input.CapacityTons <= 0 {
			c.JSON(400, gin.H{"error": "Capacity must be greater than zero"})
			return
		}

		vehicle := models.Vehicle{
			TransporterID: transporterID,
			DriverName:    input.DriverName,
			ContactNumber: input.ContactNumber,
			VehicleNumber: strings.ToUpper(input.VehicleNumber),
			CapacityTons:  input.CapacityTons,
			VehicleType:   input.VehicleType,
		}

		if err := vehicle.SetDriverPassword(input.DriverPassword); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash driver password"})
			return
		}

		if err := db.Create(&vehicle).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to register vehicle: " + err.Error()})
			return
		}

		c.JSON(201, vehicle)
	}
}

// ListVehicles lists vehicles, scoped to the caller's fleet or to everything.
func ListVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		scope := c.DefaultQuery("scope", "mine")

		query := db.Order("created_at DESC")
		if scope == "mine" {
			query = query.Where("transporter_id = ?", userID)
		}

		var vehicles []models.Vehicle
		if err := query.Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		c.JSON(200, vehicles)
	}
}

// UpdateVehicleLocation handles driver app position pings for the
// credential-authenticated vehicle.
func UpdateVehicleLocation(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.GetUint("vehicleId")

		var input struct {
			Lat float64 `json:"lat" binding:"required"`
			Lng float64 `json:"lng" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidCoordinates(input.Lat, input.Lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		now := time.Now()
		if err := db.Model(&models.Vehicle{}).Where("id = ?", vehicleID).Updates(map[string]interface{}{
			"latitude":            input.Lat,
			"longitude":           input.Lng,
			"location_updated_at": now,
		}).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update location"})
			return
		}

		// Refresh the live-position cache
		ctx := context.Background()
		services.SetVehicleLocation(ctx, vehicleID, input.Lat, input.Lng)

		c.JSON(200, gin.H{
			"message": "Location updated successfully",
			"location": gin.H{
				"lat": input.Lat,
				"lng": input.Lng,
			},
		})
	}
}

// GetNearbyVehicles finds vehicles with a live position within a radius of a
// reference point, annotated with distance. Sorting is opt-in: the farmer
// fallback contact list keeps registration order.
func GetNearbyVehicles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		latStr := c.Query("lat")
		lngStr := c.Query("lng")
		radiusStr := c.DefaultQuery("radius", "100") // Default 100km radius

		if latStr == "" || lngStr == "" {
			c.JSON(400, gin.H{"error": "Latitude and longitude are required"})
			return
		}

		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid latitude"})
			return
		}

		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil {
			c.JSON(400, gin.H{"error": "Invalid longitude"})
			return
		}

		radius, err := strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius <= 0 {
			c.JSON(400, gin.H{"error": "Invalid radius"})
			return
		}

		if !utils.ValidCoordinates(lat, lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		sortByDistance := c.Query("sort") == "distance"

		var vehicles []models.Vehicle
		if err := db.Find(&vehicles).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch vehicles"})
			return
		}

		nearby := models.FilterNearby(vehicles, lat, lng, radius, sortByDistance)

		c.JSON(200, gin.H{
			"vehicles": nearby,
			"count":    len(nearby),
		})
	}
}
