package handlers

import (
	"strconv"

	"github.com/agrohaul/agrohaul-backend/internal/models"
	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateStorageFacility registers a warehouse or cold-storage drop target.
func CreateStorageFacility(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name      string  `json:"name" binding:"required"`
			Address   string  `json:"address" binding:"required"`
			Latitude  float64 `json:"latitude" binding:"required"`
			Longitude float64 `json:"longitude" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if !utils.ValidCoordinates(input.Latitude, input.Longitude) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		facility := models.StorageFacility{
			Name:      input.Name,
			Address:   input.Address,
			Latitude:  input.Latitude,
			Longitude: input.Longitude,
		}

		if err := db.Create(&facility).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create storage facility"})
			return
		}

		c.JSON(201, facility)
	}
}

// ListStorageFacilities lists facilities; when a plot's coordinates are
// given, the list is ranked by ascending distance for drop suggestions.
func ListStorageFacilities(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var facilities []models.StorageFacility
		if err := db.Find(&facilities).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch storage facilities"})
			return
		}

		latStr := c.Query("lat")
		lngStr := c.Query("lng")
		if latStr == "" || lngStr == "" {
			c.JSON(200, facilities)
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
		if !utils.ValidCoordinates(lat, lng) {
			c.JSON(400, gin.H{"error": "Invalid coordinates"})
			return
		}

		c.JSON(200, models.RankFacilitiesByDistance(facilities, lat, lng))
	}
}
