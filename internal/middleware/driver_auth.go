package middleware

import (
	"github.com/agrohaul/agrohaul-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DriverAuthMiddleware authenticates a driver from the credential pair sent
// with every request. Drivers hold no token: the contact number and password
// accompany each call and are re-validated against the vehicle record, which
// scopes the driver to their own vehicle's bookings.
func DriverAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactNumber := c.Query("contact_number")
		password := c.Query("password")

		if contactNumber == "" || password == "" {
			c.JSON(401, gin.H{"error": "contact_number and password are required"})
			c.Abort()
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("contact_number = ?", contactNumber).First(&vehicle).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			c.Abort()
			return
		}

		if err := vehicle.CheckDriverPassword(password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			c.Abort()
			return
		}

		c.Set("vehicleId", vehicle.ID)
		c.Set("driverName", vehicle.DriverName)
		c.Next()
	}
}
