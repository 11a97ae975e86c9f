package handlers

import (
	"context"
	"errors"

	"github.com/agrohaul/agrohaul-backend/internal/models"
	"github.com/agrohaul/agrohaul-backend/internal/observability"
	"github.com/agrohaul/agrohaul-backend/internal/services"
	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetDispatchBoard returns the transporter-facing board, partitioned into
// open requests any transporter may accept and already-claimed bookings.
func GetDispatchBoard(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("userType")

		if userType != string(models.UserTypeTransporter) {
			c.JSON(403, gin.H{"error": "Only transporters can view the dispatch board"})
			return
		}

		var bookings []models.Booking
		if err := db.Preload("Goods").Preload("Vehicle").Preload("Farmer").
			Order("created_at DESC").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		open := make([]models.Booking, 0)
		claimed := make([]models.Booking, 0)
		for _, b := range bookings {
			if b.Status == models.BookingStatusNew {
				open = append(open, b)
			} else {
				claimed = append(claimed, b)
			}
		}

		c.JSON(200, gin.H{
			"open":    open,
			"claimed": claimed,
		})
	}
}

// AcceptBooking claims an open booking for one of the transporter's vehicles.
// Concurrent accepts race; the database is the arbiter and exactly one
// transporter wins. A late accept comes back as a conflict.
func AcceptBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		transporterID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeTransporter) {
			c.JSON(403, gin.H{"error": "Only transporters can accept bookings"})
			return
		}

		vehicleID := c.Query("vehicle_id")
		if vehicleID == "" {
			c.JSON(400, gin.H{"error": "vehicle_id is required"})
			return
		}

		var vehicle models.Vehicle
		if err := db.First(&vehicle, vehicleID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Vehicle not found"})
			return
		}

		if vehicle.TransporterID != transporterID {
			c.JSON(403, gin.H{"error": "Vehicle does not belong to this transporter"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		// Run the lifecycle guards on the loaded copy first
		if err := booking.Accept(&vehicle); err != nil {
			switch {
			case errors.Is(err, models.ErrAlreadyClaimed):
				observability.AcceptConflicts.Inc()
				c.JSON(409, gin.H{"error": "Booking already accepted by another transporter"})
			case errors.Is(err, models.ErrVehicleTypeWrong):
				c.JSON(400, gin.H{"error": err.Error()})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		// The guarded update is what actually decides the race: only the
		// transition from new can flip the row.
		result := db.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, models.BookingStatusNew).
			Updates(map[string]interface{}{
				"status":     models.BookingStatusAccepted,
				"vehicle_id": vehicle.ID,
			})
		if result.Error != nil {
			c.JSON(500, gin.H{"error": "Failed to accept booking"})
			return
		}
		if result.RowsAffected == 0 {
			observability.AcceptConflicts.Inc()
			c.JSON(409, gin.H{"error": "Booking already accepted by another transporter"})
			return
		}

		observability.BookingsAccepted.Inc()

		// Re-fetch for the response instead of patching locally
		if err := db.Preload("Goods").Preload("Vehicle").First(&booking, booking.ID).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to reload booking"})
			return
		}

		// ETA from the vehicle's last known position to the pickup point
		eta := 0
		if vehicle.HasLiveLocation() && utils.ValidCoordinates(booking.PickupLat, booking.PickupLng) {
			distance := utils.HaversineDistance(
				*vehicle.Latitude, *vehicle.Longitude,
				booking.PickupLat, booking.PickupLng,
			)
			eta = utils.CalculateETA(distance, 30)
		}

		hub.SendBookingAccepted(booking.FarmerID, services.BookingAccepted{
			BookingID:     booking.ID,
			VehicleID:     vehicle.ID,
			VehicleNumber: vehicle.VehicleNumber,
			DriverName:    vehicle.DriverName,
			EstimatedTime: eta,
		})

		ctx := context.Background()
		services.PublishBookingUpdate(ctx, booking.ID, booking.Status, map[string]interface{}{
			"vehicle_id": vehicle.ID,
		})

		c.JSON(200, booking)
	}
}
