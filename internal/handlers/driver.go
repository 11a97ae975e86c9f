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

// DriverLogin validates a driver's credential pair against their vehicle
// record. No token is issued: the same pair accompanies every later call.
func DriverLogin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ContactNumber string `json:"contact_number" binding:"required"`
			Password      string `json:"password" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var vehicle models.Vehicle
		if err := db.Where("contact_number = ?", input.ContactNumber).First(&vehicle).Error; err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := vehicle.CheckDriverPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		c.JSON(200, gin.H{
			"vehicle_id":     vehicle.ID,
			"driver_name":    vehicle.DriverName,
			"vehicle_number": vehicle.VehicleNumber,
		})
	}
}

// GetDriverSchedule lists the bookings assigned to the driver's vehicle that
// still need work.
func GetDriverSchedule(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		vehicleID := c.GetUint("vehicleId")

		var bookings []models.Booking
		if err := db.Preload("Goods").Preload("Farmer").
			Where("vehicle_id = ? AND status IN (?)", vehicleID, []string{
				models.BookingStatusAccepted,
				models.BookingStatusInTransit,
			}).
			Order("shipping_date, shipping_time").
			Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch schedule"})
			return
		}

		c.JSON(200, bookings)
	}
}

// StartTrip moves a booking to in_transit after the driver scans the plot's
// QR code (or types its id). The scanned identifier must exactly match the
// booking's plot id; anything else leaves the booking accepted.
func StartTrip(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		vehicleID := c.GetUint("vehicleId")

		var input struct {
			Payload string `json:"payload" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.VehicleID == nil || *booking.VehicleID != vehicleID {
			c.JSON(403, gin.H{"error": "Booking is not assigned to this vehicle"})
			return
		}

		scannedPlotID, err := utils.ParseScanPayload(input.Payload)
		if err != nil {
			observability.ScanMismatches.Inc()
			c.JSON(409, gin.H{"error": "QR code does not match this plot"})
			return
		}

		if err := booking.Start(scannedPlotID); err != nil {
			switch {
			case errors.Is(err, models.ErrPlotMismatch):
				observability.ScanMismatches.Inc()
				c.JSON(409, gin.H{"error": "QR code does not match this plot"})
			case errors.Is(err, models.ErrNotAccepted):
				c.JSON(409, gin.H{"error": err.Error()})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to start trip"})
			return
		}

		observability.TripsStarted.Inc()

		hub.SendTripStarted(booking.FarmerID, services.TripStarted{
			BookingID: booking.ID,
			VehicleID: vehicleID,
		})

		ctx := context.Background()
		services.PublishBookingUpdate(ctx, booking.ID, booking.Status, nil)

		c.JSON(200, booking)
	}
}

// CompleteTrip moves a booking to completed. The driver's device captures its
// geolocation at the moment of completion; the fix must land within 500m of
// the drop coordinates, enforced here.
func CompleteTrip(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		vehicleID := c.GetUint("vehicleId")

		var input struct {
			Lat float64 `json:"lat" binding:"required"`
			Lng float64 `json:"lng" binding:"required"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.VehicleID == nil || *booking.VehicleID != vehicleID {
			c.JSON(403, gin.H{"error": "Booking is not assigned to this vehicle"})
			return
		}

		if err := booking.Complete(input.Lat, input.Lng); err != nil {
			switch {
			case errors.Is(err, models.ErrOutsideGeofence):
				observability.GeofenceRejects.Inc()
				c.JSON(409, gin.H{"error": "You must be within 500m of the drop location to complete"})
			case errors.Is(err, models.ErrNoLocationFix):
				c.JSON(400, gin.H{"error": err.Error()})
			case errors.Is(err, models.ErrNotInTransit):
				c.JSON(409, gin.H{"error": err.Error()})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to complete trip"})
			return
		}

		observability.TripsCompleted.Inc()

		hub.SendTripCompleted(booking.FarmerID, services.TripCompleted{
			BookingID:  booking.ID,
			VehicleID:  vehicleID,
			DistanceKm: booking.DistanceKm,
		})

		ctx := context.Background()
		services.PublishBookingUpdate(ctx, booking.ID, booking.Status, map[string]interface{}{
			"delivered_lat": input.Lat,
			"delivered_lng": input.Lng,
		})

		c.JSON(200, booking)
	}
}

// UploadProofPhoto attaches a delivery photo to an in-transit or completed
// booking.
func UploadProofPhoto(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		vehicleID := c.GetUint("vehicleId")

		var booking models.Booking
		if err := db.First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.VehicleID == nil || *booking.VehicleID != vehicleID {
			c.JSON(403, gin.H{"error": "Booking is not assigned to this vehicle"})
			return
		}

		if booking.Status != models.BookingStatusInTransit && booking.Status != models.BookingStatusCompleted {
			c.JSON(409, gin.H{"error": "Proof photos can only be attached once the trip is underway"})
			return
		}

		file, err := c.FormFile("photo")
		if err != nil {
			c.JSON(400, gin.H{"error": "photo file is required"})
			return
		}

		path, err := services.UploadImage(file, "proofs")
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to store photo: " + err.Error()})
			return
		}

		booking.ProofPhotoURL = services.GetImageURL(path)
		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to attach photo"})
			return
		}

		c.JSON(200, gin.H{
			"message":         "Proof photo attached",
			"proof_photo_url": booking.ProofPhotoURL,
		})
	}
}
