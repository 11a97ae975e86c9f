package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/agrohaul/agrohaul-backend/internal/models"
	"github.com/agrohaul/agrohaul-backend/internal/observability"
	"github.com/agrohaul/agrohaul-backend/internal/services"
	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateBooking validates a farmer's transport request and persists it as a
// new booking, visible to every transporter on the dispatch board.
func CreateBooking(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		farmerID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeFarmer) {
			c.JSON(403, gin.H{"error": "Only farmers can create bookings"})
			return
		}

		var request models.BookingRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		if err := request.Validate(time.Now()); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		// A storage-facility drop borrows the facility's coordinates and
		// address when the request carries none of its own.
		if request.StorageFacilityID != nil {
			var facility models.StorageFacility
			if err := db.First(&facility, *request.StorageFacilityID).Error; err != nil {
				c.JSON(404, gin.H{"error": "Storage facility not found"})
				return
			}
			if !request.HasDropLocation() {
				request.DropLat = facility.Latitude
				request.DropLng = facility.Longitude
			}
			if request.DropLocation == "" {
				request.DropLocation = facility.Name + ", " + facility.Address
			}
		}

		if !request.HasDropLocation() {
			c.JSON(400, gin.H{"error": "Drop coordinates are required"})
			return
		}

		vehicleType := request.VehicleType
		if vehicleType == "" {
			vehicleType = models.VehicleTypeAny
		}

		// Distance and price are estimates from the great-circle path; a
		// routing-service path would override them when available.
		var distanceKm, priceEstimate float64
		if request.HasPickupLocation() {
			distanceKm = utils.HaversineDistance(
				request.PickupLat, request.PickupLng,
				request.DropLat, request.DropLng,
			)
			priceEstimate = utils.EstimateFreight(distanceKm, request.IsShared).Total
		}

		goods := make([]models.BookingGood, 0, len(request.Crops))
		for _, crop := range request.Crops {
			goods = append(goods, models.BookingGood{
				Name:     crop.Name,
				Quantity: crop.Quantity,
			})
		}

		booking := models.Booking{
			FarmerID:          farmerID,
			PlotID:            request.PlotID,
			PlotName:          request.PlotName,
			Goods:             goods,
			IsShared:          request.IsShared,
			VehicleType:       vehicleType,
			PickupLat:         request.PickupLat,
			PickupLng:         request.PickupLng,
			DropLocation:      request.DropLocation,
			DropLat:           request.DropLat,
			DropLng:           request.DropLng,
			StorageFacilityID: request.StorageFacilityID,
			ShippingDate:      request.ShippingDate,
			ShippingTime:      request.ShippingTime,
			Status:            models.BookingStatusNew,
			PaymentStatus:     models.PaymentStatusUnpaid,
			IntakeStatus:      models.IntakeStatusNone,
			DistanceKm:        distanceKm,
			PriceEstimate:     priceEstimate,
		}

		if err := db.Create(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create booking"})
			return
		}

		observability.BookingsCreated.Inc()
		if distanceKm > 0 {
			observability.BookingDistanceKm.Observe(distanceKm)
		}

		// Broadcast the open request to every connected transporter
		hub.SendBookingCreated(services.BookingCreated{
			BookingID:   booking.ID,
			PlotName:    booking.PlotName,
			DropLoc:     booking.DropLocation,
			VehicleType: booking.VehicleType,
			IsShared:    booking.IsShared,
			DistanceKm:  booking.DistanceKm,
		})

		c.JSON(201, booking)
	}
}

// ListBookings returns the caller's view of the booking list: farmers see
// their own requests, transporters see the full board.
func ListBookings(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		query := db.Preload("Goods").Preload("Vehicle").Order("created_at DESC")
		if userType == string(models.UserTypeFarmer) {
			query = query.Where("farmer_id = ?", userID)
		}

		var bookings []models.Booking
		if err := query.Find(&bookings).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch bookings"})
			return
		}

		c.JSON(200, bookings)
	}
}

// GetBookingStatus retrieves one booking, cheap enough for the farmer's
// acceptance poll loop.
func GetBookingStatus(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		var booking models.Booking
		if err := db.Preload("Goods").Preload("Vehicle").Preload("Farmer").
			First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if userType == string(models.UserTypeFarmer) && booking.FarmerID != userID {
			c.JSON(403, gin.H{"error": "Unauthorized to view this booking"})
			return
		}

		c.JSON(200, booking)
	}
}

// PayBooking flips the payment flag once goods are confirmed received into
// storage or factory custody. Before that the farmer waits for arrival.
func PayBooking(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")
		userID := c.GetUint("userId")
		userType := c.GetString("userType")

		if userType != string(models.UserTypeFarmer) {
			c.JSON(403, gin.H{"error": "Only farmers can pay for bookings"})
			return
		}

		var booking models.Booking
		if err := db.First(&booking, bookingID).Error; err != nil {
			c.JSON(404, gin.H{"error": "Booking not found"})
			return
		}

		if booking.FarmerID != userID {
			c.JSON(403, gin.H{"error": "Unauthorized to pay for this booking"})
			return
		}

		if err := booking.MarkPaid(); err != nil {
			switch {
			case errors.Is(err, models.ErrAlreadyPaid):
				c.JSON(409, gin.H{"error": err.Error()})
			case errors.Is(err, models.ErrAwaitingArrival):
				c.JSON(409, gin.H{"error": "Wait for arrival before paying"})
			default:
				c.JSON(400, gin.H{"error": err.Error()})
			}
			return
		}

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record payment"})
			return
		}

		observability.BookingsPaid.Inc()

		ctx := context.Background()
		services.PublishBookingUpdate(ctx, booking.ID, booking.Status, map[string]interface{}{
			"payment_status": booking.PaymentStatus,
		})

		c.JSON(200, booking)
	}
}

// RecordIntake is the storage-side scan: goods physically arrived at (or were
// stored in) the facility. This is what unlocks payment.
func RecordIntake(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookingID := c.Param("id")

		var input struct {
			Status string `json:"status" binding:"required,oneof=arrived stored"`
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

		if booking.IntakeStatus == models.IntakeStatusStored && input.Status == models.IntakeStatusArrived {
			c.JSON(409, gin.H{"error": "Goods are already stored"})
			return
		}

		booking.IntakeStatus = input.Status
		booking.ArrivalVerified = true

		if err := db.Save(&booking).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to record intake"})
			return
		}

		ctx := context.Background()
		services.PublishBookingUpdate(ctx, booking.ID, booking.Status, map[string]interface{}{
			"intake_status": booking.IntakeStatus,
		})

		c.JSON(200, booking)
	}
}
