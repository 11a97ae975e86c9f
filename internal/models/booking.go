package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/agrohaul/agrohaul-backend/pkg/utils"
	"gorm.io/gorm"
)

// Booking status constants
const (
	BookingStatusNew       = "new"
	BookingStatusAccepted  = "accepted"
	BookingStatusInTransit = "in_transit"
	BookingStatusCompleted = "completed"
)

// Payment status constants
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// Intake status constants, set by storage-side scanning
const (
	IntakeStatusNone    = "none"
	IntakeStatusArrived = "arrived"
	IntakeStatusStored  = "stored"
)

// DropGeofenceKm is the maximum distance between the driver's completion fix
// and the booking's drop coordinates. Enforced server-side; the driver app
// only captures and forwards the fix.
const DropGeofenceKm = 0.5

// Lifecycle guard errors. Handlers map these to conflict responses so the
// caller can retry with corrected input.
var (
	ErrAlreadyClaimed   = errors.New("booking already accepted by another transporter")
	ErrNotAccepted      = errors.New("booking is not awaiting trip start")
	ErrNotInTransit     = errors.New("booking is not in transit")
	ErrPlotMismatch     = errors.New("scanned code does not match this plot")
	ErrNoLocationFix    = errors.New("a current location fix is required to complete the trip")
	ErrOutsideGeofence  = errors.New("completion location is outside the drop geofence")
	ErrAwaitingArrival  = errors.New("goods have not been received into storage yet")
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrVehicleTypeWrong = errors.New("vehicle does not match the requested vehicle type")
)

// BookingGood is one crop line on a booking. The goods list is never empty
// and every quantity is positive, enforced at request-build time.
type BookingGood struct {
	gorm.Model
	BookingID uint    `gorm:"not null;index" json:"booking_id"`
	Name      string  `gorm:"not null" json:"name"`
	Quantity  float64 `gorm:"not null;check:quantity > 0" json:"quantity"`
}

// TableName specifies the table name
func (BookingGood) TableName() string {
	return "booking_goods"
}

// Booking is a single farmer transport request from a plot to a drop
// location, carried through new → accepted → in_transit → completed with
// payment and intake as orthogonal flags.
type Booking struct {
	gorm.Model
	FarmerID          uint          `gorm:"not null;index" json:"farmer_id"`
	Farmer            *User         `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
	PlotID            uint          `gorm:"not null" json:"plot_id"`
	PlotName          string        `gorm:"not null" json:"plot_name"`
	Goods             []BookingGood `gorm:"foreignKey:BookingID" json:"goods"`
	IsShared          bool          `json:"is_shared"`
	VehicleType       string        `gorm:"not null;default:'any'" json:"vehicle_type"`
	PickupLat         float64       `json:"pickup_lat"`
	PickupLng         float64       `json:"pickup_lng"`
	DropLocation      string        `gorm:"not null" json:"drop_location"`
	DropLat           float64       `json:"drop_lat"`
	DropLng           float64       `json:"drop_lng"`
	StorageFacilityID *uint         `json:"storage_facility_id"`
	ShippingDate      string        `gorm:"not null" json:"shipping_date"`
	ShippingTime      string        `gorm:"not null" json:"shipping_time"`
	Status            string        `gorm:"not null;default:'new'" json:"status"`
	VehicleID         *uint         `json:"vehicle_id"`
	Vehicle           *Vehicle      `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	PaymentStatus     string        `gorm:"not null;default:'unpaid'" json:"payment_status"`
	IntakeStatus      string        `gorm:"not null;default:'none'" json:"intake_status"`
	ArrivalVerified   bool          `json:"arrival_verified"`
	DistanceKm        float64       `json:"distance_km"`
	PriceEstimate     float64       `json:"price_estimate"`
	DeliveredLat      *float64      `json:"delivered_lat"`
	DeliveredLng      *float64      `json:"delivered_lng"`
	ProofPhotoURL     string        `json:"proof_photo_url"`
}

// TableName specifies the table name
func (Booking) TableName() string {
	return "bookings"
}

// Accept moves the booking from new to accepted, binding the transporter's
// vehicle. Only one transporter wins a concurrent accept; any later attempt
// sees a non-new status.
func (b *Booking) Accept(vehicle *Vehicle) error {
	if b.Status != BookingStatusNew {
		return ErrAlreadyClaimed
	}
	if !vehicle.MatchesPreference(b.VehicleType) {
		return ErrVehicleTypeWrong
	}
	id := vehicle.ID
	b.VehicleID = &id
	b.Status = BookingStatusAccepted
	return nil
}

// Start moves the booking from accepted to in_transit after the driver echoes
// back this booking's plot id, scanned from the plot's QR code. The full
// identifier must match exactly; a driver cannot start an unrelated booking
// by guessing.
func (b *Booking) Start(scannedPlotID uint) error {
	if b.Status != BookingStatusAccepted {
		return ErrNotAccepted
	}
	if scannedPlotID != b.PlotID {
		return ErrPlotMismatch
	}
	b.Status = BookingStatusInTransit
	return nil
}

// Complete moves the booking from in_transit to completed. The driver's
// captured geolocation must fall within DropGeofenceKm of the drop
// coordinates; a missing fix is a hard failure with no fallback.
func (b *Booking) Complete(lat, lng float64) error {
	if b.Status != BookingStatusInTransit {
		return ErrNotInTransit
	}
	if !utils.ValidCoordinates(lat, lng) {
		return ErrNoLocationFix
	}
	if !utils.IsWithinRadius(b.DropLat, b.DropLng, lat, lng, DropGeofenceKm) {
		return ErrOutsideGeofence
	}
	b.Status = BookingStatusCompleted
	b.DeliveredLat = &lat
	b.DeliveredLng = &lng
	return nil
}

// CanPay reports whether payment is currently allowed: goods must have been
// confirmed received into storage or factory custody.
func (b *Booking) CanPay() bool {
	if b.PaymentStatus == PaymentStatusPaid {
		return false
	}
	return b.IntakeStatus == IntakeStatusArrived ||
		b.IntakeStatus == IntakeStatusStored ||
		b.ArrivalVerified
}

// MarkPaid flips the payment flag once the intake gate is satisfied.
func (b *Booking) MarkPaid() error {
	if b.PaymentStatus == PaymentStatusPaid {
		return ErrAlreadyPaid
	}
	if !b.CanPay() {
		return ErrAwaitingArrival
	}
	b.PaymentStatus = PaymentStatusPaid
	return nil
}

// CropEntry is one crop/quantity line on an incoming booking request.
type CropEntry struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

// BookingRequest is the submit-ready payload assembled from the farmer's
// selections. Validate rejects incomplete requests before anything is
// persisted.
type BookingRequest struct {
	PlotID            uint        `json:"plot_id"`
	PlotName          string      `json:"plot_name"`
	Crops             []CropEntry `json:"crops"`
	IsShared          bool        `json:"is_shared"`
	VehicleType       string      `json:"vehicle_type"`
	DropLocation      string      `json:"drop_location"`
	DropLat           float64     `json:"drop_lat"`
	DropLng           float64     `json:"drop_lng"`
	StorageFacilityID *uint       `json:"storage_facility_id"`
	PickupLat         float64     `json:"pickup_lat"`
	PickupLng         float64     `json:"pickup_lng"`
	ShippingDate      string      `json:"shipping_date"`
	ShippingTime      string      `json:"shipping_time"`
}

// Validate checks the request for completeness: plot selected, at least one
// crop entry with a positive quantity, drop location present, schedule date
// and time present and not in the past.
func (r *BookingRequest) Validate(now time.Time) error {
	if r.PlotID == 0 {
		return fmt.Errorf("plot must be selected")
	}
	if len(r.Crops) == 0 {
		return fmt.Errorf("at least one crop entry is required")
	}
	for _, crop := range r.Crops {
		if crop.Name == "" {
			return fmt.Errorf("crop name is required")
		}
		if crop.Quantity <= 0 {
			return fmt.Errorf("crop quantity must be greater than zero")
		}
	}
	if r.DropLocation == "" && r.StorageFacilityID == nil {
		return fmt.Errorf("drop location is required")
	}
	if r.ShippingDate == "" || r.ShippingTime == "" {
		return fmt.Errorf("shipping date and time are required")
	}
	schedule, err := time.ParseInLocation("2006-01-02 15:04", r.ShippingDate+" "+r.ShippingTime, now.Location())
	if err != nil {
		return fmt.Errorf("invalid shipping date or time")
	}
	if schedule.Before(now) {
		return fmt.Errorf("shipping schedule must not be in the past")
	}
	if r.PickupLat != 0 || r.PickupLng != 0 {
		if !utils.ValidCoordinates(r.PickupLat, r.PickupLng) {
			return fmt.Errorf("invalid pickup coordinates")
		}
	}
	if r.DropLat != 0 || r.DropLng != 0 {
		if !utils.ValidCoordinates(r.DropLat, r.DropLng) {
			return fmt.Errorf("invalid drop coordinates")
		}
	}
	if r.VehicleType != "" {
		switch r.VehicleType {
		case VehicleTypeAny, VehicleTypeTempo, VehicleTypeTruck, VehicleTypeTractor:
		default:
			return fmt.Errorf("unknown vehicle type preference")
		}
	}
	return nil
}

// HasPickupLocation reports whether the request carries a usable pickup point.
func (r *BookingRequest) HasPickupLocation() bool {
	return utils.ValidCoordinates(r.PickupLat, r.PickupLng)
}

// HasDropLocation reports whether the request carries usable drop coordinates.
func (r *BookingRequest) HasDropLocation() bool {
	return utils.ValidCoordinates(r.DropLat, r.DropLng)
}
