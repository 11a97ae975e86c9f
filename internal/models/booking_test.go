package models

import (
	"errors"
	"testing"
	"time"

	"github.com/agrohaul/agrohaul-backend/pkg/utils"
)

func validRequest() BookingRequest {
	return BookingRequest{
		PlotID:       7,
		PlotName:     "North field",
		Crops:        []CropEntry{{Name: "Soybean", Quantity: 5}},
		VehicleType:  VehicleTypeAny,
		DropLocation: "Shirur APMC yard",
		DropLat:      18.60,
		DropLng:      73.80,
		PickupLat:    18.56,
		PickupLng:    73.78,
		ShippingDate: "2026-01-11",
		ShippingTime: "09:00",
	}
}

func TestBookingRequestValidate(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	r := validRequest()
	if err := r.Validate(now); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"no plot", func(r *BookingRequest) { r.PlotID = 0 }},
		{"no crops", func(r *BookingRequest) { r.Crops = nil }},
		{"zero quantity", func(r *BookingRequest) { r.Crops[0].Quantity = 0 }},
		{"negative quantity", func(r *BookingRequest) { r.Crops[0].Quantity = -2 }},
		{"unnamed crop", func(r *BookingRequest) { r.Crops[0].Name = "" }},
		{"no drop", func(r *BookingRequest) { r.DropLocation = ""; r.StorageFacilityID = nil }},
		{"no date", func(r *BookingRequest) { r.ShippingDate = "" }},
		{"no time", func(r *BookingRequest) { r.ShippingTime = "" }},
		{"garbled date", func(r *BookingRequest) { r.ShippingDate = "11-01-2026" }},
		{"past schedule", func(r *BookingRequest) { r.ShippingDate = "2026-01-09" }},
		{"pickup off the map", func(r *BookingRequest) { r.PickupLat = 95 }},
		{"unknown vehicle type", func(r *BookingRequest) { r.VehicleType = "bullock-cart" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r := validRequest()
			c.mutate(&r)
			if err := r.Validate(now); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestBookingRequestFacilityStandsInForDrop(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	facilityID := uint(3)

	r := validRequest()
	r.DropLocation = ""
	r.DropLat, r.DropLng = 0, 0
	r.StorageFacilityID = &facilityID
	if err := r.Validate(now); err != nil {
		t.Errorf("facility selection should satisfy the drop requirement: %v", err)
	}
	if r.HasDropLocation() {
		t.Error("request without drop coordinates reports HasDropLocation")
	}
}

func TestAcceptClaimsOnce(t *testing.T) {
	booking := Booking{Status: BookingStatusNew, VehicleType: VehicleTypeAny}
	vehicle := Vehicle{VehicleType: VehicleTypeTractor}
	vehicle.ID = 3

	if err := booking.Accept(&vehicle); err != nil {
		t.Fatalf("accept on a new booking failed: %v", err)
	}
	if booking.Status != BookingStatusAccepted {
		t.Errorf("status = %q, want %q", booking.Status, BookingStatusAccepted)
	}
	if booking.VehicleID == nil || *booking.VehicleID != 3 {
		t.Errorf("vehicle id not bound, got %v", booking.VehicleID)
	}

	rival := Vehicle{VehicleType: VehicleTypeTruck}
	rival.ID = 9
	if err := booking.Accept(&rival); !errors.Is(err, ErrAlreadyClaimed) {
		t.Errorf("second accept = %v, want ErrAlreadyClaimed", err)
	}
	if *booking.VehicleID != 3 {
		t.Error("losing accept overwrote the winning vehicle")
	}
}

func TestAcceptEnforcesVehiclePreference(t *testing.T) {
	booking := Booking{Status: BookingStatusNew, VehicleType: VehicleTypeTruck}
	tempo := Vehicle{VehicleType: VehicleTypeTempo}
	tempo.ID = 4

	if err := booking.Accept(&tempo); !errors.Is(err, ErrVehicleTypeWrong) {
		t.Errorf("accept with mismatched vehicle = %v, want ErrVehicleTypeWrong", err)
	}
	if booking.Status != BookingStatusNew {
		t.Errorf("failed accept moved status to %q", booking.Status)
	}
}

func TestStartRequiresMatchingPlotScan(t *testing.T) {
	booking := Booking{Status: BookingStatusAccepted, PlotID: 42}

	scanned, err := utils.ParseScanPayload("43")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := booking.Start(scanned); !errors.Is(err, ErrPlotMismatch) {
		t.Errorf("start with wrong plot = %v, want ErrPlotMismatch", err)
	}
	if booking.Status != BookingStatusAccepted {
		t.Errorf("failed start moved status to %q", booking.Status)
	}

	scanned, err = utils.ParseScanPayload("42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := booking.Start(scanned); err != nil {
		t.Fatalf("start with matching plot failed: %v", err)
	}
	if booking.Status != BookingStatusInTransit {
		t.Errorf("status = %q, want %q", booking.Status, BookingStatusInTransit)
	}
}

func TestStartRejectedOutsideAcceptedState(t *testing.T) {
	for _, status := range []string{BookingStatusNew, BookingStatusInTransit, BookingStatusCompleted} {
		booking := Booking{Status: status, PlotID: 42}
		if err := booking.Start(42); !errors.Is(err, ErrNotAccepted) {
			t.Errorf("start from %q = %v, want ErrNotAccepted", status, err)
		}
	}
}

func TestCompleteEnforcesDropGeofence(t *testing.T) {
	booking := Booking{Status: BookingStatusInTransit, DropLat: 18.60, DropLng: 73.80}

	// roughly 1.1km north of the drop
	if err := booking.Complete(18.61, 73.80); !errors.Is(err, ErrOutsideGeofence) {
		t.Errorf("complete outside geofence = %v, want ErrOutsideGeofence", err)
	}
	if booking.Status != BookingStatusInTransit {
		t.Errorf("failed complete moved status to %q", booking.Status)
	}

	// a few tens of metres away
	if err := booking.Complete(18.6001, 73.8002); err != nil {
		t.Fatalf("complete inside geofence failed: %v", err)
	}
	if booking.Status != BookingStatusCompleted {
		t.Errorf("status = %q, want %q", booking.Status, BookingStatusCompleted)
	}
	if booking.DeliveredLat == nil || *booking.DeliveredLat != 18.6001 {
		t.Error("delivered fix not recorded")
	}
}

func TestCompleteRequiresLocationFix(t *testing.T) {
	booking := Booking{Status: BookingStatusInTransit, DropLat: 18.60, DropLng: 73.80}
	if err := booking.Complete(0, 0); !errors.Is(err, ErrNoLocationFix) {
		t.Errorf("complete without a fix = %v, want ErrNoLocationFix", err)
	}

	idle := Booking{Status: BookingStatusAccepted, DropLat: 18.60, DropLng: 73.80}
	if err := idle.Complete(18.60, 73.80); !errors.Is(err, ErrNotInTransit) {
		t.Errorf("complete before transit = %v, want ErrNotInTransit", err)
	}
}

func TestPaymentGatedOnIntake(t *testing.T) {
	booking := Booking{
		Status:        BookingStatusCompleted,
		PaymentStatus: PaymentStatusUnpaid,
		IntakeStatus:  IntakeStatusNone,
	}

	if booking.CanPay() {
		t.Error("payment allowed before intake confirmation")
	}
	if err := booking.MarkPaid(); !errors.Is(err, ErrAwaitingArrival) {
		t.Errorf("pay before intake = %v, want ErrAwaitingArrival", err)
	}
	if booking.PaymentStatus != PaymentStatusUnpaid {
		t.Errorf("failed pay flipped status to %q", booking.PaymentStatus)
	}

	booking.IntakeStatus = IntakeStatusArrived
	if err := booking.MarkPaid(); err != nil {
		t.Fatalf("pay after arrival failed: %v", err)
	}
	if booking.PaymentStatus != PaymentStatusPaid {
		t.Errorf("payment status = %q, want %q", booking.PaymentStatus, PaymentStatusPaid)
	}

	if err := booking.MarkPaid(); !errors.Is(err, ErrAlreadyPaid) {
		t.Errorf("double pay = %v, want ErrAlreadyPaid", err)
	}
}

func TestPaymentAllowedOnceStored(t *testing.T) {
	booking := Booking{PaymentStatus: PaymentStatusUnpaid, IntakeStatus: IntakeStatusStored}
	if !booking.CanPay() {
		t.Error("stored goods should unlock payment")
	}

	verified := Booking{PaymentStatus: PaymentStatusUnpaid, IntakeStatus: IntakeStatusNone, ArrivalVerified: true}
	if !verified.CanPay() {
		t.Error("verified arrival should unlock payment")
	}
}

// Full happy path: book, accept, scan, deliver inside the geofence, intake, pay.
func TestBookingLifecycle(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)

	req := validRequest()
	if err := req.Validate(now); err != nil {
		t.Fatalf("validate: %v", err)
	}

	booking := Booking{
		FarmerID:     1,
		PlotID:       req.PlotID,
		PlotName:     req.PlotName,
		VehicleType:  req.VehicleType,
		DropLocation: req.DropLocation,
		DropLat:      req.DropLat,
		DropLng:      req.DropLng,
		Status:       BookingStatusNew,
	}
	for _, crop := range req.Crops {
		booking.Goods = append(booking.Goods, BookingGood{Name: crop.Name, Quantity: crop.Quantity})
	}

	vehicle := Vehicle{VehicleType: VehicleTypeTractor}
	vehicle.ID = 3
	if err := booking.Accept(&vehicle); err != nil {
		t.Fatalf("accept: %v", err)
	}

	scanned, err := utils.ParseScanPayload(`{"plot_id":"7"}`)
	if err != nil {
		t.Fatalf("parse scan: %v", err)
	}
	if err := booking.Start(scanned); err != nil {
		t.Fatalf("start: %v", err)
	}

	if err := booking.Complete(18.6001, 73.8002); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := booking.MarkPaid(); !errors.Is(err, ErrAwaitingArrival) {
		t.Fatalf("pay before intake = %v, want ErrAwaitingArrival", err)
	}
	booking.IntakeStatus = IntakeStatusArrived
	if err := booking.MarkPaid(); err != nil {
		t.Fatalf("pay: %v", err)
	}

	if booking.Status != BookingStatusCompleted {
		t.Errorf("final status = %q, want %q", booking.Status, BookingStatusCompleted)
	}
	if booking.PaymentStatus != PaymentStatusPaid {
		t.Errorf("final payment status = %q, want %q", booking.PaymentStatus, PaymentStatusPaid)
	}
	if booking.VehicleID == nil || *booking.VehicleID != 3 {
		t.Errorf("final vehicle binding = %v, want 3", booking.VehicleID)
	}
}
