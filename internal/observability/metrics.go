package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "bookings_created_total", Help: "Total transport bookings created"})
	BookingsAccepted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "bookings_accepted_total", Help: "Total bookings accepted by transporters"})
	AcceptConflicts  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "accept_conflicts_total", Help: "Accept attempts that lost the race"})
	TripsStarted     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "trips_started_total", Help: "Trips started after a plot scan match"})
	TripsCompleted   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "trips_completed_total", Help: "Trips completed inside the drop geofence"})
	ScanMismatches   = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "scan_mismatches_total", Help: "Trip starts rejected by the plot identity check"})
	GeofenceRejects  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "geofence_rejects_total", Help: "Trip completions rejected outside the drop geofence"})
	BookingsPaid     = promauto.NewCounter(prometheus.CounterOpts{Namespace: "agrohaul", Name: "bookings_paid_total", Help: "Bookings paid after intake confirmation"})

	BookingDistanceKm = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "agrohaul",
		Name:      "booking_distance_km",
		Help:      "Estimated pickup-to-drop distance per booking",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500},
	})
)
