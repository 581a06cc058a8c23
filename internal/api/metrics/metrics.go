// Package metrics defines the custom Prometheus metrics of the station API.
// Request-level metrics come from echoprometheus; these count business outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "station"

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// BookingsCreatedTotal counts bookings created by customers.
var BookingsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of bookings created.",
	},
)

// BookingAmount observes the total amount of new bookings.
var BookingAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "booking_amount",
		Help:      "Total amount of created bookings.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	},
)

// BookingTransitionsTotal counts status changes applied by administrators.
// Label:
//   - status: the status the booking moved to, or "rejected"
var BookingTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_transitions_total",
		Help:      "Total number of booking status updates, by resulting status.",
	},
	[]string{"status"},
)

// PaymentsTotal counts payment verifications.
// Label:
//   - result: "verified", "invalid_signature", "replay", "already_paid" or "error"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment verifications, by result.",
	},
	[]string{"result"},
)
