package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for the booking core.
type Metrics struct {
	BookingsCreated   prometheus.Counter
	BookingsExpired   prometheus.Counter
	BookingsCompleted prometheus.Counter
	SweepDuration     prometheus.Histogram
	SweepErrors       *prometheus.CounterVec
	NotificationsSent *prometheus.CounterVec
}

func New(namespace string) *Metrics {
	return &Metrics{
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "The total number of bookings created",
		}),
		BookingsExpired: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_expired_total",
			Help:      "The total number of pending bookings expired by the sweep",
		}),
		BookingsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_completed_total",
			Help:      "The total number of confirmed bookings completed by the sweep",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sweep_duration_seconds",
			Help:      "Time taken by one reconciliation sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		SweepErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_errors_total",
			Help:      "The total number of per-item sweep failures",
		}, []string{"sweep"}),
		NotificationsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_sent_total",
			Help:      "The total number of notifications handed to the transport",
		}, []string{"type"}),
	}
}
