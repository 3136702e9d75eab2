package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookingcore",
			Name:      "booking_transitions_total",
			Help:      "Booking lifecycle operations by action and outcome code.",
		},
		[]string{"action", "outcome"},
	)

	transitionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bookingcore",
			Name:      "booking_transition_duration_seconds",
			Help:      "Duration of booking lifecycle operations.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"action"},
	)

	sideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookingcore",
			Name:      "side_effect_failures_total",
			Help:      "Best-effort side effects that failed after commit.",
		},
		[]string{"kind"},
	)

	notificationsDelivered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bookingcore",
			Name:      "notifications_delivered_total",
			Help:      "Notifications handed to a delivery channel.",
		},
		[]string{"channel", "template"},
	)

	expirySweeps = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bookingcore",
			Name:      "expiry_sweeps_total",
			Help:      "Completed stale-booking expiry sweeps.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(transitions, transitionDuration, sideEffectFailures, notificationsDelivered, expirySweeps)
	})
}

func RecordTransition(action, outcome string, took time.Duration) {
	transitions.WithLabelValues(action, outcome).Inc()
	transitionDuration.WithLabelValues(action).Observe(took.Seconds())
}

func RecordSideEffectFailure(kind string) {
	sideEffectFailures.WithLabelValues(kind).Inc()
}

func RecordNotificationDelivered(channel, template string) {
	notificationsDelivered.WithLabelValues(channel, template).Inc()
}

func IncExpirySweep() {
	expirySweeps.Inc()
}
