// Package metrics exposes the Prometheus instruments for the attendance core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransitionsTotal counts applied state transitions by target status.
	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_transitions_total",
		Help: "Number of successful attendance state transitions.",
	}, []string{"target"})

	// TransitionFailures counts rejected transitions by reason.
	TransitionFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_transition_failures_total",
		Help: "Number of rejected attendance state transitions.",
	}, []string{"reason"})

	// DaysSealed counts successfully sealed days.
	DaysSealed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_days_sealed_total",
		Help: "Number of days sealed.",
	})

	// QueueDepth tracks the current number of entries per call-queue bucket.
	QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "attendance_queue_depth",
		Help: "Current number of attendances waiting in a queue bucket.",
	}, []string{"treatment", "status"})
)
