// Package metrics holds the process prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts gateway requests by route pattern and status code
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tinysteps_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})

	// HTTPDuration tracks gateway latency by route pattern
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tinysteps_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
	}, []string{"route"})

	SessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinysteps_sessions_started_total",
		Help: "Total learning sessions started",
	})

	SessionsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinysteps_sessions_completed_total",
		Help: "Total learning sessions completed for the first time",
	})

	// CompletionReplays counts completion requests answered from the stored result
	CompletionReplays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinysteps_session_completion_replays_total",
		Help: "Total idempotent replays of session completion",
	})

	DeletionRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tinysteps_deletion_requests_total",
		Help: "Total data deletion requests queued",
	})

	AnalyticsEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tinysteps_analytics_events_total",
		Help: "Total analytics events logged by name",
	}, []string{"name"})

	// HandoffErrors counts failed writes to the SQL handoff database
	HandoffErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tinysteps_handoff_errors_total",
		Help: "Total failed handoff writes by table",
	}, []string{"table"})
)
