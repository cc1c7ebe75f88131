// Package metrics holds the Prometheus collectors exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "music_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "music_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// Linking
	LinkOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_link_operations_total",
			Help: "Total number of entity link operations",
		},
		[]string{"operation", "result"},
	)

	// Auth
	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_auth_events_total",
			Help: "Authentication events by type and result",
		},
		[]string{"event", "result"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "music_rate_limited_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLink counts a linking operation by outcome.
func RecordLink(operation string, err error) {
	LinkOperations.WithLabelValues(operation, result(err)).Inc()
}

// RecordAuth counts a login, register, refresh or logout attempt.
func RecordAuth(event string, err error) {
	AuthEvents.WithLabelValues(event, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
