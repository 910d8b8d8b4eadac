// Package metrics registers the Prometheus collectors exposed on /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_http_requests_total",
		Help: "Total HTTP requests handled",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by method and path.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classtrack_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// CheckinAttempts counts QR check-ins by outcome: created,
	// already-registered, bad-token, out-of-range, outside-window, error.
	CheckinAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classtrack_checkin_attempts_total",
		Help: "QR attendance check-in attempts by outcome",
	}, []string{"outcome"})
)
