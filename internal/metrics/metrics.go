// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fajr_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fajr_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Submissions counts record attempts by outcome:
	// created, duplicate, invalid or error.
	Submissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fajr_prayer_submissions_total",
			Help: "Daily prayer record submissions by outcome",
		},
		[]string{"outcome"},
	)

	PointsAwarded = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fajr_prayer_points_awarded",
			Help:    "Points awarded per stored daily record",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)
)

// Init registers every collector with the default registry. Call once.
func Init() {
	prometheus.MustRegister(RequestCount, RequestDuration, Submissions, PointsAwarded)
}
