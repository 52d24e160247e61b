package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmatch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridmatch_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Filtering metrics
	filterRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gridmatch_filter_requests_total",
			Help: "Total number of filter requests",
		},
		[]string{"method", "status"}, // method: gms, ratio
	)

	filterDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridmatch_filter_duration_seconds",
			Help:    "Match filtering duration in seconds",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method"},
	)

	filterMatchesTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridmatch_filter_matches",
			Help:    "Number of candidate matches per request",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"method"},
	)

	filterInliersTotal = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gridmatch_filter_inliers",
			Help:    "Number of surviving matches per request",
			Buckets: []float64{0, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		},
		[]string{"method"},
	)
)
