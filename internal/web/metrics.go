package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indotrip",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route template and status code.",
		},
		[]string{"route", "code"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "indotrip",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency. Event streams are excluded.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
