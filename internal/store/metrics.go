package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tripsGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "indotrip",
			Subsystem: "store",
			Name:      "trips",
			Help:      "Trips held in memory.",
		},
	)

	dirtyGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "indotrip",
			Subsystem: "store",
			Name:      "dirty_trips",
			Help:      "Trips changed since the last successful flush.",
		},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indotrip",
			Subsystem: "store",
			Name:      "mutations_total",
			Help:      "Trip mutations by outcome.",
		},
		[]string{"result"},
	)

	flushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "indotrip",
			Subsystem: "store",
			Name:      "flushes_total",
			Help:      "Persistence flushes by outcome.",
		},
		[]string{"result"},
	)

	flushDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "indotrip",
			Subsystem: "store",
			Name:      "flush_duration_seconds",
			Help:      "Time spent writing dirty trips.",
			Buckets:   prometheus.DefBuckets,
		},
	)
)
