package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	subscribersGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "indotrip",
			Subsystem: "live",
			Name:      "subscribers",
			Help:      "Open live-update subscriptions across all trips.",
		},
	)

	eventsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "indotrip",
			Subsystem: "live",
			Name:      "events_published_total",
			Help:      "Events handed to subscriber buffers.",
		},
	)

	eventsDroppedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "indotrip",
			Subsystem: "live",
			Name:      "events_dropped_total",
			Help:      "Stale events discarded because a subscriber fell behind.",
		},
	)
)
