package syncer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for sync cycle observability.
var (
	syncsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nrtv",
		Subsystem: "sync",
		Name:      "cycles_total",
		Help:      "Completed sync cycles by result.",
	}, []string{"result"})

	syncDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "nrtv",
		Subsystem: "sync",
		Name:      "cycle_duration_seconds",
		Help:      "Wall-clock duration of sync cycles.",
		Buckets:   prometheus.DefBuckets,
	})

	channelsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nrtv",
		Subsystem: "guide",
		Name:      "channels",
		Help:      "Channels in the published snapshot.",
	})

	programmesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nrtv",
		Subsystem: "guide",
		Name:      "programmes",
		Help:      "Programmes in the published snapshot.",
	})

	lastSuccessGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "nrtv",
		Subsystem: "sync",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix time of the last successful sync.",
	})
)
