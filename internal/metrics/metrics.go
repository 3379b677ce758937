// Package metrics registers the service's Prometheus collectors on the
// default registry; the server exposes them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SnapshotRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worldstats_snapshot_recomputes_total",
			Help: "Total number of dashboard snapshot recomputations",
		},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "worldstats_snapshot_recompute_seconds",
			Help:    "Duration of a full filter and aggregate pass",
			Buckets: prometheus.DefBuckets,
		},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "worldstats_active_sessions",
			Help: "Number of live dashboard sessions",
		},
	)

	ParamRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "worldstats_param_rejections_total",
			Help: "Filter parameter sets rejected by validation",
		},
	)
)
