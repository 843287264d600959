package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreSummariesComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cert_store_summaries_total",
			Help: "Total number of store summaries computed, by store level",
		},
		[]string{"level"},
	)

	SnapshotFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cert_snapshot_fetch_failures_total",
			Help: "Total number of failed snapshot repository calls",
		},
		[]string{"operation"},
	)

	SnapshotFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cert_snapshot_fetch_duration_seconds",
			Help:    "Duration of snapshot repository calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
