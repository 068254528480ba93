// Package services – Prometheus domain metrics.
//
// HTTP-level metrics live in the middleware package; the collectors here
// track the batch pipeline itself: submissions, terminal outcomes, run
// duration, dedup hits, and degraded inserts. All collectors are safe for
// concurrent use.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// batchesSubmitted counts accepted batch submissions.
	batchesSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joke_batches_submitted_total",
		Help: "Total number of accepted batch submissions.",
	})

	// batchesCompleted counts batches reaching the completed terminal state.
	batchesCompleted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joke_batches_completed_total",
		Help: "Total number of batches that completed.",
	})

	// batchesFailed counts batches reaching the failed terminal state.
	batchesFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joke_batches_failed_total",
		Help: "Total number of batches that failed.",
	})

	// batchDuration records wall time from start to terminal state.
	// Buckets are tuned for in-process generation of 1..1000 items.
	batchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "joke_batch_duration_seconds",
		Help:    "Duration of batch runs in seconds.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	})

	// dedupHits counts inserts that resolved to a pre-existing record.
	dedupHits = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joke_dedup_hits_total",
		Help: "Total number of inserts deduplicated to an existing record.",
	})

	// degradedInserts counts items that received a synthetic identifier
	// because the content store was unavailable.
	degradedInserts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "joke_degraded_inserts_total",
		Help: "Total number of items persisted with an ephemeral fallback identifier.",
	})
)

func init() {
	prometheus.MustRegister(
		batchesSubmitted,
		batchesCompleted,
		batchesFailed,
		batchDuration,
		dedupHits,
		degradedInserts,
	)
}
