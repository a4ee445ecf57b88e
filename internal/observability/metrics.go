package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksExtracted counts recognized artwork links by platform.
	LinksExtracted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayami_links_extracted_total",
		Help: "Total number of artwork links recognized in inbound text",
	}, []string{"platform"})

	// PostsRecorded counts persisted channel postings by platform and origin.
	PostsRecorded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayami_posts_recorded_total",
		Help: "Total number of channel postings recorded",
	}, []string{"platform", "origin"})

	// DuplicatePosts counts inserts absorbed as duplicate-key no-ops.
	DuplicatePosts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hayami_duplicate_posts_total",
		Help: "Total number of post inserts absorbed as duplicate no-ops",
	})

	// DuplicateWarnings counts duplicate-content warnings shown to users.
	DuplicateWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hayami_duplicate_warnings_total",
		Help: "Total number of already-posted warnings issued",
	})

	// MetadataFetchFailures counts failed platform metadata fetches.
	MetadataFetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayami_metadata_fetch_failures_total",
		Help: "Total number of failed artwork metadata fetches",
	}, []string{"platform"})

	// ReconcileRuns counts originality reconciliation passes by outcome.
	ReconcileRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayami_reconcile_runs_total",
		Help: "Total number of originality reconciliation passes",
	}, []string{"outcome"})

	// ReconcileDemotions counts posts demoted from original during reconciliation.
	ReconcileDemotions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hayami_reconcile_demotions_total",
		Help: "Total number of posts demoted to non-original by reconciliation",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hayami_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hayami_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
