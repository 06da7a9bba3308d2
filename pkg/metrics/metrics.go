// Package metrics exposes Prometheus instrumentation for the matching
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BatchesTotal counts match batches by tenant and outcome ("ok" or
	// "error").
	BatchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fern",
		Name:      "match_batches_total",
		Help:      "Number of match batches processed",
	}, []string{"tenant_id", "outcome"})

	// MatchResultsTotal counts individual match results by status.
	MatchResultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fern",
		Name:      "match_results_total",
		Help:      "Number of match results by status",
	}, []string{"tenant_id", "status"})

	// BatchDuration observes end-to-end batch matching latency.
	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fern",
		Name:      "match_batch_duration_seconds",
		Help:      "End-to-end batch matching duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"tenant_id"})

	// CandidateFetchDuration observes candidate source read latency.
	CandidateFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "fern",
		Name:      "candidate_fetch_duration_seconds",
		Help:      "Candidate source fetch duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})

	// ReviewActionsTotal counts manual review decisions.
	ReviewActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fern",
		Name:      "review_actions_total",
		Help:      "Number of manual review actions by type",
	}, []string{"tenant_id", "action"})

	// VoterFileCacheHits counts in-memory voter file index cache hits
	// and misses.
	VoterFileCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fern",
		Name:      "voterfile_index_cache_total",
		Help:      "Voter file index cache lookups by result",
	}, []string{"result"})
)
