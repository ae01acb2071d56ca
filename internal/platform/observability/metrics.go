package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_posts_fetched_total",
		Help: "The total number of posts fetched from monitored subreddits",
	}, []string{"subreddit"})

	FetchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_fetch_errors_total",
		Help: "Total number of content source fetch errors by kind",
	}, []string{"kind"})

	AssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_assessments_total",
		Help: "Total number of thread assessments by analyzer path",
	}, []string{"path"})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leadmon_llm_request_duration_seconds",
		Help:    "Duration of LLM requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	ThreadsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_threads_stored_total",
		Help: "Total number of thread records persisted by priority tier",
	}, []string{"tier"})

	ThreadsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadmon_threads_discarded_total",
		Help: "Total number of threads scored below the low tier boundary",
	})

	ThreadsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadmon_threads_deduplicated_total",
		Help: "Total number of thread observations dropped by the dedup gate",
	})

	ThreadsSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_threads_skipped_total",
		Help: "Total number of threads skipped during a cycle by reason",
	}, []string{"reason"})

	ResponsesDrafted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_responses_drafted_total",
		Help: "Total number of outreach drafts by generation path",
	}, []string{"path"})

	DigestsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadmon_digests_sent_total",
		Help: "Total number of digest emissions by status",
	}, []string{"status"})

	DigestBatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadmon_digest_batch_size",
		Help:    "Number of drafted responses per emitted digest batch",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	DigestWindowSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leadmon_digest_window_size",
		Help: "Current number of records accumulated in the digest window",
	})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "leadmon_cycle_duration_seconds",
		Help:    "Duration of a full monitoring cycle across all sources",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	LastCycleTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leadmon_last_cycle_timestamp_seconds",
		Help: "Unix timestamp of the last completed monitoring cycle",
	})
)
