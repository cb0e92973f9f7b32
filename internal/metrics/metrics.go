// Package metrics exposes Prometheus instrumentation for the benchmark
// harness, grounded on the teacher's ws/metrics.go / src/metrics.go: plain
// package-level collectors registered once in init, an http.Handler for
// promhttp, no abstraction beyond what prometheus/client_golang already
// gives you.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PostsAppended counts posts successfully pushed into the pool.
	PostsAppended = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timelinebench_posts_appended_total",
		Help: "Total number of posts appended to the post store.",
	})

	// FetchesTotal counts TimelineFetcher.Fetch calls.
	FetchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "timelinebench_fetches_total",
		Help: "Total number of timeline fetches performed.",
	})

	// FetchDuration tracks per-fetch latency.
	FetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timelinebench_fetch_duration_seconds",
		Help:    "Latency of a single TimelineFetcher.Fetch call.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12), // 1us .. ~4s
	})

	// TimelineLength tracks how many posts each fetch actually returned,
	// the input to the fanout-expansion workload characterization number
	// in spec.md §8.3.
	TimelineLength = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "timelinebench_timeline_length",
		Help:    "Number of posts returned per timeline fetch.",
		Buckets: []float64{0, 1, 5, 10, 20, 41, 50, 100, 150, 200, 256},
	})

	// WritePhaseDuration / ReadPhaseDuration record each harness phase's
	// wall-clock time, for the throughput report in spec.md §2 (C8).
	WritePhaseDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timelinebench_write_phase_seconds",
		Help: "Wall-clock duration of the most recent write phase.",
	})

	ReadPhaseDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timelinebench_read_phase_seconds",
		Help: "Wall-clock duration of the most recent read phase.",
	})

	// FanoutExpansion is mean_timeline_length * |viewers| / posts_appended
	// (the glossary's "fanout expansion"), recorded once per run.
	FanoutExpansion = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "timelinebench_fanout_expansion",
		Help: "mean_timeline_length * active_viewers / posts_appended.",
	})
)

func init() {
	prometheus.MustRegister(
		PostsAppended,
		FetchesTotal,
		FetchDuration,
		TimelineLength,
		WritePhaseDuration,
		ReadPhaseDuration,
		FanoutExpansion,
	)
}

// Handler returns the promhttp handler cmd/bench optionally serves on
// Config.MetricsAddr for the duration of a run.
func Handler() http.Handler {
	return promhttp.Handler()
}
