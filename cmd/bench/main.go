// Command bench is the Harness (spec.md §2, C8): it loads the follow
// graph, drives the write phase (append synthetic posts) and the read
// phase (bounded k-way merge fetches) across multiple threads, and
// reports throughput and fanout expansion.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/trishume/twitterperf/internal/config"
	"github.com/trishume/twitterperf/internal/graph"
	"github.com/trishume/twitterperf/internal/load"
	"github.com/trishume/twitterperf/internal/logging"
	"github.com/trishume/twitterperf/internal/metrics"
	"github.com/trishume/twitterperf/internal/store"
	"github.com/trishume/twitterperf/internal/sysreport"
	"github.com/trishume/twitterperf/internal/timeline"
	"github.com/trishume/twitterperf/internal/workerpool"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bench:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	cfg.Log(logger)

	// automaxprocs (blank-imported above) has already tuned GOMAXPROCS to
	// the container's CPU quota by the time we read it here.
	maxProcs := runtime.GOMAXPROCS(0)
	readerThreads := cfg.ReaderThreads
	if readerThreads <= 0 {
		readerThreads = maxProcs
	}
	logger.Info().Int("gomaxprocs", maxProcs).Int("reader_threads", readerThreads).Msg("thread plan")

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server exited")
			}
		}()
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("metrics server started")
	}

	sampler, err := sysreport.NewSampler()
	if err != nil {
		logger.Warn().Err(err).Msg("resource sampler unavailable, continuing without it")
	}

	logger.Info().Str("dir", cfg.DataDir).Msg("loading follow graph")
	loader, err := graph.Load(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading graph: %w", err)
	}
	defer loader.Close()
	view := loader.View()
	logger.Info().Int("num_users", view.NumUsers()).Int("num_follows", len(view.Follows)).Msg("graph loaded")

	ps, err := store.New(view)
	if err != nil {
		return fmt.Errorf("creating post store: %w", err)
	}
	defer ps.Close()

	driver := load.New(load.Config{
		Seed:                     cfg.Seed,
		TweeterFollowerThreshold: cfg.TweeterThreshold,
		ViewerFollowThreshold:    cfg.ViewerThreshold,
	}, view)
	logger.Info().
		Int("tweeters", len(driver.Tweeters())).
		Int("viewers", len(driver.Viewers())).
		Msg("cohorts selected")

	writeDur := runWritePhase(driver, ps, cfg.PostCount, cfg.WriteRateLimit, logger)
	if sampler != nil {
		snap := sampler.Sample(200 * time.Millisecond)
		logger.Info().
			Float64("cpu_pct", snap.SystemCPUPct).
			Float64("rss_mb", snap.ProcessRSSMB).
			Msg("resource snapshot after write phase")
	}

	totalViewed, readDur := runReadPhase(driver, ps, readerThreads, cfg, logger)

	report(cfg, writeDur, readDur, totalViewed, len(driver.Viewers()), logger)

	return nil
}

// runWritePhase appends n synthetic posts. When rateLimit > 0 the phase is
// throttled to at most that many posts/second via golang.org/x/time/rate
// instead of running at full speed — useful for reproducing a steady-state
// ingest rate rather than a burst, at the cost of stretching the phase's
// wall-clock time. rateLimit == 0 (the default) runs unthrottled, which is
// how the literal scenario in spec.md §8.3 is measured.
func runWritePhase(driver *load.Driver, ps *store.PostStore, n int, rateLimit int, logger zerolog.Logger) time.Duration {
	logger.Info().Int("posts", n).Int("rate_limit", rateLimit).Msg("starting write phase")
	start := time.Now()

	var limiter *rate.Limiter
	if rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(rateLimit), rateLimit)
	}

	ctx := context.Background()
	for i := 0; i < n; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				logger.Error().Err(err).Msg("rate limiter wait failed")
				break
			}
		}
		author, post := driver.GenPost()
		ps.Append(post, author)
		metrics.PostsAppended.Inc()
	}

	dur := time.Since(start)
	metrics.WritePhaseDuration.Set(dur.Seconds())
	postsPerSec := float64(n) / dur.Seconds()
	logger.Info().
		Dur("duration", dur).
		Float64("posts_per_sec", postsPerSec).
		Msg("write phase complete")
	return dur
}

func runReadPhase(driver *load.Driver, ps *store.PostStore, threads int, cfg config.Config, logger zerolog.Logger) (totalViewed uint64, dur time.Duration) {
	logger.Info().Int("fetches", cfg.FetchCount).Int("threads", threads).Msg("starting read phase")

	var viewed uint64
	perThread := cfg.FetchCount / threads
	remainder := cfg.FetchCount % threads

	pool := workerpool.New(threads)
	pool.Start()

	start := time.Now()
	for t := 0; t < threads; t++ {
		n := perThread
		if t < remainder {
			n++
		}
		seed := driver.ForkSeed()
		pool.Submit(func() {
			readWorker(driver, ps, seed, n, cfg, &viewed)
		})
	}
	pool.Wait()
	dur = time.Since(start)

	metrics.ReadPhaseDuration.Set(dur.Seconds())
	totalViewed = atomic.LoadUint64(&viewed)
	return totalViewed, dur
}

func readWorker(driver *load.Driver, ps *store.PostStore, seed uint64, n int, cfg config.Config, viewed *uint64) {
	stream := driver.NewViewerStream(seed)
	fetcher := timeline.New()

	for i := 0; i < n; i++ {
		viewer := stream.Next()

		fetchStart := time.Now()
		result := fetcher.Fetch(ps, viewer, cfg.MaxTimelineLen, cfg.FloorTimestamp)
		metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
		metrics.TimelineLength.Observe(float64(len(result)))
		metrics.FetchesTotal.Inc()

		atomic.AddUint64(viewed, uint64(len(result)))
	}
}

func report(cfg config.Config, writeDur, readDur time.Duration, totalViewed uint64, numViewers int, logger zerolog.Logger) {
	meanLen := float64(totalViewed) / float64(cfg.FetchCount)
	expansion := meanLen * float64(numViewers) / float64(cfg.PostCount)
	metrics.FanoutExpansion.Set(expansion)

	writeRate := float64(cfg.PostCount) / writeDur.Seconds()
	readRate := float64(cfg.FetchCount) / readDur.Seconds()

	logger.Info().
		Float64("write_posts_per_sec", writeRate).
		Float64("read_fetches_per_sec", readRate).
		Float64("mean_timeline_length", meanLen).
		Float64("fanout_expansion", expansion).
		Msg("benchmark complete")

	fmt.Fprintf(os.Stderr, "posts/sec=%.1f fetches/sec=%.1f mean_timeline_len=%.3f fanout_expansion=%.3f\n",
		writeRate, readRate, meanLen, expansion)
}
