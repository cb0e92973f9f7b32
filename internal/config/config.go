// Package config loads benchmark configuration from environment variables
// (with an optional .env file for local development), the same pattern as
// the teacher's ws/config.go: caarlos0/env for typed parsing, godotenv for
// the optional file, a Validate step before anything else runs.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds everything cmd/bench needs to run a pass of the benchmark.
//
// Tags:
//
//	env: Environment variable name
//	envDefault: Default value if not set
type Config struct {
	// DataDir holds users.bin and follows.bin (spec.md §6).
	DataDir string `env:"TLB_DATA_DIR" envDefault:"data"`

	// Seed drives deterministic cohort selection and post/view generation.
	Seed uint64 `env:"TLB_SEED" envDefault:"123"`

	// TweeterThreshold / ViewerThreshold select the tweeter/viewer cohorts
	// (spec.md §4.5): users with more followers/follows than these
	// thresholds, respectively.
	TweeterThreshold uint32 `env:"TLB_TWEETER_THRESHOLD" envDefault:"20"`
	ViewerThreshold  uint32 `env:"TLB_VIEWER_THRESHOLD" envDefault:"20"`

	// PostCount is how many synthetic posts the write phase appends.
	PostCount int `env:"TLB_POST_COUNT" envDefault:"4000000"`

	// FetchCount is how many timeline fetches the read phase issues.
	FetchCount int `env:"TLB_FETCH_COUNT" envDefault:"100000"`

	// ReaderThreads is how many goroutines drive the read phase
	// concurrently. 0 means "use runtime.GOMAXPROCS(0)".
	ReaderThreads int `env:"TLB_READER_THREADS" envDefault:"8"`

	// MaxTimelineLen bounds how many posts a single fetch returns.
	MaxTimelineLen int `env:"TLB_MAX_TIMELINE_LEN" envDefault:"200"`

	// FloorTimestamp excludes posts older than this from a fetch.
	FloorTimestamp uint32 `env:"TLB_FLOOR_TIMESTAMP" envDefault:"1"`

	// WriteRateLimit, if > 0, throttles the write phase to at most this
	// many posts/second instead of running at full speed (see
	// cmd/bench's runWritePhase). 0 disables
	// throttling, which is how the literal scenario in spec.md §8.3 runs.
	WriteRateLimit int `env:"TLB_WRITE_RATE_LIMIT" envDefault:"0"`

	// MetricsAddr, if non-empty, serves Prometheus metrics on this
	// address for the duration of the run (e.g. ":9400").
	MetricsAddr string `env:"TLB_METRICS_ADDR" envDefault:""`

	// LogLevel / LogFormat configure internal/logging.
	LogLevel  string `env:"TLB_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TLB_LOG_FORMAT" envDefault:"pretty"`
}

// Load reads configuration from an optional .env file and then the
// process environment, validating the result. Priority: env vars > .env
// file > struct defaults.
func Load() (Config, error) {
	// Best-effort: a missing .env file is not an error, it just means
	// we run on defaults/real environment variables only.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}

	return cfg, nil
}

// Validate range-checks fields that would otherwise fail confusingly deep
// inside the benchmark (e.g. a zero MaxTimelineLen silently returning
// empty timelines forever).
func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("TLB_DATA_DIR must not be empty")
	}
	if c.PostCount <= 0 {
		return fmt.Errorf("TLB_POST_COUNT must be > 0, got %d", c.PostCount)
	}
	if c.FetchCount <= 0 {
		return fmt.Errorf("TLB_FETCH_COUNT must be > 0, got %d", c.FetchCount)
	}
	if c.ReaderThreads < 0 {
		return fmt.Errorf("TLB_READER_THREADS must be >= 0, got %d", c.ReaderThreads)
	}
	if c.MaxTimelineLen <= 0 {
		return fmt.Errorf("TLB_MAX_TIMELINE_LEN must be > 0, got %d", c.MaxTimelineLen)
	}
	if c.WriteRateLimit < 0 {
		return fmt.Errorf("TLB_WRITE_RATE_LIMIT must be >= 0, got %d", c.WriteRateLimit)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("TLB_LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	validFormats := map[string]bool{"json": true, "pretty": true}
	if !validFormats[c.LogFormat] {
		return fmt.Errorf("TLB_LOG_FORMAT must be one of json, pretty (got %q)", c.LogFormat)
	}
	return nil
}

// Log emits the resolved configuration as a structured log line, the same
// pattern as the teacher's Config.LogConfig.
func (c Config) Log(logger zerolog.Logger) {
	logger.Info().
		Str("data_dir", c.DataDir).
		Uint64("seed", c.Seed).
		Uint32("tweeter_threshold", c.TweeterThreshold).
		Uint32("viewer_threshold", c.ViewerThreshold).
		Int("post_count", c.PostCount).
		Int("fetch_count", c.FetchCount).
		Int("reader_threads", c.ReaderThreads).
		Int("max_timeline_len", c.MaxTimelineLen).
		Uint32("floor_timestamp", c.FloorTimestamp).
		Int("write_rate_limit", c.WriteRateLimit).
		Str("metrics_addr", c.MetricsAddr).
		Msg("configuration loaded")
}
