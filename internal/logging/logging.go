// Package logging configures the process-wide structured logger. Grounded
// on the teacher's src/logger.go: zerolog, JSON by default, a pretty
// console writer for local development, and helpers for logging recovered
// panics with their stack trace.
package logging

import (
	"os"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// Config selects the logger's level and output format.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // json, pretty
}

// New builds a logger configured per cfg. Unknown levels fall back to
// info; unknown formats fall back to JSON.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var writer zerolog.ConsoleWriter
	logger := zerolog.New(os.Stderr)
	if cfg.Format == "pretty" {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
		logger = zerolog.New(writer)
	}

	return logger.With().Timestamp().Str("service", "timelinebench").Logger()
}

// LogPanic logs a recovered panic with its stack trace and the context
// fields relevant to diagnosing it, for use in a defer/recover block.
// Nothing in this repository calls it: cmd/bench's reader goroutines do
// not recover panics, so a torn-chain-link panic (spec.md §7) ends the
// process with Go's default panic report.
func LogPanic(logger zerolog.Logger, panicValue interface{}, msg string, fields map[string]interface{}) {
	event := logger.Error().
		Interface("panic", panicValue).
		Str("stack", string(debug.Stack()))
	for k, v := range fields {
		event = event.Interface(k, v)
	}
	event.Msg(msg)
}
