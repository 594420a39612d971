// SPDX-License-Identifier: MIT

// Package logging builds the zerolog loggers used across maldikern.
//
// The package keeps one process-wide logger for the CLI. Library packages
// (gram) never reach for it: they take a zerolog.Logger through their
// options and default to zerolog.Nop().
//
//	logging.Init(logging.Config{Level: "debug", Format: "console"})
//	log := logging.Logger()
//	log.Info().Int("spectra", n).Msg("collection loaded")
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config holds logging configuration.
type Config struct {
	// Level is the minimum level: trace, debug, info, warn, error, fatal,
	// panic or disabled. Unknown values fall back to info.
	Level string

	// Format is json (default) or console.
	Format string

	// Caller adds file:line to every record.
	Caller bool

	// Output defaults to os.Stderr, keeping stdout free for results.
	Output io.Writer
}

// DefaultConfig returns info-level JSON logging to stderr.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: FormatJSON,
		Output: os.Stderr,
	}
}

var (
	log = New(DefaultConfig())
	mu  sync.RWMutex
)

// New builds a logger from cfg without touching the global one.
// The level is applied to the returned logger only, not via
// zerolog.SetGlobalLevel.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	output := cfg.Output
	if strings.EqualFold(cfg.Format, FormatConsole) {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.TimeOnly,
		}
	}

	ctx := zerolog.New(output).Level(parseLevel(cfg.Level)).With().Timestamp()
	if cfg.Caller {
		ctx = ctx.Caller()
	}

	return ctx.Logger()
}

// Init replaces the global logger. Safe to call more than once.
func Init(cfg Config) {
	l := New(cfg)
	SetLogger(l)
}

// Logger returns the global logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	return log
}

// SetLogger replaces the global logger, e.g. with zerolog.Nop() in tests.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	log = l
	mu.Unlock()
}

// parseLevel converts a level name to zerolog.Level; unknown names map to
// info.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info", "":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
