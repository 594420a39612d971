// SPDX-License-Identifier: MIT

// Package config loads maldikern settings from defaults, an optional YAML
// file and MALDIKERN_* environment variables, in that order of precedence
// (later wins), and turns them into kernel and assembler instances.
package config

import (
	"github.com/katalvlaran/maldikern/gram"
	"github.com/katalvlaran/maldikern/kernel"
	"github.com/katalvlaran/maldikern/logging"
	"github.com/rs/zerolog"
)

// Config is the complete runtime configuration.
type Config struct {
	Kernel    KernelConfig    `koanf:"kernel"`
	Assembler AssemblerConfig `koanf:"assembler"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// KernelConfig configures the diffusion kernel.
type KernelConfig struct {
	Sigma      float64 `koanf:"sigma" validate:"gt=0"`
	LowerBound float64 `koanf:"lower_bound" validate:"gt=0"`
	UpperBound float64 `koanf:"upper_bound" validate:"gtefield=LowerBound"`
	Fixed      bool    `koanf:"fixed"`

	// CacheSize > 0 memoises pointwise values per (x, y) pair.
	CacheSize int `koanf:"cache_size" validate:"gte=0"`
}

// AssemblerConfig configures the gram assembler. Workers=0 means
// GOMAXPROCS.
type AssemblerConfig struct {
	Workers       int  `koanf:"workers" validate:"gte=0"`
	ValidateInput bool `koanf:"validate_input"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

func defaultConfig() *Config {
	return &Config{
		Kernel: KernelConfig{
			Sigma:      kernel.DefaultSigma,
			LowerBound: kernel.DefaultLowerBound,
			UpperBound: kernel.DefaultUpperBound,
		},
		Assembler: AssemblerConfig{
			Workers:       0,
			ValidateInput: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: logging.FormatJSON,
		},
	}
}

// Default returns the built-in configuration.
func Default() *Config { return defaultConfig() }

// NewKernel builds the diffusion kernel described by c.Kernel.
func (c *Config) NewKernel() (*kernel.Diffusion, error) {
	opts := []kernel.Option{kernel.WithBounds(c.Kernel.LowerBound, c.Kernel.UpperBound)}
	if c.Kernel.Fixed {
		opts = append(opts, kernel.WithFixed())
	}

	return kernel.NewDiffusion(c.Kernel.Sigma, opts...)
}

// NewPointwise returns the diffusion kernel plus the kernel the assembler
// should evaluate: the diffusion kernel itself, or a kernel.Cached around
// it when CacheSize > 0.
func (c *Config) NewPointwise() (*kernel.Diffusion, kernel.Pointwise, error) {
	d, err := c.NewKernel()
	if err != nil {
		return nil, nil, err
	}
	if c.Kernel.CacheSize == 0 {
		return d, d, nil
	}
	cached, err := kernel.NewCached(d, c.Kernel.CacheSize)
	if err != nil {
		return nil, nil, err
	}

	return d, cached, nil
}

// AssemblerOptions returns the gram options described by c.Assembler,
// wired to logger and metrics (nil metrics disables them).
func (c *Config) AssemblerOptions(logger zerolog.Logger, metrics *gram.Metrics) []gram.Option {
	return []gram.Option{
		gram.WithWorkers(c.Assembler.Workers),
		gram.WithInputValidation(c.Assembler.ValidateInput),
		gram.WithLogger(logger),
		gram.WithMetrics(metrics),
	}
}

// LoggerConfig converts c.Logging for logging.Init.
func (c *Config) LoggerConfig() logging.Config {
	return logging.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Caller: c.Logging.Caller,
	}
}
