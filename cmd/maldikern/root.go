// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/maldikern/config"
	"github.com/katalvlaran/maldikern/gram"
	"github.com/katalvlaran/maldikern/kernel"
	"github.com/katalvlaran/maldikern/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// app carries flag values and the objects built from them for one run.
type app struct {
	configPath string
	sigma      float64
	workers    int
	cacheSize  int
	logLevel   string
	logFormat  string

	cfg       *config.Config
	log       zerolog.Logger
	registry  *prometheus.Registry
	kernel    *kernel.Diffusion
	assembler *gram.Assembler
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "maldikern",
		Short: "Diffusion kernel matrices for MALDI-TOF spectra",
		Long: `maldikern evaluates the peak diffusion kernel between spectra and
assembles self, cross and diagonal kernel matrices.

Settings come from defaults, an optional YAML file (--config or
$MALDIKERN_CONFIG), MALDIKERN_* environment variables and finally flags.`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.reportMetrics,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file")
	flags.Float64Var(&a.sigma, "sigma", kernel.DefaultSigma, "kernel smoothing parameter σ (> 0)")
	flags.IntVar(&a.workers, "workers", 0, "concurrent rows, 0 = GOMAXPROCS")
	flags.IntVar(&a.cacheSize, "cache-size", 0, "memoised kernel pairs, 0 = no cache")
	flags.StringVar(&a.logLevel, "log-level", "info", "trace|debug|info|warn|error|disabled")
	flags.StringVar(&a.logFormat, "log-format", logging.FormatJSON, "json|console")

	root.AddCommand(
		newMatrixCmd(a),
		newCrossCmd(a),
		newDiagCmd(a),
		newDescribeCmd(a),
	)

	return root
}

// setup loads configuration, applies explicitly set flags on top and builds
// the logger, kernel and assembler.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("sigma") {
		cfg.Kernel.Sigma = a.sigma
	}
	if flags.Changed("workers") {
		cfg.Assembler.Workers = a.workers
	}
	if flags.Changed("cache-size") {
		cfg.Kernel.CacheSize = a.cacheSize
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	lc := cfg.LoggerConfig()
	lc.Output = cmd.ErrOrStderr()
	logging.Init(lc)
	a.log = logging.Logger()

	var pointwise kernel.Pointwise
	if a.kernel, pointwise, err = cfg.NewPointwise(); err != nil {
		return err
	}
	a.registry = prometheus.NewRegistry()
	metrics := gram.NewMetrics(a.registry)
	if a.assembler, err = gram.NewAssembler(pointwise, cfg.AssemblerOptions(a.log, metrics)...); err != nil {
		return err
	}

	a.log.Debug().
		Stringer("kernel", a.kernel).
		Int("cache_size", cfg.Kernel.CacheSize).
		Int("workers", a.assembler.Workers()).
		Bool("validate_input", cfg.Assembler.ValidateInput).
		Msg("configured")

	return nil
}

// reportMetrics logs the gram counters of this run at debug level.
func (a *app) reportMetrics(_ *cobra.Command, _ []string) error {
	if a.registry == nil {
		return nil
	}
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	if c, ok := a.assembler.Kernel().(*kernel.Cached); ok {
		hits, misses := c.Stats()
		a.log.Debug().Uint64("hits", hits).Uint64("misses", misses).Int("entries", c.Len()).Msg("kernel cache")
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			ev := a.log.Debug().Str("metric", mf.GetName())
			for _, lp := range m.GetLabel() {
				ev = ev.Str(lp.GetName(), lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				ev = ev.Float64("value", m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				ev = ev.Uint64("count", m.GetHistogram().GetSampleCount()).
					Float64("sum", m.GetHistogram().GetSampleSum())
			}
			ev.Msg("metric")
		}
	}

	return nil
}
