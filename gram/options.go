// SPDX-License-Identifier: MIT

package gram

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures an Assembler.
type Option func(*options)

type options struct {
	workers  int
	logger   zerolog.Logger
	metrics  *Metrics
	validate bool
}

// WithWorkers bounds the number of rows evaluated concurrently.
// 0 selects runtime.GOMAXPROCS(0); negative values make NewAssembler fail
// with ErrInvalidWorkers.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMetrics attaches Prometheus metrics. A nil *Metrics disables them.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithInputValidation toggles the finite/non-negative check on every input
// spectrum (enabled by default). Disable it only for collections that were
// already validated at the boundary, e.g. by spectrum.DecodeCollection.
func WithInputValidation(enabled bool) Option {
	return func(o *options) { o.validate = enabled }
}

func gatherOptions(opts ...Option) (options, error) {
	o := options{logger: zerolog.Nop(), validate: true}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.workers < 0 {
		return options{}, fmt.Errorf("%w: got %d", ErrInvalidWorkers, o.workers)
	}
	if o.workers == 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	return o, nil
}
