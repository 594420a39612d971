// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"
)

// Defaults - single source of truth for a zero-configured Diffusion kernel.
const (
	// DefaultSigma is the smoothing parameter used when none is configured.
	DefaultSigma = 1.0

	// DefaultLowerBound is the lower optimisation bound reported for σ.
	DefaultLowerBound = 1e-5

	// DefaultUpperBound is the upper optimisation bound reported for σ.
	DefaultUpperBound = 1e5
)

// Option configures a Diffusion kernel at construction time.
type Option func(*options)

// options is the resolved configuration of a Diffusion kernel.
type options struct {
	lower float64
	upper float64
	fixed bool
}

// WithBounds sets the optimisation bounds reported by Hyperparameter.
// Bounds are declarative: σ itself is not clamped to them.
// Invalid bounds surface as ErrInvalidBounds from NewDiffusion.
func WithBounds(lower, upper float64) Option {
	return func(o *options) {
		o.lower = lower
		o.upper = upper
	}
}

// WithFixed marks σ as fixed: it is reported with Fixed=true and is
// excluded from Theta.
func WithFixed() Option {
	return func(o *options) { o.fixed = true }
}

// gatherOptions applies opts over the defaults and validates the result.
func gatherOptions(opts ...Option) (options, error) {
	o := options{lower: DefaultLowerBound, upper: DefaultUpperBound}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := validateBounds(o.lower, o.upper); err != nil {
		return options{}, err
	}

	return o, nil
}

// validateSigma enforces the only precondition of the diffusion formula.
func validateSigma(sigma float64) error {
	if math.IsNaN(sigma) || math.IsInf(sigma, 0) || sigma <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidSigma, sigma)
	}

	return nil
}

func validateBounds(lower, upper float64) error {
	if math.IsNaN(lower) || math.IsNaN(upper) || math.IsInf(lower, 0) || math.IsInf(upper, 0) ||
		lower <= 0 || lower > upper {
		return fmt.Errorf("%w: got [%g, %g]", ErrInvalidBounds, lower, upper)
	}

	return nil
}
