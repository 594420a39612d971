// SPDX-License-Identifier: MIT

package kernel

import "github.com/katalvlaran/maldikern/spectrum"

// Pointwise computes a scalar similarity between exactly two spectra, and
// its derivative with respect to the kernel's hyperparameter.
//
// Implementations must be safe for concurrent use: the gram assembler calls
// Evaluate and Gradient from several goroutines at once.
type Pointwise interface {
	// Evaluate returns k(x, y).
	Evaluate(x, y spectrum.Spectrum) float64

	// Gradient returns ∂k(x, y)/∂θ for the single hyperparameter θ.
	Gradient(x, y spectrum.Spectrum) float64
}

// GradientSupport is implemented by kernels that can report whether
// Gradient is meaningful. Kernels that do not implement it are assumed to
// support gradients.
type GradientSupport interface {
	SupportsGradient() bool
}

// Validator is implemented by kernels whose configuration can be
// incomplete, e.g. a Func missing its Value. Consumers call Validate once,
// before evaluating any pair.
type Validator interface {
	Validate() error
}

// Validate reports whether k is ready to evaluate. Kernels that do not
// implement Validator are assumed to be.
func Validate(k Pointwise) error {
	if v, ok := k.(Validator); ok {
		return v.Validate()
	}

	return nil
}

// Hyperparameter describes one tunable kernel parameter to an optimiser.
// Bounds are in the parameter's natural (not log) space.
type Hyperparameter struct {
	Name      string  `json:"name"`
	ValueType string  `json:"value_type"`
	Value     float64 `json:"value"`
	Lower     float64 `json:"lower"`
	Upper     float64 `json:"upper"`
	Fixed     bool    `json:"fixed"`
}

// ValueTypeNumeric is the only value type used by kernels in this module.
const ValueTypeNumeric = "numeric"
