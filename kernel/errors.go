// SPDX-License-Identifier: MIT

package kernel

import "errors"

var (
	// ErrInvalidSigma indicates a smoothing parameter that is not a finite
	// positive number.
	ErrInvalidSigma = errors.New("kernel: sigma must be finite and > 0")

	// ErrInvalidBounds indicates hyperparameter bounds that are not finite,
	// not positive, or inverted (lower > upper).
	ErrInvalidBounds = errors.New("kernel: bounds must satisfy 0 < lower <= upper < Inf")

	// ErrThetaLength indicates a θ vector whose length does not match the
	// number of free hyperparameters.
	ErrThetaLength = errors.New("kernel: theta length mismatch")

	// ErrGradientUnsupported indicates a pointwise kernel without a gradient.
	ErrGradientUnsupported = errors.New("kernel: gradient not supported by this kernel")

	// ErrNilValue indicates a Func without its required Value function.
	ErrNilValue = errors.New("kernel: Func.Value is nil")

	// ErrInvalidCacheSize indicates a non-positive Cached capacity.
	ErrInvalidCacheSize = errors.New("kernel: cache size must be > 0")
)
