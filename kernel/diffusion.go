// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"
	"math"

	"github.com/katalvlaran/maldikern/spectrum"
)

const (
	// diffusionWidth scales σ into the bandwidth of the heat kernel.
	diffusionWidth = 8.0

	// gradientWidth scales σ² in the denominator of the σ-gradient.
	gradientWidth = 4.0

	hyperparameterSigma = "sigma"
	diffusionName       = "DiffusionKernel"
)

// Compile-time checks.
var (
	_ Pointwise       = (*Diffusion)(nil)
	_ GradientSupport = (*Diffusion)(nil)
	_ fmt.Stringer    = (*Diffusion)(nil)
)

// DiffusionValue returns the diffusion kernel value between x and y.
//
// Algorithm:
//  1. For every cross pair (i, j): D = (pos_x[i] - pos_y[j])².
//  2. K = int_x[i]·int_y[j]·exp(-D / (8σ)).
//  3. Return -Σ K.
//
// The D, P and K matrices are never materialised; the double loop fuses
// them into one running sum. An empty x or y returns 0.
//
// sigma must be > 0; it is validated when a Diffusion is configured, not
// here.
//
// Inputs: two spectra of n and m peaks, the smoothing parameter sigma.
// Returns: the (non-positive for non-negative intensities) kernel value.
// Complexity: Time O(n·m), Space O(1).
func DiffusionValue(x, y spectrum.Spectrum, sigma float64) float64 {
	// Stage 1: an empty side has no cross pairs.
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	width := diffusionWidth * sigma // 8σ, hoisted out of the loop

	// Stage 2: fused D → P → K accumulation, row by row over x.
	var sum, d float64
	var i, j int
	for i = range x {
		px, ix := x[i].Position, x[i].Intensity // row-invariant
		for j = range y {
			d = px - y[j].Position                              // signed distance
			sum += ix * y[j].Intensity * math.Exp(-(d*d)/width) // P[i,j]·exp(-D/8σ)
		}
	}

	// Stage 3: sign convention.
	return -sum
}

// DiffusionGradient returns -Σ D[i,j]·K[i,j] / (4σ²) over all cross pairs,
// with D and K as in DiffusionValue.
//
// Pairs at zero distance contribute nothing, so the gradient of a
// single-peak self pair is 0. An empty x or y returns 0.
//
// The result equals 2·∂k/∂σ.
//
// Inputs: as DiffusionValue.
// Complexity: Time O(n·m), Space O(1).
func DiffusionGradient(x, y spectrum.Spectrum, sigma float64) float64 {
	// Stage 1: an empty side has no cross pairs.
	if len(x) == 0 || len(y) == 0 {
		return 0
	}
	width := diffusionWidth * sigma

	// Stage 2: accumulate D[i,j]·K[i,j]; the 1/(4σ²) factor is applied once.
	var sum, d, dist float64
	var i, j int
	for i = range x {
		px, ix := x[i].Position, x[i].Intensity
		for j = range y {
			d = px - y[j].Position
			dist = d * d // D[i,j]
			sum += dist * ix * y[j].Intensity * math.Exp(-dist/width)
		}
	}

	// Stage 3: scale and sign.
	return -sum / (gradientWidth * sigma * sigma)
}

// Diffusion is an immutable diffusion kernel with a fixed smoothing
// parameter σ. Reconfiguration (WithSigma, CloneWithTheta) returns a new
// value, so a *Diffusion may be shared freely between goroutines.
type Diffusion struct {
	sigma float64
	opts  options
}

// NewDiffusion returns a diffusion kernel with smoothing parameter sigma.
//
// Errors:
//   - ErrInvalidSigma when sigma is NaN, ±Inf or <= 0.
//   - ErrInvalidBounds when WithBounds received an invalid interval.
func NewDiffusion(sigma float64, opts ...Option) (*Diffusion, error) {
	if err := validateSigma(sigma); err != nil {
		return nil, err
	}
	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Diffusion{sigma: sigma, opts: o}, nil
}

// Sigma returns the smoothing parameter.
func (k *Diffusion) Sigma() float64 { return k.sigma }

// Evaluate implements Pointwise.
func (k *Diffusion) Evaluate(x, y spectrum.Spectrum) float64 {
	return DiffusionValue(x, y, k.sigma)
}

// Gradient implements Pointwise.
func (k *Diffusion) Gradient(x, y spectrum.Spectrum) float64 {
	return DiffusionGradient(x, y, k.sigma)
}

// SupportsGradient implements GradientSupport.
func (k *Diffusion) SupportsGradient() bool { return true }

// IsStationary reports that the kernel depends on peak positions only
// through their differences.
func (k *Diffusion) IsStationary() bool { return true }

// WithSigma returns a copy of k with a new smoothing parameter. Bounds and
// the fixed flag are preserved.
func (k *Diffusion) WithSigma(sigma float64) (*Diffusion, error) {
	if err := validateSigma(sigma); err != nil {
		return nil, err
	}

	return &Diffusion{sigma: sigma, opts: k.opts}, nil
}

// Hyperparameter describes σ to an optimiser.
func (k *Diffusion) Hyperparameter() Hyperparameter {
	return Hyperparameter{
		Name:      hyperparameterSigma,
		ValueType: ValueTypeNumeric,
		Value:     k.sigma,
		Lower:     k.opts.lower,
		Upper:     k.opts.upper,
		Fixed:     k.opts.fixed,
	}
}

// Hyperparameters returns all hyperparameters of the kernel in a stable order.
func (k *Diffusion) Hyperparameters() []Hyperparameter {
	return []Hyperparameter{k.Hyperparameter()}
}

// Theta returns the free hyperparameters in log space: [log σ], or an
// empty slice when σ is fixed.
func (k *Diffusion) Theta() []float64 {
	if k.opts.fixed {
		return []float64{}
	}

	return []float64{math.Log(k.sigma)}
}

// Bounds returns the log-space bounds of the free hyperparameters, aligned
// with Theta.
func (k *Diffusion) Bounds() [][2]float64 {
	if k.opts.fixed {
		return [][2]float64{}
	}

	return [][2]float64{{math.Log(k.opts.lower), math.Log(k.opts.upper)}}
}

// CloneWithTheta returns a copy of k with σ = exp(theta[0]).
//
// Errors:
//   - ErrThetaLength when len(theta) differs from len(k.Theta()).
//   - ErrInvalidSigma when exp(theta[0]) is not finite and positive.
func (k *Diffusion) CloneWithTheta(theta []float64) (*Diffusion, error) {
	want := len(k.Theta())
	if len(theta) != want {
		return nil, fmt.Errorf("%w: want %d, got %d", ErrThetaLength, want, len(theta))
	}
	if want == 0 {
		return &Diffusion{sigma: k.sigma, opts: k.opts}, nil
	}

	return k.WithSigma(math.Exp(theta[0]))
}

// String returns a deterministic identification, e.g. "DiffusionKernel(1.00)".
func (k *Diffusion) String() string {
	return fmt.Sprintf("%s(%.2f)", diffusionName, k.sigma)
}
