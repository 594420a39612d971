// SPDX-License-Identifier: MIT

package kernel

import (
	"fmt"

	"github.com/katalvlaran/maldikern/spectrum"
)

var (
	_ Pointwise       = Func{}
	_ GradientSupport = Func{}
	_ Validator       = Func{}
)

// Func adapts plain functions to the Pointwise interface, so alternative
// kernels can reuse the gram assembler without a dedicated type.
//
// Value is required and checked by Validate (ErrNilValue). Grad is
// optional; when nil, SupportsGradient reports false and the assembler
// refuses gradient requests.
type Func struct {
	Name  string
	Value func(x, y spectrum.Spectrum) float64
	Grad  func(x, y spectrum.Spectrum) float64
}

// Evaluate implements Pointwise.
func (f Func) Evaluate(x, y spectrum.Spectrum) float64 { return f.Value(x, y) }

// Gradient implements Pointwise. It returns 0 when Grad is nil.
func (f Func) Gradient(x, y spectrum.Spectrum) float64 {
	if f.Grad == nil {
		return 0
	}

	return f.Grad(x, y)
}

// Validate implements Validator: Value must be set.
func (f Func) Validate() error {
	if f.Value == nil {
		return fmt.Errorf("%s: %w", f.String(), ErrNilValue)
	}

	return nil
}

// SupportsGradient implements GradientSupport.
func (f Func) SupportsGradient() bool { return f.Grad != nil }

// String returns Name, or "Func" when unnamed.
func (f Func) String() string {
	if f.Name == "" {
		return "Func"
	}

	return f.Name
}

// SupportsGradient reports whether k can produce gradients. Kernels that do
// not implement GradientSupport are assumed to.
func SupportsGradient(k Pointwise) bool {
	if gs, ok := k.(GradientSupport); ok {
		return gs.SupportsGradient()
	}

	return true
}
