// SPDX-License-Identifier: MIT

package gram

import (
	"context"
	"fmt"

	"github.com/katalvlaran/maldikern/spectrum"
	"gonum.org/v1/gonum/mat"
)

// Mode selects what Evaluate assembles.
type Mode int

const (
	// ModeSelf assembles the N×N matrix of X against itself. Y is ignored.
	ModeSelf Mode = iota

	// ModeCross assembles the N×M matrix of X against Y. Gradients are not
	// available in this mode.
	ModeCross
)

// String returns "self", "cross" or "Mode(n)".
func (m Mode) String() string {
	switch m {
	case ModeSelf:
		return "self"
	case ModeCross:
		return "cross"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Request is one evaluate-matrix call.
type Request struct {
	Mode         Mode
	X            spectrum.Collection
	Y            spectrum.Collection
	EvalGradient bool
}

// Result carries the assembled matrix and, for gradient requests, the
// σ-gradient matrix.
//
// K is a *mat.SymDense in ModeSelf and a *mat.Dense in ModeCross.
// Gradient is nil unless the request set EvalGradient.
type Result struct {
	Mode     Mode
	K        mat.Matrix
	Gradient *mat.SymDense
}

// Evaluate dispatches req to Self, SelfWithGradient or Cross.
//
// A cross-mode request with EvalGradient fails with ErrGradientRequiresSelf
// before any collection is inspected or any pair evaluated. An unknown Mode
// fails with ErrUnknownMode.
func (a *Assembler) Evaluate(ctx context.Context, req Request) (*Result, error) {
	switch req.Mode {
	case ModeSelf:
		if req.EvalGradient {
			K, G, err := a.SelfWithGradient(ctx, req.X)
			if err != nil {
				return nil, err
			}

			return &Result{Mode: ModeSelf, K: K, Gradient: G}, nil
		}
		K, err := a.Self(ctx, req.X)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: ModeSelf, K: K}, nil

	case ModeCross:
		if req.EvalGradient {
			return nil, a.reject(modeLabelCross, ErrGradientRequiresSelf)
		}
		K, err := a.Cross(ctx, req.X, req.Y)
		if err != nil {
			return nil, err
		}

		return &Result{Mode: ModeCross, K: K}, nil

	default:
		return nil, a.reject(req.Mode.String(), fmt.Errorf("%w: %v", ErrUnknownMode, req.Mode))
	}
}
