// SPDX-License-Identifier: MIT

package gram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/maldikern/kernel"
	"github.com/katalvlaran/maldikern/spectrum"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Assembler evaluates a pointwise kernel over collections of spectra.
//
// An Assembler is immutable after construction and safe for concurrent use,
// provided its kernel is.
type Assembler struct {
	kernel kernel.Pointwise
	opts   options
}

// NewAssembler returns an Assembler for k.
//
// Errors:
//   - ErrNilKernel when k is nil, or when k implements kernel.Validator and
//     reports an incomplete configuration (the cause, e.g.
//     kernel.ErrNilValue, is wrapped as well).
//   - ErrInvalidWorkers when WithWorkers received a negative count.
func NewAssembler(k kernel.Pointwise, opts ...Option) (*Assembler, error) {
	// Kernel guards run here, never inside a worker goroutine.
	if k == nil {
		return nil, ErrNilKernel
	}
	if err := kernel.Validate(k); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNilKernel, err)
	}

	o, err := gatherOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Assembler{kernel: k, opts: o}, nil
}

// Kernel returns the pointwise kernel evaluated by a.
func (a *Assembler) Kernel() kernel.Pointwise { return a.kernel }

// Workers returns the resolved concurrency bound.
func (a *Assembler) Workers() int { return a.opts.workers }

// Self returns the N×N matrix K[i,j] = k(X[i], X[j]).
//
// Only the upper triangle (i <= j) is evaluated; SymDense storage mirrors
// it, so K[i,j] == K[j,i] holds exactly.
//
// Complexity: N(N+1)/2 pointwise calls.
func (a *Assembler) Self(ctx context.Context, X spectrum.Collection) (*mat.SymDense, error) {
	start := time.Now()
	if err := a.checkCollection("X", X); err != nil {
		return nil, a.reject(modeLabelSelf, err)
	}

	n := len(X)
	K := mat.NewSymDense(n, nil)
	err := a.forEach(ctx, n, func(i int) {
		xi := X[i]
		// Row i owns cells (i, i..n-1); SymDense mirrors them into column i.
		for j := i; j < n; j++ {
			K.SetSym(i, j, a.kernel.Evaluate(xi, X[j]))
		}
	})
	if err != nil {
		return nil, a.reject(modeLabelSelf, err)
	}
	a.done(modeLabelSelf, n, n, n*(n+1)/2, start)

	return K, nil
}

// SelfWithGradient returns the self matrix together with the N×N matrix of
// σ-gradients G[i,j] = ∂k(X[i], X[j])/∂σ. Both are computed in one pass
// over the upper triangle.
//
// Errors: kernel.ErrGradientUnsupported when the kernel reports no
// gradient, plus every error of Self.
func (a *Assembler) SelfWithGradient(ctx context.Context, X spectrum.Collection) (*mat.SymDense, *mat.SymDense, error) {
	start := time.Now()
	if !kernel.SupportsGradient(a.kernel) {
		return nil, nil, a.reject(modeLabelSelfGradient, fmt.Errorf("%v: %w", a.kernel, kernel.ErrGradientUnsupported))
	}
	if err := a.checkCollection("X", X); err != nil {
		return nil, nil, a.reject(modeLabelSelfGradient, err)
	}

	n := len(X)
	K := mat.NewSymDense(n, nil)
	G := mat.NewSymDense(n, nil)
	err := a.forEach(ctx, n, func(i int) {
		xi := X[i]
		// Same upper-triangle ownership as Self, for both matrices.
		for j := i; j < n; j++ {
			K.SetSym(i, j, a.kernel.Evaluate(xi, X[j]))
			G.SetSym(i, j, a.kernel.Gradient(xi, X[j]))
		}
	})
	if err != nil {
		return nil, nil, a.reject(modeLabelSelfGradient, err)
	}
	a.done(modeLabelSelfGradient, n, n, n*(n+1), start)

	return K, G, nil
}

// Cross returns the N×M matrix K[i,j] = k(X[i], Y[j]).
//
// Complexity: N·M pointwise calls.
func (a *Assembler) Cross(ctx context.Context, X, Y spectrum.Collection) (*mat.Dense, error) {
	start := time.Now()
	if err := a.checkCollection("X", X); err != nil {
		return nil, a.reject(modeLabelCross, err)
	}
	if err := a.checkCollection("Y", Y); err != nil {
		return nil, a.reject(modeLabelCross, err)
	}

	n, m := len(X), len(Y)
	K := mat.NewDense(n, m, nil)
	err := a.forEach(ctx, n, func(i int) {
		xi := X[i]
		// Row i owns the whole row; no symmetry to exploit across collections.
		for j := 0; j < m; j++ {
			K.Set(i, j, a.kernel.Evaluate(xi, Y[j]))
		}
	})
	if err != nil {
		return nil, a.reject(modeLabelCross, err)
	}
	a.done(modeLabelCross, n, m, n*m, start)

	return K, nil
}

// Diagonal returns [k(X[0],X[0]), ..., k(X[N-1],X[N-1])] without building
// the full matrix. The values equal the diagonal of Self(X).
//
// Unlike the matrix modes, an empty collection is not an error: the result
// is an empty, non-nil slice (no matrix has to be represented).
//
// Complexity: N pointwise calls.
func (a *Assembler) Diagonal(ctx context.Context, X spectrum.Collection) ([]float64, error) {
	start := time.Now()
	if len(X) == 0 {
		a.done(modeLabelDiagonal, 0, 1, 0, start)

		return []float64{}, nil
	}
	if err := a.checkCollection("X", X); err != nil {
		return nil, a.reject(modeLabelDiagonal, err)
	}

	n := len(X)
	diag := make([]float64, n)
	// Element i owns diag[i].
	err := a.forEach(ctx, n, func(i int) {
		diag[i] = a.kernel.Evaluate(X[i], X[i])
	})
	if err != nil {
		return nil, a.reject(modeLabelDiagonal, err)
	}
	a.done(modeLabelDiagonal, n, 1, n, start)

	return diag, nil
}

// checkCollection rejects empty collections and, unless disabled, invalid
// peak data. name identifies the argument in the error message.
func (a *Assembler) checkCollection(name string, c spectrum.Collection) error {
	// Stage 1: shape. gonum has no 0×0 matrix.
	if len(c) == 0 {
		return fmt.Errorf("%s: %w", name, ErrEmptyCollection)
	}
	// Stage 2: numeric policy, skipped for pre-validated input.
	if !a.opts.validate {
		return nil
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}

// forEach runs fn(0..n-1) on at most a.opts.workers goroutines.
//
// Inputs: a parent ctx, the index count n, and fn, which must write only
// cells owned by its index.
// Returns: nil, or ctx.Err() once ctx is done; no further index starts
// after cancellation, indices already running finish.
// Complexity: n dispatches, at most workers in flight.
func (a *Assembler) forEach(ctx context.Context, n int, fn func(i int)) error {
	// Stage 1: bounded group; g.Go blocks while workers tasks are in flight.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.workers)

	// Stage 2: dispatch, re-checking cancellation before every index.
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// A task queued before cancellation may start after it.
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)

			return nil
		})
	}

	// Stage 3: join. A clean Wait can still hide a cancellation that only
	// stopped the dispatch loop, hence the final ctx check.
	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

func (a *Assembler) done(mode string, rows, cols, pairs int, start time.Time) {
	elapsed := time.Since(start)
	a.opts.metrics.recordSuccess(mode, pairs, elapsed)
	a.opts.logger.Debug().
		Str("mode", mode).
		Int("rows", rows).
		Int("cols", cols).
		Int("pairs", pairs).
		Int("workers", a.opts.workers).
		Dur("elapsed", elapsed).
		Msg("gram matrix assembled")
}

// reject records err against its reason and returns it unchanged.
func (a *Assembler) reject(mode string, err error) error {
	reason := rejectReason(err)
	a.opts.metrics.recordRejected(reason)
	a.opts.logger.Debug().
		Str("mode", mode).
		Str("reason", reason).
		Err(err).
		Msg("gram request rejected")

	return err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrGradientRequiresSelf):
		return reasonGradientRequiresSelf
	case errors.Is(err, kernel.ErrGradientUnsupported):
		return reasonGradientUnsupported
	case errors.Is(err, ErrEmptyCollection):
		return reasonEmptyCollection
	case errors.Is(err, ErrUnknownMode):
		return reasonUnknownMode
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return reasonCanceled
	default:
		return reasonInvalidInput
	}
}
