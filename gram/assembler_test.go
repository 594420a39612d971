// SPDX-License-Identifier: MIT

package gram_test

import (
	"bytes"
	"context"
	"math"
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/katalvlaran/maldikern/gram"
	"github.com/katalvlaran/maldikern/kernel"
	"github.com/katalvlaran/maldikern/spectrum"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const symTol = 1e-12

// collectionX is a small three-spectrum collection with varied peak counts.
func collectionX() spectrum.Collection {
	return spectrum.Collection{
		{{Position: 0, Intensity: 1}},
		{{Position: 2, Intensity: 1}, {Position: 5, Intensity: 0.5}},
		{{Position: 1, Intensity: 3}, {Position: 4, Intensity: 2}, {Position: 9, Intensity: 0.25}},
	}
}

func collectionY() spectrum.Collection {
	return spectrum.Collection{
		{{Position: 0.5, Intensity: 2}},
		{{Position: 3, Intensity: 1}, {Position: 8, Intensity: 1}},
	}
}

func newDiffusion(t *testing.T, sigma float64) *kernel.Diffusion {
	t.Helper()
	k, err := kernel.NewDiffusion(sigma)
	require.NoError(t, err)

	return k
}

// countingKernel wraps the diffusion kernel and counts every call.
func countingKernel(sigma float64, calls *atomic.Int64) kernel.Func {
	return kernel.Func{
		Name: "counting",
		Value: func(x, y spectrum.Spectrum) float64 {
			calls.Add(1)
			return kernel.DiffusionValue(x, y, sigma)
		},
		Grad: func(x, y spectrum.Spectrum) float64 {
			calls.Add(1)
			return kernel.DiffusionGradient(x, y, sigma)
		},
	}
}

func TestNewAssembler_Errors(t *testing.T) {
	_, err := gram.NewAssembler(nil)
	assert.ErrorIs(t, err, gram.ErrNilKernel)

	// A Func without Value is rejected up front, not inside a worker.
	_, err = gram.NewAssembler(kernel.Func{Name: "x"})
	assert.ErrorIs(t, err, gram.ErrNilKernel)
	assert.ErrorIs(t, err, kernel.ErrNilValue)

	_, err = gram.NewAssembler(newDiffusion(t, 1), gram.WithWorkers(-1))
	assert.ErrorIs(t, err, gram.ErrInvalidWorkers)

	a, err := gram.NewAssembler(newDiffusion(t, 1), gram.WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, runtime.GOMAXPROCS(0), a.Workers())

	a, err = gram.NewAssembler(newDiffusion(t, 1), gram.WithWorkers(3))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Workers())
}

// TestSelf_SymmetricAndExact checks shape, symmetry and exact entries.
func TestSelf_SymmetricAndExact(t *testing.T) {
	X := collectionX()
	a, err := gram.NewAssembler(newDiffusion(t, 1.5))
	require.NoError(t, err)

	K, err := a.Self(context.Background(), X)
	require.NoError(t, err)
	require.Equal(t, len(X), K.SymmetricDim())
	require.NoError(t, gram.ValidateSymmetric(K, symTol))

	for i := range X {
		for j := range X {
			want := kernel.DiffusionValue(X[i], X[j], 1.5)
			if j < i {
				want = kernel.DiffusionValue(X[j], X[i], 1.5)
			}
			assert.Equal(t, want, K.At(i, j), "K[%d,%d]", i, j)
		}
	}
	assert.InDelta(t, -1.0, K.At(0, 0), symTol)
}

// TestDiagonal_MatchesSelf checks diagonal consistency.
func TestDiagonal_MatchesSelf(t *testing.T) {
	X := collectionX()
	a, err := gram.NewAssembler(newDiffusion(t, 0.7))
	require.NoError(t, err)

	K, err := a.Self(context.Background(), X)
	require.NoError(t, err)
	diag, err := a.Diagonal(context.Background(), X)
	require.NoError(t, err)

	require.Len(t, diag, len(X))
	assert.NoError(t, gram.ValidateDiagonal(K, diag, symTol))
}

// TestCross_ShapeAndEntries checks the N×M shape and exact entries.
func TestCross_ShapeAndEntries(t *testing.T) {
	X, Y := collectionX(), collectionY()
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)

	K, err := a.Cross(context.Background(), X, Y)
	require.NoError(t, err)

	r, c := K.Dims()
	assert.Equal(t, len(X), r)
	assert.Equal(t, len(Y), c)
	for i := range X {
		for j := range Y {
			assert.Equal(t, kernel.DiffusionValue(X[i], Y[j], 1), K.At(i, j), "K[%d,%d]", i, j)
		}
	}
}

// TestCross_OfSelfEqualsSelf: Cross(X, X) equals Self(X) up to tolerance.
func TestCross_OfSelfEqualsSelf(t *testing.T) {
	X := collectionX()
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)

	S, err := a.Self(context.Background(), X)
	require.NoError(t, err)
	C, err := a.Cross(context.Background(), X, X)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(S, C, symTol))
}

// TestSelfWithGradient checks both matrices and the pair count.
func TestSelfWithGradient(t *testing.T) {
	X := collectionX()
	var calls atomic.Int64
	a, err := gram.NewAssembler(countingKernel(2, &calls))
	require.NoError(t, err)

	K, G, err := a.SelfWithGradient(context.Background(), X)
	require.NoError(t, err)
	require.NoError(t, gram.ValidateSymmetric(K, symTol))
	require.NoError(t, gram.ValidateSymmetric(G, symTol))

	n := len(X)
	assert.Equal(t, int64(n*(n+1)), calls.Load(), "upper triangle only, value and gradient")
	for i := range X {
		if len(X[i]) == 1 {
			assert.InDelta(t, 0, G.At(i, i), symTol, "single-peak self gradient is 0")
		}
		for j := i; j < n; j++ {
			assert.Equal(t, kernel.DiffusionValue(X[i], X[j], 2), K.At(i, j))
			assert.Equal(t, kernel.DiffusionGradient(X[i], X[j], 2), G.At(i, j))
		}
	}
}

// TestSelfWithGradient_Unsupported refuses kernels without a gradient.
func TestSelfWithGradient_Unsupported(t *testing.T) {
	var calls atomic.Int64
	k := kernel.Func{Name: "valueOnly", Value: func(x, y spectrum.Spectrum) float64 {
		calls.Add(1)
		return 0
	}}
	a, err := gram.NewAssembler(k)
	require.NoError(t, err)

	_, _, err = a.SelfWithGradient(context.Background(), collectionX())
	assert.ErrorIs(t, err, kernel.ErrGradientUnsupported)
	assert.Zero(t, calls.Load())
}

// TestEvaluate_GradientRequiresSelf: cross + gradient is refused before
// any kernel call, even with collections that would otherwise be rejected.
func TestEvaluate_GradientRequiresSelf(t *testing.T) {
	var calls atomic.Int64
	a, err := gram.NewAssembler(countingKernel(1, &calls))
	require.NoError(t, err)

	res, err := a.Evaluate(context.Background(), gram.Request{
		Mode: gram.ModeCross, X: collectionX(), Y: collectionY(), EvalGradient: true,
	})
	assert.ErrorIs(t, err, gram.ErrGradientRequiresSelf)
	assert.Nil(t, res)

	_, err = a.Evaluate(context.Background(), gram.Request{Mode: gram.ModeCross, EvalGradient: true})
	assert.ErrorIs(t, err, gram.ErrGradientRequiresSelf)

	assert.Zero(t, calls.Load())
}

func TestEvaluate_Modes(t *testing.T) {
	X, Y := collectionX(), collectionY()
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)
	ctx := context.Background()

	self, err := a.Evaluate(ctx, gram.Request{Mode: gram.ModeSelf, X: X})
	require.NoError(t, err)
	assert.Equal(t, gram.ModeSelf, self.Mode)
	assert.IsType(t, &mat.SymDense{}, self.K)
	assert.Nil(t, self.Gradient)

	withGrad, err := a.Evaluate(ctx, gram.Request{Mode: gram.ModeSelf, X: X, EvalGradient: true})
	require.NoError(t, err)
	require.NotNil(t, withGrad.Gradient)
	assert.True(t, mat.Equal(self.K, withGrad.K))

	cross, err := a.Evaluate(ctx, gram.Request{Mode: gram.ModeCross, X: X, Y: Y})
	require.NoError(t, err)
	r, c := cross.K.Dims()
	assert.Equal(t, [2]int{len(X), len(Y)}, [2]int{r, c})
	assert.IsType(t, &mat.Dense{}, cross.K)

	_, err = a.Evaluate(ctx, gram.Request{Mode: gram.Mode(7), X: X})
	assert.ErrorIs(t, err, gram.ErrUnknownMode)
	assert.Contains(t, err.Error(), "Mode(7)")
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "self", gram.ModeSelf.String())
	assert.Equal(t, "cross", gram.ModeCross.String())
	assert.Equal(t, "Mode(-1)", gram.Mode(-1).String())
}

func TestEmptyCollection(t *testing.T) {
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = a.Self(ctx, nil)
	assert.ErrorIs(t, err, gram.ErrEmptyCollection)
	_, _, err = a.SelfWithGradient(ctx, spectrum.Collection{})
	assert.ErrorIs(t, err, gram.ErrEmptyCollection)
	_, err = a.Cross(ctx, collectionX(), nil)
	require.ErrorIs(t, err, gram.ErrEmptyCollection)
	assert.Contains(t, err.Error(), "Y")
}

// TestDiagonal_EmptyCollection: no matrix is built, so N=0 is a valid input.
func TestDiagonal_EmptyCollection(t *testing.T) {
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)

	for _, X := range []spectrum.Collection{nil, {}} {
		diag, err := a.Diagonal(context.Background(), X)
		require.NoError(t, err)
		require.NotNil(t, diag)
		assert.Empty(t, diag)
		assert.NoError(t, gram.ValidateVecLen(diag, len(X)))
	}
}

// TestEmptySpectrumInCollection: an empty spectrum is valid and yields 0 rows.
func TestEmptySpectrumInCollection(t *testing.T) {
	X := spectrum.Collection{{}, {{Position: 1, Intensity: 1}}}
	a, err := gram.NewAssembler(newDiffusion(t, 1))
	require.NoError(t, err)

	K, err := a.Self(context.Background(), X)
	require.NoError(t, err)
	assert.Equal(t, 0.0, K.At(0, 0))
	assert.Equal(t, 0.0, K.At(0, 1))
	assert.InDelta(t, -1.0, K.At(1, 1), symTol)
}

func TestInvalidInput(t *testing.T) {
	bad := spectrum.Collection{
		{{Position: 0, Intensity: 1}},
		{{Position: math.NaN(), Intensity: 1}},
	}
	var calls atomic.Int64
	a, err := gram.NewAssembler(countingKernel(1, &calls))
	require.NoError(t, err)

	_, err = a.Self(context.Background(), bad)
	require.ErrorIs(t, err, spectrum.ErrNonFinite)
	assert.Contains(t, err.Error(), "X")
	assert.Zero(t, calls.Load())

	neg := spectrum.Collection{{{Position: 0, Intensity: -1}}}
	_, err = a.Cross(context.Background(), collectionX(), neg)
	assert.ErrorIs(t, err, spectrum.ErrNegativeIntensity)

	unchecked, err := gram.NewAssembler(countingKernel(1, &calls), gram.WithInputValidation(false))
	require.NoError(t, err)
	_, err = unchecked.Diagonal(context.Background(), neg)
	assert.NoError(t, err)
}

// TestWorkerCountIndependence: results do not depend on concurrency.
func TestWorkerCountIndependence(t *testing.T) {
	X := make(spectrum.Collection, 17)
	for i := range X {
		X[i] = spectrum.Spectrum{
			{Position: float64(i), Intensity: 1 + float64(i%3)},
			{Position: float64(i) * 1.5, Intensity: 0.5},
		}
	}
	k := newDiffusion(t, 3)
	ctx := context.Background()

	ref, err := gram.NewAssembler(k, gram.WithWorkers(1))
	require.NoError(t, err)
	wantK, wantG, err := ref.SelfWithGradient(ctx, X)
	require.NoError(t, err)
	wantC, err := ref.Cross(ctx, X, X[:5])
	require.NoError(t, err)

	for _, w := range []int{2, 4, 16, 64} {
		a, err := gram.NewAssembler(k, gram.WithWorkers(w))
		require.NoError(t, err)
		K, G, err := a.SelfWithGradient(ctx, X)
		require.NoError(t, err)
		C, err := a.Cross(ctx, X, X[:5])
		require.NoError(t, err)
		assert.True(t, mat.Equal(wantK, K), "workers=%d", w)
		assert.True(t, mat.Equal(wantG, G), "workers=%d", w)
		assert.True(t, mat.Equal(wantC, C), "workers=%d", w)
	}
}

func TestCancellation_BeforeStart(t *testing.T) {
	var calls atomic.Int64
	a, err := gram.NewAssembler(countingKernel(1, &calls))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	K, err := a.Self(ctx, collectionX())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, K)
	D, err := a.Diagonal(ctx, collectionX())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, D)
	assert.Zero(t, calls.Load())
}

// TestCancellation_MidAssembly cancels from inside the first kernel call;
// no further row may start and no matrix is returned.
func TestCancellation_MidAssembly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	k := kernel.Func{Value: func(x, y spectrum.Spectrum) float64 {
		calls.Add(1)
		cancel()
		return 0
	}}
	a, err := gram.NewAssembler(k, gram.WithWorkers(1))
	require.NoError(t, err)

	X := make(spectrum.Collection, 8)
	for i := range X {
		X[i] = spectrum.Spectrum{{Position: float64(i), Intensity: 1}}
	}
	C, err := a.Cross(ctx, X, X)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, C)
	assert.Equal(t, int64(len(X)), calls.Load(), "only the first row ran")
}

func TestLogger_DebugRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	a, err := gram.NewAssembler(newDiffusion(t, 1), gram.WithLogger(logger), gram.WithWorkers(2))
	require.NoError(t, err)

	_, err = a.Self(context.Background(), collectionX())
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"mode":"self"`)
	assert.Contains(t, out, `"rows":3`)
	assert.Contains(t, out, `"workers":2`)
	assert.Contains(t, out, "gram matrix assembled")

	buf.Reset()
	_, err = a.Self(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"reason":"empty_collection"`)
}
