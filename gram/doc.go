// Package gram assembles kernel matrices over collections of spectra.
//
// 🚀 What does it do?
//
//	Given a pointwise kernel k and a collection X of N spectra, the
//	Assembler evaluates k on every required pair and stores the results in
//	gonum matrices:
//
//	  Self(X)              N×N symmetric, only i <= j is computed
//	  SelfWithGradient(X)  the same plus the N×N σ-gradient
//	  Cross(X, Y)          N×M, entry [i,j] = k(X[i], Y[j])
//	  Diagonal(X)          [k(X[0],X[0]), ..., k(X[N-1],X[N-1])]
//
//	Evaluate(ctx, Request) is the single entry point used by GP-style
//	consumers; the Mode tag selects self or cross assembly, and a gradient
//	request in cross mode is refused before any pair is evaluated.
//
// ✨ Key features:
//   - Rows are dispatched to a bounded errgroup; each worker owns disjoint
//     cells, so the matrices need no locking.
//   - Cancellation is observed between rows; a cancelled call returns
//     ctx.Err() and never a partially filled matrix.
//   - Optional zerolog debug logging and Prometheus metrics.
//
// ⚙️ Usage:
//
//	k, _ := kernel.NewDiffusion(1.0)
//	a, err := gram.NewAssembler(k, gram.WithWorkers(4))
//	if err != nil {
//	    // ErrNilKernel, ErrInvalidWorkers
//	}
//	K, err := a.Self(ctx, X)
//
// An empty collection is rejected with ErrEmptyCollection by the matrix
// modes: a 0×0 matrix has no gonum representation. Diagonal returns an
// empty slice instead.
package gram
