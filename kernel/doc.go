// Package kernel implements pointwise kernels between two spectra.
//
// 🚀 What is the diffusion kernel?
//
//	Each spectrum is a bag of (position, intensity) peaks. The diffusion
//	kernel blurs every peak position with a heat kernel of bandwidth 8·σ
//	and sums the intensity-weighted overlap of all cross pairs:
//
//	  D[i,j] = (pos_x[i] - pos_y[j])²
//	  K[i,j] = int_x[i]·int_y[j]·exp(-D[i,j] / (8σ))
//	  k(x,y) = -Σ K[i,j]
//
//	The published value keeps the leading minus sign. Nearby peaks in two
//	spectra reinforce each other, weighted by their heights.
//
// ✨ Key features:
//   - DiffusionValue / DiffusionGradient: pure functions, O(n·m), no allocation.
//   - Diffusion: immutable kernel holding σ with hyperparameter introspection
//     (name, value, bounds, log-space θ) for GP optimisers.
//   - Pointwise: the interface consumed by the gram assembler; Func adapts
//     plain closures so other kernels plug into the same assembly logic.
//   - Cached: LRU memoisation of any Pointwise keyed by spectrum content.
//
// ⚙️ Usage:
//
//	k, err := kernel.NewDiffusion(1.0)
//	if err != nil {
//	    // ErrInvalidSigma
//	}
//	v := k.Evaluate(x, y)  // similarity
//	g := k.Gradient(x, y)  // d/dσ contribution
//	fmt.Println(k)         // DiffusionKernel(1.00)
//
// Only the first peak field (position) and the second (intensity) are read.
// Richer per-peak features are ignored.
package kernel
