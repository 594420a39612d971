// Package maldikern compares MALDI-TOF mass spectra with the peak diffusion
// kernel and assembles kernel matrices for Gaussian-process style
// classifiers.
//
// 🚀 What is maldikern?
//
//	A small library plus CLI that brings together:
//		• spectrum/: peaks, spectra and collections; row conversion,
//		  numeric validation, JSON decoding
//		• kernel/  : the diffusion kernel value and σ-gradient between two
//		  spectra, hyperparameter introspection (σ, bounds, log-space θ)
//		• gram/    : concurrent assembly of self, cross and diagonal kernel
//		  matrices (gonum), with gradient support in self mode
//		• config/  : defaults, YAML file and MALDIKERN_* environment layering
//		• logging/ : zerolog setup shared by the CLI
//		• cmd/maldikern: command-line front end printing JSON
//
// ✨ Why the diffusion kernel?
//
//   - Works on raw peak lists: no binning, no fixed feature vector.
//   - Nearby peaks reinforce each other, so small calibration drift is tolerated.
//   - One hyperparameter σ with a closed-form gradient.
//
// Quick example:
//
//	k, _ := kernel.NewDiffusion(1.0)
//	a, _ := gram.NewAssembler(k)
//	res, err := a.Evaluate(ctx, gram.Request{Mode: gram.ModeSelf, X: X, EvalGradient: true})
//	// res.K is N×N, res.Gradient holds ∂K/∂σ
//
// See examples/ for a reference-library lookup.
package maldikern
