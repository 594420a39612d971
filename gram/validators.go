// SPDX-License-Identifier: MIT
// Package: gram
//
// Validators for assembled Gram matrices. Structural helpers (nil, square,
// vector length) are composed by the numeric checks in a fixed sequence:
// NotNil → Square → VecLen → values.

package gram

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// validatorErrorf tags err with the validator that raised it.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// normTol maps a negative or NaN tolerance to 0 (exact comparison).
func normTol(tol float64) float64 {
	if math.IsNaN(tol) || tol < 0 {
		return 0
	}

	return tol
}

// closeRel reports |a-b| <= tol·max(1, |a|, |b|). NaN on either side fails.
func closeRel(a, b, tol float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))

	return math.Abs(a-b) <= tol*scale
}

// ValidateNotNil ensures the matrix reference is non-nil.
//
// Inputs: any mat.Matrix value.
// Returns: ErrNilMatrix if m == nil.
// Complexity: O(1).
func ValidateNotNil(m mat.Matrix) error {
	if m == nil {
		return validatorErrorf("ValidateNotNil", ErrNilMatrix)
	}

	return nil
}

// ValidateSquare checks that m has as many rows as columns.
// It assumes m is non-nil; use ValidateSquareNonNil otherwise.
//
// Errors: ErrNotSquare (with the offending shape).
// Complexity: O(1).
func ValidateSquare(m mat.Matrix) error {
	if r, c := m.Dims(); r != c {
		return validatorErrorf("ValidateSquare", fmt.Errorf("%w: %d×%d", ErrNotSquare, r, c))
	}

	return nil
}

// ValidateSquareNonNil is the composite NotNil → Square.
//
// Errors: ErrNilMatrix, ErrNotSquare.
func ValidateSquareNonNil(m mat.Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}
	if err := ValidateSquare(m); err != nil {
		return validatorErrorf("ValidateSquareNonNil", err)
	}

	return nil
}

// ValidateVecLen ensures x holds exactly n entries. A nil x is accepted only
// for n == 0, matching an empty Diagonal result.
//
// Errors: ErrDimensionMismatch.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if len(x) != n {
		return validatorErrorf("ValidateVecLen", fmt.Errorf("%w: len %d, want %d", ErrDimensionMismatch, len(x), n))
	}

	return nil
}

// ValidateSymmetric checks that m is square and m[i,j] ≈ m[j,i] for every
// i < j, using a relative tolerance:
//
//	|m[i,j] - m[j,i]| <= tol·max(1, |m[i,j]|, |m[j,i]|)
//
// Inputs: a non-nil matrix m and tol; a negative or NaN tol is treated as 0.
// Errors: ErrNilMatrix, ErrNotSquare, ErrAsymmetric (with the first
// offending pair in row-major order).
// Complexity: O(n²) over the strict upper triangle.
func ValidateSymmetric(m mat.Matrix, tol float64) error {
	// Stage 1: structure.
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateSymmetric", err)
	}
	tol = normTol(tol)

	// Stage 2: scan the strict upper triangle once, stopping at the first
	// violation so the reported pair is deterministic.
	n, _ := m.Dims()
	var i, j int
	var a, b float64
	for i = 0; i < n; i++ {
		for j = i + 1; j < n; j++ {
			a, b = m.At(i, j), m.At(j, i)
			if !closeRel(a, b, tol) {
				return validatorErrorf("ValidateSymmetric",
					fmt.Errorf("%w: [%d,%d]=%g vs [%d,%d]=%g", ErrAsymmetric, i, j, a, j, i, b))
			}
		}
	}

	return nil
}

// ValidateDiagonal checks that diag[i] ≈ m[i,i] for every i, with the same
// relative tolerance as ValidateSymmetric.
//
// Inputs: a non-nil square m and a vector of its order.
// Errors: ErrNilMatrix, ErrNotSquare, ErrDimensionMismatch when len(diag)
// differs from the order, ErrDiagonalMismatch for the first differing entry.
// Complexity: O(n).
func ValidateDiagonal(m mat.Matrix, diag []float64, tol float64) error {
	// Stage 1: structure, then vector length against the order.
	if err := ValidateSquareNonNil(m); err != nil {
		return validatorErrorf("ValidateDiagonal", err)
	}
	n, _ := m.Dims()
	if err := ValidateVecLen(diag, n); err != nil {
		return validatorErrorf("ValidateDiagonal", err)
	}
	tol = normTol(tol)

	// Stage 2: entrywise comparison.
	for i := 0; i < n; i++ {
		if a := m.At(i, i); !closeRel(a, diag[i], tol) {
			return validatorErrorf("ValidateDiagonal",
				fmt.Errorf("%w: [%d,%d]=%g vs diag[%d]=%g", ErrDiagonalMismatch, i, i, a, i, diag[i]))
		}
	}

	return nil
}
