// SPDX-License-Identifier: MIT

package gram

import "errors"

var (
	// ErrGradientRequiresSelf is returned when a gradient is requested for a
	// cross-collection matrix. The check runs before any pair is evaluated.
	ErrGradientRequiresSelf = errors.New("gram: gradient can only be evaluated in self mode")

	// ErrEmptyCollection is returned when an input collection has no spectra.
	ErrEmptyCollection = errors.New("gram: collection must contain at least one spectrum")

	// ErrNilKernel is returned by NewAssembler when no kernel is given.
	ErrNilKernel = errors.New("gram: kernel is nil")

	// ErrInvalidWorkers is returned for a negative worker count.
	ErrInvalidWorkers = errors.New("gram: worker count must be >= 0")

	// ErrUnknownMode is returned by Evaluate for a Mode it does not know.
	ErrUnknownMode = errors.New("gram: unknown assembly mode")

	// ErrNilMatrix is returned by the validators for a nil matrix.
	ErrNilMatrix = errors.New("gram: matrix is nil")

	// ErrNotSquare is returned by the validators for a non-square matrix.
	ErrNotSquare = errors.New("gram: matrix is not square")

	// ErrDimensionMismatch is returned when a vector length does not match
	// the matrix order.
	ErrDimensionMismatch = errors.New("gram: dimension mismatch")

	// ErrAsymmetric is returned by ValidateSymmetric when m[i,j] != m[j,i].
	ErrAsymmetric = errors.New("gram: matrix is not symmetric")

	// ErrDiagonalMismatch is returned by ValidateDiagonal when a diagonal
	// entry differs from the given vector.
	ErrDiagonalMismatch = errors.New("gram: diagonal mismatch")
)
