// SPDX-License-Identifier: MIT

package spectrum

import "errors"

var (
	// ErrMalformedPeak is returned when a raw peak row does not carry exactly
	// two fields (position, intensity).
	ErrMalformedPeak = errors.New("spectrum: peak row must have exactly 2 fields (position, intensity)")

	// ErrNonFinite is returned when a position or intensity is NaN or ±Inf.
	ErrNonFinite = errors.New("spectrum: NaN or Inf peak value")

	// ErrNegativeIntensity is returned when a peak intensity is below zero.
	ErrNegativeIntensity = errors.New("spectrum: negative peak intensity")
)
