// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"
	"math"
)

// FromRows converts raw rows into a Spectrum.
//
// Implementation:
//   - Stage 1: every row must hold exactly two fields; anything else is
//     ErrMalformedPeak wrapped with the row index.
//   - Stage 2: copy position from field 0 and intensity from field 1.
//
// Values are not range-checked here; call Validate for the numeric policy.
// A nil or empty rows slice yields an empty Spectrum.
// Complexity: O(n).
func FromRows(rows [][]float64) (Spectrum, error) {
	s := make(Spectrum, len(rows))
	for i, row := range rows {
		if len(row) != peakFields {
			return nil, fmt.Errorf("row %d has %d fields: %w", i, len(row), ErrMalformedPeak)
		}
		s[i] = Peak{Position: row[PositionField], Intensity: row[IntensityField]}
	}

	return s, nil
}

// CollectionFromRows converts a ragged [spectrum][peak][field] array into a
// Collection, wrapping errors with the offending spectrum index.
func CollectionFromRows(raw [][][]float64) (Collection, error) {
	c := make(Collection, len(raw))
	for i, rows := range raw {
		s, err := FromRows(rows)
		if err != nil {
			return nil, fmt.Errorf("spectrum %d: %w", i, err)
		}
		c[i] = s
	}

	return c, nil
}

// Validate checks the numeric policy of s: finite positions and intensities,
// and intensities >= 0. The first violation is returned with its peak index.
// Complexity: O(n).
func (s Spectrum) Validate() error {
	for i := range s {
		p := s[i]
		if isNonFinite(p.Position) || isNonFinite(p.Intensity) {
			return fmt.Errorf("peak %d (%g, %g): %w", i, p.Position, p.Intensity, ErrNonFinite)
		}
		if p.Intensity < 0 {
			return fmt.Errorf("peak %d intensity %g: %w", i, p.Intensity, ErrNegativeIntensity)
		}
	}

	return nil
}

// Validate checks every spectrum of c in order.
func (c Collection) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return fmt.Errorf("spectrum %d: %w", i, err)
		}
	}

	return nil
}

func isNonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
