// SPDX-License-Identifier: MIT

package spectrum

// Field offsets of a raw peak row.
const (
	PositionField  = 0 // column holding the peak position (m/z)
	IntensityField = 1 // column holding the peak height
	peakFields     = 2 // a row must have exactly this many columns
)

// Peak is a single (position, intensity) pair of a spectrum.
type Peak struct {
	Position  float64 `json:"position"`
	Intensity float64 `json:"intensity"`
}

// Spectrum is a weighted point set. Peak order does not affect kernel values.
type Spectrum []Peak

// Collection is an ordered sequence of spectra. Index i of the collection is
// row (or column) i of any matrix assembled from it.
type Collection []Spectrum

// Positions returns a fresh slice with the peak positions of s.
// Complexity: O(n).
func (s Spectrum) Positions() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Position
	}

	return out
}

// Intensities returns a fresh slice with the peak intensities of s.
// Complexity: O(n).
func (s Spectrum) Intensities() []float64 {
	out := make([]float64, len(s))
	for i := range s {
		out[i] = s[i].Intensity
	}

	return out
}

// TotalIntensity returns the sum of all peak intensities of s.
func (s Spectrum) TotalIntensity() float64 {
	var total float64
	for i := range s {
		total += s[i].Intensity
	}

	return total
}

// Rows converts s back into raw [position, intensity] rows.
func (s Spectrum) Rows() [][]float64 {
	rows := make([][]float64, len(s))
	for i := range s {
		rows[i] = []float64{s[i].Position, s[i].Intensity}
	}

	return rows
}

// Len returns the number of spectra in c.
func (c Collection) Len() int { return len(c) }

// PeakCount returns the total number of peaks over every spectrum of c.
func (c Collection) PeakCount() int {
	var n int
	for i := range c {
		n += len(c[i])
	}

	return n
}
