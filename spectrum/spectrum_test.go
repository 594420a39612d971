// SPDX-License-Identifier: MIT

package spectrum_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/katalvlaran/maldikern/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFromRows_Basic verifies that position comes from field 0 and intensity
// from field 1.
func TestFromRows_Basic(t *testing.T) {
	s, err := spectrum.FromRows([][]float64{{100.5, 2}, {200, 0.25}})
	require.NoError(t, err)
	assert.Equal(t, spectrum.Spectrum{{Position: 100.5, Intensity: 2}, {Position: 200, Intensity: 0.25}}, s)
	assert.Equal(t, []float64{100.5, 200}, s.Positions())
	assert.Equal(t, []float64{2, 0.25}, s.Intensities())
	assert.Equal(t, 2.25, s.TotalIntensity())
}

// TestFromRows_Empty verifies that no rows yield an empty, non-nil spectrum.
func TestFromRows_Empty(t *testing.T) {
	s, err := spectrum.FromRows(nil)
	require.NoError(t, err)
	assert.NotNil(t, s)
	assert.Len(t, s, 0)
}

// TestFromRows_Malformed checks rows with a missing or extra field.
func TestFromRows_Malformed(t *testing.T) {
	cases := map[string][][]float64{
		"missing intensity": {{1, 1}, {2}},
		"missing both":      {{}},
		"extra field":       {{1, 2, 3}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := spectrum.FromRows(rows)
			assert.ErrorIs(t, err, spectrum.ErrMalformedPeak)
		})
	}
}

// TestCollectionFromRows_IndexInMessage ensures the spectrum index is reported.
func TestCollectionFromRows_IndexInMessage(t *testing.T) {
	_, err := spectrum.CollectionFromRows([][][]float64{{{1, 1}}, {{1, 1}, {3}}})
	require.ErrorIs(t, err, spectrum.ErrMalformedPeak)
	assert.Contains(t, err.Error(), "spectrum 1")
	assert.Contains(t, err.Error(), "row 1")
}

// TestValidate_Policy covers the numeric policy of Validate.
func TestValidate_Policy(t *testing.T) {
	ok := spectrum.Spectrum{{Position: 1, Intensity: 0}, {Position: -3, Intensity: 5}}
	assert.NoError(t, ok.Validate(), "zero intensity and negative position are legal")

	nan := spectrum.Spectrum{{Position: math.NaN(), Intensity: 1}}
	assert.ErrorIs(t, nan.Validate(), spectrum.ErrNonFinite)

	inf := spectrum.Spectrum{{Position: 1, Intensity: math.Inf(1)}}
	assert.ErrorIs(t, inf.Validate(), spectrum.ErrNonFinite)

	neg := spectrum.Spectrum{{Position: 1, Intensity: -0.5}}
	assert.ErrorIs(t, neg.Validate(), spectrum.ErrNegativeIntensity)

	c := spectrum.Collection{ok, neg}
	err := c.Validate()
	require.ErrorIs(t, err, spectrum.ErrNegativeIntensity)
	assert.Contains(t, err.Error(), "spectrum 1")
}

// TestDecodeCollection round-trips a collection through JSON.
func TestDecodeCollection(t *testing.T) {
	in := `[[[1000.0, 1.5], [1001.0, 0.5]], [], [[2000, 3]]]`
	c, err := spectrum.DecodeCollection(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 3, c.Len())
	assert.Equal(t, 3, c.PeakCount())
	assert.Len(t, c[1], 0)
	assert.Equal(t, spectrum.Peak{Position: 2000, Intensity: 3}, c[2][0])

	var buf bytes.Buffer
	require.NoError(t, spectrum.EncodeCollection(&buf, c))
	back, err := spectrum.DecodeCollection(&buf)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

// TestDecodeCollection_Errors checks malformed documents.
func TestDecodeCollection_Errors(t *testing.T) {
	_, err := spectrum.DecodeCollection(strings.NewReader(`[[[1, 2, 3]]]`))
	assert.ErrorIs(t, err, spectrum.ErrMalformedPeak)

	_, err = spectrum.DecodeCollection(strings.NewReader(`[[[1, -2]]]`))
	assert.ErrorIs(t, err, spectrum.ErrNegativeIntensity)

	_, err = spectrum.DecodeCollection(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}
