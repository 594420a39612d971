// SPDX-License-Identifier: MIT

package spectrum

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// DecodeCollection reads a JSON document of the form
//
//	[ [[pos, int], [pos, int], ...], [[pos, int], ...], ... ]
//
// and returns the validated Collection. An empty inner array is a legal,
// empty spectrum.
//
// Errors:
//   - decoding errors from the JSON reader, wrapped.
//   - ErrMalformedPeak, ErrNonFinite, ErrNegativeIntensity, wrapped with the
//     spectrum (and peak) index.
func DecodeCollection(r io.Reader) (Collection, error) {
	var raw [][][]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("spectrum: decode collection: %w", err)
	}

	c, err := CollectionFromRows(raw)
	if err != nil {
		return nil, err
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// EncodeCollection writes c in the layout accepted by DecodeCollection.
func EncodeCollection(w io.Writer, c Collection) error {
	raw := make([][][]float64, len(c))
	for i := range c {
		raw[i] = c[i].Rows()
	}

	return json.NewEncoder(w).Encode(raw)
}
