// Package spectrum holds the in-memory representation of mass-spectrometry
// spectra consumed by the kernel and gram packages.
//
// A Spectrum is a weighted point set: an unordered bag of peaks, each peak
// carrying a position (m/z) and a non-negative intensity. A Collection is an
// ordered slice of spectra; its order defines the row and column order of
// every matrix built from it.
//
// Boundary checks live here so that numeric code downstream can assume
// well-formed input:
//
//   - FromRows converts raw [position, intensity] rows and rejects rows
//     that do not carry exactly two fields (ErrMalformedPeak).
//   - Validate rejects NaN/±Inf values (ErrNonFinite) and negative
//     intensities (ErrNegativeIntensity).
//   - DecodeCollection reads a JSON array of spectra, the layout produced by
//     dumping a ragged array of (n_peaks, 2) arrays.
//
// Spectra are treated as read-only by every package in this module.
package spectrum
