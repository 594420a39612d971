// SPDX-License-Identifier: MIT

package kernel

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/katalvlaran/maldikern/spectrum"
)

var (
	_ Pointwise       = (*Cached)(nil)
	_ GradientSupport = (*Cached)(nil)
	_ Validator       = (*Cached)(nil)
)

// pairKey identifies an ordered (x, y) pair by content fingerprints.
type pairKey struct {
	x, y uint64
}

// Cached memoises an inner Pointwise kernel by spectrum content. It pays
// off when the same spectra are compared repeatedly, e.g. reference
// library diagonals reused across lookups.
//
// Keys are 64-bit xxhash fingerprints of (x, y) in argument order; two
// different spectra colliding on both fingerprints would share an entry.
// Values and gradients live in separate LRU caches of the same size.
//
// Cached is safe for concurrent use if the inner kernel is.
type Cached struct {
	inner  Pointwise
	values *lru.Cache[pairKey, float64]
	grads  *lru.Cache[pairKey, float64]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCached wraps inner with LRU caches holding up to size pairs each.
//
// Errors:
//   - ErrInvalidCacheSize when size <= 0.
//   - the inner kernel's Validate error, e.g. ErrNilValue.
func NewCached(inner Pointwise, size int) (*Cached, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCacheSize, size)
	}
	if err := Validate(inner); err != nil {
		return nil, err
	}
	values, err := lru.New[pairKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("kernel: value cache: %w", err)
	}
	grads, err := lru.New[pairKey, float64](size)
	if err != nil {
		return nil, fmt.Errorf("kernel: gradient cache: %w", err)
	}

	return &Cached{inner: inner, values: values, grads: grads}, nil
}

// Fingerprint returns the xxhash of the peak positions and intensities of
// s, in order.
func Fingerprint(s spectrum.Spectrum) uint64 {
	d := xxhash.New()
	var buf [16]byte
	for i := range s {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(s[i].Position))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(s[i].Intensity))
		_, _ = d.Write(buf[:])
	}

	return d.Sum64()
}

// Evaluate implements Pointwise.
func (c *Cached) Evaluate(x, y spectrum.Spectrum) float64 {
	return c.lookup(c.values, x, y, c.inner.Evaluate)
}

// Gradient implements Pointwise.
func (c *Cached) Gradient(x, y spectrum.Spectrum) float64 {
	return c.lookup(c.grads, x, y, c.inner.Gradient)
}

func (c *Cached) lookup(cache *lru.Cache[pairKey, float64], x, y spectrum.Spectrum, eval func(x, y spectrum.Spectrum) float64) float64 {
	key := pairKey{x: Fingerprint(x), y: Fingerprint(y)}
	if v, ok := cache.Get(key); ok {
		c.hits.Add(1)

		return v
	}
	c.misses.Add(1)
	v := eval(x, y)
	cache.Add(key, v)

	return v
}

// Validate implements Validator by delegating to the inner kernel.
func (c *Cached) Validate() error { return Validate(c.inner) }

// SupportsGradient reports whether the inner kernel does.
func (c *Cached) SupportsGradient() bool { return SupportsGradient(c.inner) }

// Inner returns the wrapped kernel.
func (c *Cached) Inner() Pointwise { return c.inner }

// Stats returns cumulative hit and miss counts over values and gradients.
func (c *Cached) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// Len returns the number of cached values (gradients not included).
func (c *Cached) Len() int { return c.values.Len() }

// Purge drops every cached entry; counters are kept.
func (c *Cached) Purge() {
	c.values.Purge()
	c.grads.Purge()
}

// String returns "Cached(<inner>)".
func (c *Cached) String() string {
	return fmt.Sprintf("Cached(%v)", c.inner)
}
