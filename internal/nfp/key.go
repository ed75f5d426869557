// Package nfp implements No-Fit-Polygon calculation and caching: given two
// polygons it computes the locus of positions where one may touch the
// other without overlapping (outer NFP) or lie fully inside it (inner
// NFP), backed by a concurrent cache keyed on the polygon/rotation pair.
package nfp

import "math"

// keyPrecision is the scale factor (1e4, i.e. four decimal places) that
// rotation angles are rounded with before becoming part of a cache key, so floating-point
// drift across equivalent rotation computations does not fragment the
// cache into near-duplicate entries.
const keyPrecision = 1e4

// Key identifies a cached NFP result. Inside=true is the inner NFP
// (placing B inside container A); false is the outer NFP (separating A
// from B).
type Key struct {
	IDA, IDB   int
	RotA, RotB float64
	Inside     bool
}

// NewKey normalizes rotation angles to a fixed decimal precision before
// constructing the key, matching the tolerance-normalized hashing the
// cache contract requires.
func NewKey(idA, idB int, rotA, rotB float64, inside bool) Key {
	return Key{
		IDA:    idA,
		IDB:    idB,
		RotA:   normalizeRotation(rotA),
		RotB:   normalizeRotation(rotB),
		Inside: inside,
	}
}

func normalizeRotation(deg float64) float64 {
	wrapped := math.Mod(deg, 360)
	if wrapped < 0 {
		wrapped += 360
	}
	return math.Round(wrapped*keyPrecision) / keyPrecision
}
