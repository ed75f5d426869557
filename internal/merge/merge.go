// Package merge implements the shared-edge accounting used for the
// cutting-path bonus: given a set of already-placed polygons and a
// candidate polygon, it computes the total length of aligned, overlapping
// edge segments between the candidate and the placed set, recursing into
// holes exactly as the placement worker's fitness term expects.
package merge

import (
	"math"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// Segment is a world-space overlap segment, retained for visualization
// only — it has no bearing on the fitness bonus beyond its length.
type Segment struct {
	A, B geom.Point
}

// Result is the outcome of a merge-length computation: the scalar
// cutting-efficiency bonus plus the segments that produced it.
type Result struct {
	TotalLength float64
	Segments    []Segment
}

// CalculateMergedLength computes the merge-length bonus between the
// candidate polygon's edges and every edge of every placed polygon
// (recursively including their holes). minLength filters out edges too
// short to matter; tolerance governs the alignment and overlap checks.
func CalculateMergedLength(placed []geom.Polygon, candidate geom.Polygon, minLength, tolerance float64) Result {
	return mergedLengthAgainstParts(placed, candidate.Outer, minLength, tolerance)
}

func mergedLengthAgainstParts(parts []geom.Polygon, candidate geom.Ring, minLength, tolerance float64) Result {
	min2 := minLength * minLength
	var result Result

	n := len(candidate)
	for i := 0; i < n; i++ {
		a1 := candidate[i]
		var a2 geom.Point
		if i+1 == n {
			a2 = candidate[0]
		} else {
			a2 = candidate[i+1]
		}
		if !a1.Exact || !a2.Exact {
			continue
		}

		ax2 := (a2.X - a1.X) * (a2.X - a1.X)
		ay2 := (a2.Y - a1.Y) * (a2.Y - a1.Y)
		if ax2+ay2 < min2 {
			continue
		}

		angle := math.Atan2(a2.Y-a1.Y, a2.X-a1.X)
		c := math.Cos(-angle)
		s := math.Sin(-angle)
		c2 := math.Cos(angle)
		s2 := math.Sin(angle)

		relA2x := a2.X - a1.X
		relA2y := a2.Y - a1.Y
		rotA2x := relA2x*c - relA2y*s

		for _, part := range parts {
			checkRingEdges(part.Outer, a1, rotA2x, c, s, c2, s2, min2, tolerance, &result)
			for _, hole := range part.Holes {
				checkRingEdges(hole, a1, rotA2x, c, s, c2, s2, min2, tolerance, &result)
			}
		}
	}
	return result
}

func checkRingEdges(ring geom.Ring, a1 geom.Point, rotA2x, c, s, c2, s2, min2, tolerance float64, result *Result) {
	m := len(ring)
	if m <= 1 {
		return
	}
	for k := 0; k < m; k++ {
		b1 := ring[k]
		var b2 geom.Point
		if k+1 == m {
			b2 = ring[0]
		} else {
			b2 = ring[k+1]
		}
		if !b1.Exact || !b2.Exact {
			continue
		}

		bx2 := (b2.X - b1.X) * (b2.X - b1.X)
		by2 := (b2.Y - b1.Y) * (b2.Y - b1.Y)
		if bx2+by2 < min2 {
			continue
		}

		relB1x := b1.X - a1.X
		relB1y := b1.Y - a1.Y
		relB2x := b2.X - a1.X
		relB2y := b2.Y - a1.Y

		rotB1x := relB1x*c - relB1y*s
		rotB1y := relB1x*s + relB1y*c
		rotB2x := relB2x*c - relB2y*s
		rotB2y := relB2x*s + relB2y*c

		if !almostEqual(rotB1y, 0, tolerance) || !almostEqual(rotB2y, 0, tolerance) {
			continue
		}

		min1 := math.Min(0, rotA2x)
		max1 := math.Max(0, rotA2x)
		min2Seg := math.Min(rotB1x, rotB2x)
		max2Seg := math.Max(rotB1x, rotB2x)

		if min2Seg >= max1 || max2Seg <= min1 {
			continue
		}

		var length, relC1x, relC2x float64
		switch {
		case almostEqual(min1, min2Seg, tolerance) && almostEqual(max1, max2Seg, tolerance):
			length = max1 - min1
			relC1x = min1
			relC2x = max1
		case min1 > min2Seg && max1 < max2Seg:
			length = max1 - min1
			relC1x = min1
			relC2x = max1
		case min2Seg > min1 && max2Seg < max1:
			length = max2Seg - min2Seg
			relC1x = min2Seg
			relC2x = max2Seg
		default:
			length = math.Max(0, math.Min(max1, max2Seg)-math.Max(min1, min2Seg))
			relC1x = math.Min(max1, max2Seg)
			relC2x = math.Max(min1, min2Seg)
		}

		if length*length > min2 {
			result.TotalLength += length
			relC1 := geom.Point{X: relC1x * c2, Y: relC1x * s2}
			relC2 := geom.Point{X: relC2x * c2, Y: relC2x * s2}
			result.Segments = append(result.Segments, Segment{
				A: geom.Point{X: relC1.X + a1.X, Y: relC1.Y + a1.Y},
				B: geom.Point{X: relC2.X + a1.X, Y: relC2.Y + a1.Y},
			})
		}
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) < tol
}
