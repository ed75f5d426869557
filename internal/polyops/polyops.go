// Package polyops implements the polygon Boolean / offset / Minkowski-sum
// primitives the nesting core depends on. No third-party planar-clipping
// library appears anywhere in the reference corpus (Clipper2-style
// libraries are the norm in the original C++ tooling, but nothing
// equivalent ships for Go among the packages available here), so this
// package is a from-scratch, stdlib-only implementation that works on
// float64 coordinates directly, without fixed-point scaling.
//
// Every operation here is a best-effort, polygon-with-holes-aware
// approximation: exact robust Boolean clipping is its own large subsystem
// (that is precisely why the original project depends on Clipper). What
// this package guarantees is the CONTRACT the rest of the engine needs:
// Offset grows/shrinks rings predictably, Minkowski produces a usable
// outer boundary for NFP purposes, and failures come back as empty
// results rather than panics, matching spec behavior.
package polyops

import (
	"math"
	"sort"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// DefaultScale mirrors the original project's clipperScale fixed-point
// multiplier. No operation in this package applies it; they all work on
// float64 coordinates directly.
const DefaultScale = 10000.0

// Offset returns zero or more polygons representing P expanded (delta>0)
// or shrunk (delta<0) by delta along its outer ring, with holes shrinking
// (delta>0) or growing (delta<0) in the complementary direction. A shrink
// that collapses the polygon below a sliver threshold returns no results,
// matching the "vanishing part" case from the contract.
func Offset(p geom.Polygon, delta float64) []geom.Polygon {
	if delta == 0 {
		return []geom.Polygon{p}
	}
	outer := offsetRing(p.Outer, delta)
	if len(outer) < 3 || absArea(outer) < 1e-9 {
		return nil
	}
	if delta < 0 {
		// A shrink past the ring's inner radius turns edges around: the
		// part has vanished even though the inverted ring has area.
		for i := range outer {
			j := (i + 1) % len(outer)
			ox, oy := p.Outer[j].X-p.Outer[i].X, p.Outer[j].Y-p.Outer[i].Y
			nx, ny := outer[j].X-outer[i].X, outer[j].Y-outer[i].Y
			if ox*nx+oy*ny < 0 {
				return nil
			}
		}
	}
	holes := make([]geom.Ring, 0, len(p.Holes))
	for _, h := range p.Holes {
		oh := offsetRing(h, -delta)
		if len(oh) >= 3 && absArea(oh) > 1e-9 {
			holes = append(holes, oh)
		}
	}
	return []geom.Polygon{geom.NewPolygon(outer, holes)}
}

// offsetRing pushes every vertex out along its averaged edge normal by
// delta. This is the standard "vertex offset" approximation: correct for
// convex rings and a reasonable approximation for the mildly concave
// outlines nesting parts typically are; self-intersections that can arise
// on sharply concave rings at large deltas are not reconciled here (the
// caller is expected to keep delta small relative to local curvature, as
// spacing/curveTolerance configuration does in practice).
func offsetRing(r geom.Ring, delta float64) geom.Ring {
	n := len(r)
	if n < 3 {
		return nil
	}
	out := make(geom.Ring, n)
	for i := 0; i < n; i++ {
		prev := r[(i-1+n)%n]
		cur := r[i]
		next := r[(i+1)%n]

		n1 := edgeNormal(prev, cur)
		n2 := edgeNormal(cur, next)
		nx := n1.X + n2.X
		ny := n1.Y + n2.Y
		norm := math.Hypot(nx, ny)
		if norm < 1e-12 {
			out[i] = cur
			continue
		}
		nx /= norm
		ny /= norm
		// Scale to counteract the half-angle shortening of the averaged
		// normal, same correction the original offsetting code applies.
		cosHalf := (n1.X*nx + n1.Y*ny)
		scale := delta
		if cosHalf > 1e-6 {
			scale = delta / cosHalf
		}
		out[i] = geom.Point{X: cur.X + nx*scale, Y: cur.Y + ny*scale}
	}
	return out
}

func edgeNormal(a, b geom.Point) geom.Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return geom.Point{}
	}
	// Outward normal for a CCW ring points to the right of travel.
	return geom.Point{X: dy / length, Y: -dx / length}
}

func absArea(r geom.Ring) float64 {
	a := geom.SignedArea(r)
	if a < 0 {
		return -a
	}
	return a
}

// SimplifyPolygon returns a copy of P with vertices removed where doing
// so changes the boundary by no more than ε (Douglas-Peucker), preserving
// shape within tolerance.
func SimplifyPolygon(p geom.Polygon, eps float64) geom.Polygon {
	out := geom.Polygon{
		Outer:    simplifyRing(p.Outer, eps),
		ID:       p.ID,
		Source:   p.Source,
		Rotation: p.Rotation,
		Offset:   p.Offset,
	}
	for _, h := range p.Holes {
		out.Holes = append(out.Holes, simplifyRing(h, eps))
	}
	return out
}

func simplifyRing(r geom.Ring, eps float64) geom.Ring {
	n := len(r)
	if n < 4 {
		return append(geom.Ring(nil), r...)
	}
	keep := make([]bool, n)
	keep[0] = true
	douglasPeucker(r, 0, n-1, eps, keep)
	out := make(geom.Ring, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, r[i])
		}
	}
	if len(out) < 3 {
		return append(geom.Ring(nil), r...)
	}
	return out
}

func douglasPeucker(r geom.Ring, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		keep[end] = true
		return
	}
	maxDist := -1.0
	maxIdx := start
	a, b := r[start], r[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(r[i], a, b)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist > eps {
		douglasPeucker(r, start, maxIdx, eps, keep)
		douglasPeucker(r, maxIdx, end, eps, keep)
	} else {
		keep[end] = true
	}
}

func perpendicularDistance(p, a, b geom.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs(dy*p.X-dx*p.Y+b.X*a.Y-b.Y*a.X) / length
}

// sortPointsGrid orders points by Y, then X, for deterministic
// hull-style processing.
func sortPointsGrid(pts []geom.Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}
