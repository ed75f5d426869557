package polyops

import (
	"math"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// Minkowski returns A ⊕ B as a collection of polygons. Callers negate B's
// vertices (about its reference point) before calling this to compute NFP
// translations, per the contract in the component design.
//
// The outer boundary is built by the classical edge-merge convolution:
// starting from the sum of the two rings' lowest vertices, A's and B's
// edge vectors are walked in ring order and merged by angle. This is
// exact when both rings are convex, which covers convex parts, and is an
// approximation when either ring is concave. Holes are not convolved:
// OuterNFP ignores them, and InnerNFP treats the container's holes itself.
func Minkowski(a, b geom.Polygon) []geom.Polygon {
	ring := minkowskiSum(a.Outer, b.Outer)
	if len(ring) < 3 {
		return nil
	}
	return []geom.Polygon{geom.NewPolygon(ring, nil)}
}

func minkowskiSum(a, b geom.Ring) geom.Ring {
	if len(a) < 3 || len(b) < 3 {
		return nil
	}
	aStart := lowestIndex(a)
	bStart := lowestIndex(b)

	aEdges := edgeVectors(a, aStart)
	bEdges := edgeVectors(b, bStart)

	result := make(geom.Ring, 0, len(a)+len(b))
	cur := geom.Point{X: a[aStart].X + b[bStart].X, Y: a[aStart].Y + b[bStart].Y}
	result = append(result, cur)

	i, j := 0, 0
	for i < len(aEdges) || j < len(bEdges) {
		var useA bool
		switch {
		case i >= len(aEdges):
			useA = false
		case j >= len(bEdges):
			useA = true
		default:
			useA = aEdges[i].angle <= bEdges[j].angle
		}
		if useA {
			cur = geom.Point{X: cur.X + aEdges[i].dx, Y: cur.Y + aEdges[i].dy}
			i++
		} else {
			cur = geom.Point{X: cur.X + bEdges[j].dx, Y: cur.Y + bEdges[j].dy}
			j++
		}
		result = append(result, cur)
	}
	// Closing edge returns to the starting point; drop the duplicate.
	if len(result) > 1 {
		result = result[:len(result)-1]
	}
	return result
}

type edgeVector struct {
	dx, dy, angle float64
}

func edgeVectors(r geom.Ring, start int) []edgeVector {
	n := len(r)
	edges := make([]edgeVector, n)
	for k := 0; k < n; k++ {
		i := (start + k) % n
		j := (i + 1) % n
		dx := r[j].X - r[i].X
		dy := r[j].Y - r[i].Y
		// Measured in [0, 2π): from the lowest vertex a CCW convex ring's
		// edge angles then increase monotonically, as the merge needs.
		angle := math.Atan2(dy, dx)
		if angle < 0 {
			angle += 2 * math.Pi
		}
		edges[k] = edgeVector{dx: dx, dy: dy, angle: angle}
	}
	return edges
}

func lowestIndex(r geom.Ring) int {
	idx := 0
	for i, p := range r {
		if p.Y < r[idx].Y || (p.Y == r[idx].Y && p.X < r[idx].X) {
			idx = i
		}
	}
	return idx
}

// Erode returns P's outer boundary shrunk inward by B's directional
// reach from its own reference vertex (B.Outer[0]): the Minkowski
// erosion P⊖B, the containment counterpart to Minkowski's dilation.
// Rather than one uniform radius, each edge of P is pushed inward by
// B's support in that edge's outward normal direction (the maximum
// extent B reaches from its reference vertex toward that edge), then
// consecutive shifted edges are re-intersected — exact for convex P and
// B, the same fairness tradeoff Offset documents for mildly concave
// rings. If B does not fit from some direction the shifted edges cross
// past each other and the ring's winding flips or grows past P's own
// area; that case returns no polygons, matching Offset's vanishing-part
// contract.
func Erode(p, b geom.Polygon) []geom.Polygon {
	ring := erodeRing(p.Outer, b)
	if len(ring) < 3 {
		return nil
	}
	area := geom.SignedArea(ring)
	if area <= 1e-9 || area > geom.SignedArea(p.Outer) {
		return nil
	}
	return []geom.Polygon{geom.NewPolygon(ring, nil)}
}

func erodeRing(ring geom.Ring, b geom.Polygon) geom.Ring {
	n := len(ring)
	if n < 3 || len(b.Outer) == 0 {
		return nil
	}
	ref := b.Outer[0]

	type edge struct{ p1, p2 geom.Point }
	shifted := make([]edge, n)
	for i := 0; i < n; i++ {
		cur, next := ring[i], ring[(i+1)%n]
		dx, dy := next.X-cur.X, next.Y-cur.Y
		length := math.Hypot(dx, dy)
		if length < 1e-12 {
			shifted[i] = edge{cur, next}
			continue
		}
		// Outward normal for a CCW ring.
		mx, my := dy/length, -dx/length

		reach := 0.0
		for _, v := range b.Outer {
			d := (v.X-ref.X)*mx + (v.Y-ref.Y)*my
			if d > reach {
				reach = d
			}
		}
		sx, sy := -mx*reach, -my*reach
		shifted[i] = edge{
			p1: geom.Point{X: cur.X + sx, Y: cur.Y + sy},
			p2: geom.Point{X: next.X + sx, Y: next.Y + sy},
		}
	}

	out := make(geom.Ring, n)
	for i := 0; i < n; i++ {
		prev, cur := shifted[(i-1+n)%n], shifted[i]
		pt, ok := geom.SegmentIntersect(prev.p1, prev.p2, cur.p1, cur.p2, geom.ModeLines, 1e-9)
		if !ok {
			pt = cur.p1
		}
		out[i] = pt
	}
	return out
}

// NegateRing returns a copy of r reflected through the origin, used to
// convert B into -B before computing an NFP via Minkowski(A, -B).
func NegateRing(r geom.Ring) geom.Ring {
	out := make(geom.Ring, len(r))
	for i, p := range r {
		out[i] = geom.Point{X: -p.X, Y: -p.Y, Exact: p.Exact}
	}
	return out
}

// NegatePolygon negates every ring of p (outer and holes).
func NegatePolygon(p geom.Polygon) geom.Polygon {
	q := geom.Polygon{Outer: NegateRing(p.Outer)}
	for _, h := range p.Holes {
		q.Holes = append(q.Holes, NegateRing(h))
	}
	return q
}
