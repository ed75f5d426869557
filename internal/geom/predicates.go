package geom

import "math"

// Orientation is the three-valued result of the cross-product sign test.
type Orientation int

const (
	Clockwise Orientation = iota - 1
	Collinear
	CounterClockwise
)

// PointOrientation returns the orientation of the turn p1->p2->p3, within
// tolerance tol (|cross| <= tol is Collinear).
func PointOrientation(p1, p2, p3 Point, tol float64) Orientation {
	cross := (p2.Y-p1.Y)*(p3.X-p2.X) - (p2.X-p1.X)*(p3.Y-p2.Y)
	if math.Abs(cross) <= tol {
		return Collinear
	}
	if cross > 0 {
		return Clockwise
	}
	return CounterClockwise
}

// Containment is the three-valued result of PointInRing: a point may be
// strictly Inside, strictly Outside, or OnBoundary (including coincident
// with a vertex). Callers that need a binary answer must decide how to
// treat OnBoundary; NFP consumers treat it as feasible.
type Containment int

const (
	Outside Containment = iota
	Inside
	OnBoundary
)

// PointInRing implements the standard ray-casting point-in-polygon test,
// with an exact boundary check layered on top so coincident/collinear
// points are reported as OnBoundary rather than leaking into the parity
// computation as noise.
func PointInRing(pt Point, r Ring, tol float64) Containment {
	n := len(r)
	if n < 3 {
		return Outside
	}
	for i := 0; i < n; i++ {
		a := r[i]
		b := r[(i+1)%n]
		if PointOnSegment(pt, a, b, tol, true) {
			return OnBoundary
		}
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := r[i], r[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xIntersect := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xIntersect {
				inside = !inside
			}
		}
	}
	if inside {
		return Inside
	}
	return Outside
}

// PointInPolygon extends PointInRing with hole subtraction: a point
// inside a hole is Outside the polygon.
func PointInPolygon(pt Point, p Polygon, tol float64) Containment {
	c := PointInRing(pt, p.Outer, tol)
	if c != Inside {
		return c
	}
	for _, h := range p.Holes {
		hc := PointInRing(pt, h, tol)
		if hc == Inside {
			return Outside
		}
		if hc == OnBoundary {
			return OnBoundary
		}
	}
	return Inside
}

// PointOnSegment reports whether pt lies on segment a-b within tol.
// When includeEndpoints is false, points coincident with a or b are not
// considered "on segment" (used by merge-length style edge logic);
// PointInRing passes true so vertex-coincident points count as boundary.
func PointOnSegment(pt, a, b Point, tol float64, includeEndpoints bool) bool {
	if !includeEndpoints {
		if pt.AlmostEqual(a, tol) || pt.AlmostEqual(b, tol) {
			return false
		}
	} else {
		if pt.AlmostEqual(a, tol) || pt.AlmostEqual(b, tol) {
			return true
		}
	}
	cross := (b.Y-a.Y)*(pt.X-a.X) - (b.X-a.X)*(pt.Y-a.Y)
	if math.Abs(cross) > tol*math.Hypot(b.X-a.X, b.Y-a.Y) {
		return false
	}
	dot := (pt.X-a.X)*(b.X-a.X) + (pt.Y-a.Y)*(b.Y-a.Y)
	if dot < 0 {
		return false
	}
	lenSq := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
	return dot <= lenSq
}

// IntersectMode selects whether SegmentIntersect treats its inputs as
// bounded segments or as infinite lines through those two points.
type IntersectMode int

const (
	ModeSegments IntersectMode = iota
	ModeLines
)

// SegmentIntersect returns the intersection point of a1-a2 and b1-b2
// (as segments or as infinite lines, per mode) and whether one exists.
// Parallel (including collinear) inputs report no intersection; callers
// needing overlap-of-collinear-segments behavior (merge-length) handle
// that case themselves since it is not a single point.
func SegmentIntersect(a1, a2, b1, b2 Point, mode IntersectMode, tol float64) (Point, bool) {
	d := (a2.X-a1.X)*(b2.Y-b1.Y) - (a2.Y-a1.Y)*(b2.X-b1.X)
	if math.Abs(d) <= tol {
		return Point{}, false
	}
	t := ((b1.X-a1.X)*(b2.Y-b1.Y) - (b1.Y-a1.Y)*(b2.X-b1.X)) / d
	u := ((b1.X-a1.X)*(a2.Y-a1.Y) - (b1.Y-a1.Y)*(a2.X-a1.X)) / d
	if mode == ModeSegments {
		if t < -tol || t > 1+tol || u < -tol || u > 1+tol {
			return Point{}, false
		}
	}
	return Point{X: a1.X + t*(a2.X-a1.X), Y: a1.Y + t*(a2.Y-a1.Y)}, true
}
