package geom

import "sort"

// ConvexHull computes the convex hull of a set of points using a Graham
// scan. Collinear points (within tol of the hull boundary) are dropped.
// Returns a CCW ring; fewer than 3 distinct points yields the input
// points unchanged.
func ConvexHull(points []Point, tol float64) Ring {
	if len(points) < 3 {
		return append(Ring(nil), points...)
	}

	pts := append([]Point(nil), points...)
	// Pick the lowest (then leftmost) point as pivot.
	pivotIdx := 0
	for i, p := range pts {
		if p.Y < pts[pivotIdx].Y || (p.Y == pts[pivotIdx].Y && p.X < pts[pivotIdx].X) {
			pivotIdx = i
		}
	}
	pts[0], pts[pivotIdx] = pts[pivotIdx], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		oi := PointOrientation(pivot, rest[i], rest[j], tol)
		if oi == Collinear {
			di := distSq(pivot, rest[i])
			dj := distSq(pivot, rest[j])
			return di < dj
		}
		// CounterClockwise means rest[i] comes before rest[j] in the
		// polar sweep (PointOrientation's cross term is negative for
		// CounterClockwise and positive for Clockwise).
		return oi == CounterClockwise
	})

	hull := []Point{pivot}
	for _, p := range rest {
		for len(hull) >= 2 && PointOrientation(hull[len(hull)-2], hull[len(hull)-1], p, tol) != CounterClockwise {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return Ring(hull)
}

func distSq(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// HullArea is a convenience used by the convex-hull placement strategy:
// the area enclosed by the convex hull of points.
func HullArea(points []Point, tol float64) float64 {
	hull := ConvexHull(points, tol)
	return absf(SignedArea(hull))
}
