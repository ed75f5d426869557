// Package geom implements the geometry primitives of the nesting engine:
// points, polygons with holes, bounding boxes, orientation and
// point-in-polygon predicates, segment intersection, convex hull, and
// affine transforms. Every predicate here shares a single tolerance,
// matching curveTolerance from the engine configuration.
package geom

import "math"

// Point is a 2D coordinate. Exact marks whether the vertex came from
// source input rather than from curve flattening or a Boolean operation;
// merge-length detection only considers edges whose endpoints are both
// Exact.
type Point struct {
	X, Y  float64
	Exact bool
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// AlmostEqual reports whether p and q are within tol of each other on
// both axes.
func (p Point) AlmostEqual(q Point, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol && math.Abs(p.Y-q.Y) <= tol
}

// almostEqual compares two scalars within a tolerance.
func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
