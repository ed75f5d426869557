package dxfimport

import (
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

func TestImportDXFMissingFileReturnsError(t *testing.T) {
	result := ImportDXF("/nonexistent/path/to/file.dxf")
	if len(result.Errors) == 0 {
		t.Fatal("expected an error for a missing DXF file")
	}
}

func TestChainSegmentsClosesASquare(t *testing.T) {
	segs := []segment{
		{start: geom.Point{X: 0, Y: 0}, end: geom.Point{X: 10, Y: 0}},
		{start: geom.Point{X: 10, Y: 0}, end: geom.Point{X: 10, Y: 10}},
		{start: geom.Point{X: 10, Y: 10}, end: geom.Point{X: 0, Y: 10}},
		{start: geom.Point{X: 0, Y: 10}, end: geom.Point{X: 0, Y: 0}},
	}
	rings := chainSegments(segs, 0.01)
	if len(rings) != 1 {
		t.Fatalf("expected one closed ring, got %d", len(rings))
	}
	if len(rings[0]) != 4 {
		t.Fatalf("expected 4 vertices after dropping the duplicate closing point, got %d", len(rings[0]))
	}
}

func TestChainSegmentsLeavesUnclosedChainOpen(t *testing.T) {
	segs := []segment{
		{start: geom.Point{X: 0, Y: 0}, end: geom.Point{X: 10, Y: 0}},
		{start: geom.Point{X: 10, Y: 0}, end: geom.Point{X: 10, Y: 10}},
	}
	rings := chainSegments(segs, 0.01)
	if len(rings) != 0 {
		t.Fatalf("expected no closed rings from an open chain, got %d", len(rings))
	}
}

func squareRing(x, y, size float64) geom.Ring {
	return geom.Ring{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	}
}

func TestNestRingsIntoPolygonsNestsInnerAsHole(t *testing.T) {
	outer := squareRing(0, 0, 100)
	inner := squareRing(40, 40, 20)
	polygons := nestRingsIntoPolygons([]geom.Ring{outer, inner})
	if len(polygons) != 1 {
		t.Fatalf("expected the inner ring to be absorbed as a hole, got %d top-level polygons", len(polygons))
	}
	if len(polygons[0].Holes) != 1 {
		t.Fatalf("expected 1 hole, got %d", len(polygons[0].Holes))
	}
}

func TestNestRingsIntoPolygonsKeepsDisjointRingsSeparate(t *testing.T) {
	a := squareRing(0, 0, 10)
	b := squareRing(100, 100, 10)
	polygons := nestRingsIntoPolygons([]geom.Ring{a, b})
	if len(polygons) != 2 {
		t.Fatalf("expected 2 disjoint top-level polygons, got %d", len(polygons))
	}
}

func TestRingFullyInsideDetectsContainment(t *testing.T) {
	outer := squareRing(0, 0, 100)
	inner := squareRing(10, 10, 5)
	if !ringFullyInside(inner, outer) {
		t.Fatal("expected inner ring to be detected as fully inside outer")
	}
	outside := squareRing(200, 200, 5)
	if ringFullyInside(outside, outer) {
		t.Fatal("expected disjoint ring to not be fully inside")
	}
}

func TestNormalizeRingTranslatesToOrigin(t *testing.T) {
	r := squareRing(50, 50, 10)
	normalized := normalizeRing(r)
	min, _ := geom.Polygon{Outer: normalized}.BoundingBox()
	if min.X != 0 || min.Y != 0 {
		t.Fatalf("expected bounding box to start at origin, got (%v,%v)", min.X, min.Y)
	}
}
