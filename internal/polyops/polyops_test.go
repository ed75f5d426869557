package polyops

import (
	"math"
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

func square(x, y, w, h float64) geom.Ring {
	return geom.Ring{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

func TestOffsetGrowsOuterRing(t *testing.T) {
	p := geom.NewPolygon(square(0, 0, 10, 10), nil)
	grown := Offset(p, 1)
	if len(grown) != 1 {
		t.Fatalf("expected one result, got %d", len(grown))
	}
	if got := grown[0].Area(); got <= p.Area() {
		t.Fatalf("grown area %v should exceed original %v", got, p.Area())
	}
}

func TestOffsetShrinkCanVanish(t *testing.T) {
	p := geom.NewPolygon(square(0, 0, 2, 2), nil)
	shrunk := Offset(p, -5)
	if len(shrunk) != 0 {
		t.Fatalf("expected shrink past zero to vanish, got %d polygons", len(shrunk))
	}
}

func TestSimplifyPolygonReducesCollinearVertices(t *testing.T) {
	r := geom.Ring{
		{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0},
		{X: 10, Y: 10}, {X: 0, Y: 10},
	}
	p := geom.NewPolygon(r, nil)
	simplified := SimplifyPolygon(p, 1e-6)
	if len(simplified.Outer) >= len(p.Outer) {
		t.Fatalf("expected fewer vertices after simplify, got %d from %d", len(simplified.Outer), len(p.Outer))
	}
}

func TestMinkowskiSumOfSquares(t *testing.T) {
	a := geom.NewPolygon(square(0, 0, 4, 4), nil)
	b := geom.NewPolygon(square(0, 0, 2, 2), nil)
	sum := Minkowski(a, b)
	if len(sum) != 1 {
		t.Fatalf("expected one result polygon, got %d", len(sum))
	}
	want := 6.0 * 6.0
	if got := sum[0].Area(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("minkowski sum area = %v, want %v", got, want)
	}
}

func TestErodeShrinksByDirectionalReach(t *testing.T) {
	a := geom.NewPolygon(square(0, 0, 20, 20), nil)
	b := geom.NewPolygon(square(0, 0, 10, 10), nil)
	eroded := Erode(a, b)
	if len(eroded) != 1 {
		t.Fatalf("expected one result, got %d", len(eroded))
	}
	want := 10.0 * 10.0
	if got := eroded[0].Area(); math.Abs(got-want) > 1e-6 {
		t.Fatalf("eroded area = %v, want %v", got, want)
	}
}

func TestErodeVanishesWhenErodingPolygonIsLarger(t *testing.T) {
	a := geom.NewPolygon(square(0, 0, 10, 10), nil)
	b := geom.NewPolygon(square(0, 0, 50, 50), nil)
	if got := Erode(a, b); len(got) != 0 {
		t.Fatalf("expected no result when b is too large to fit, got %d", len(got))
	}
}

func TestNegatePolygonReflectsThroughOrigin(t *testing.T) {
	p := geom.NewPolygon(square(1, 1, 2, 2), nil)
	neg := NegatePolygon(p)
	for i, pt := range p.Outer {
		if pt.X != -neg.Outer[i].X || pt.Y != -neg.Outer[i].Y {
			t.Fatalf("vertex %d not negated: %v vs %v", i, pt, neg.Outer[i])
		}
	}
}

func TestUnionDropsFullyContainedPolygon(t *testing.T) {
	outer := geom.NewPolygon(square(0, 0, 10, 10), nil)
	inner := geom.NewPolygon(square(2, 2, 2, 2), nil)
	kept := Union([]geom.Polygon{outer, inner})
	if len(kept) != 1 {
		t.Fatalf("expected contained polygon to be dropped, got %d", len(kept))
	}
}

func TestDifferenceDropsFullyCoveredSubject(t *testing.T) {
	subject := geom.NewPolygon(square(2, 2, 2, 2), nil)
	clip := geom.NewPolygon(square(0, 0, 10, 10), nil)
	result := Difference(subject, []geom.Polygon{clip})
	if len(result) != 0 {
		t.Fatalf("expected subject fully covered by clip to vanish, got %d", len(result))
	}
}

func TestIntersectionDetectsOverlap(t *testing.T) {
	a := geom.NewPolygon(square(0, 0, 10, 10), nil)
	b := geom.NewPolygon(square(5, 5, 10, 10), nil)
	c := geom.NewPolygon(square(100, 100, 10, 10), nil)
	if !Intersection(a, b) {
		t.Fatal("overlapping squares should intersect")
	}
	if Intersection(a, c) {
		t.Fatal("disjoint squares should not intersect")
	}
}
