package merge

import (
	"math"
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

func exactRing(pts [][2]float64) geom.Ring {
	r := make(geom.Ring, len(pts))
	for i, p := range pts {
		r[i] = geom.Point{X: p[0], Y: p[1], Exact: true}
	}
	return r
}

func TestCalculateMergedLengthSharedEdge(t *testing.T) {
	// Two 10x10 squares sharing the edge x=10, y in [0,10].
	placed := []geom.Polygon{
		{Outer: exactRing([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})},
	}
	candidate := geom.Polygon{
		Outer: exactRing([][2]float64{{10, 0}, {20, 0}, {20, 10}, {10, 10}}),
	}

	result := CalculateMergedLength(placed, candidate, 1e-6, 1e-6)
	if math.Abs(result.TotalLength-10) > 1e-6 {
		t.Fatalf("merged length = %v, want 10", result.TotalLength)
	}
	if len(result.Segments) == 0 {
		t.Fatal("expected at least one merge segment")
	}
}

func TestCalculateMergedLengthSkipsNonExactEdges(t *testing.T) {
	placedRing := exactRing([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})
	placedRing[1].Exact = false
	placed := []geom.Polygon{{Outer: placedRing}}

	candidate := geom.Polygon{
		Outer: exactRing([][2]float64{{10, 0}, {20, 0}, {20, 10}, {10, 10}}),
	}
	result := CalculateMergedLength(placed, candidate, 1e-6, 1e-6)
	if result.TotalLength != 0 {
		t.Fatalf("expected no merge across non-exact edge, got %v", result.TotalLength)
	}
}

func TestCalculateMergedLengthNoOverlapWhenDisjoint(t *testing.T) {
	placed := []geom.Polygon{
		{Outer: exactRing([][2]float64{{0, 0}, {10, 0}, {10, 10}, {0, 10}})},
	}
	candidate := geom.Polygon{
		Outer: exactRing([][2]float64{{100, 100}, {110, 100}, {110, 110}, {100, 110}}),
	}
	result := CalculateMergedLength(placed, candidate, 1e-6, 1e-6)
	if result.TotalLength != 0 {
		t.Fatalf("expected zero merge length for disjoint polygons, got %v", result.TotalLength)
	}
}

func TestCalculateMergedLengthRecursesIntoHoles(t *testing.T) {
	outer := exactRing([][2]float64{{0, 0}, {20, 0}, {20, 20}, {0, 20}})
	hole := exactRing([][2]float64{{5, 5}, {5, 15}, {15, 15}, {15, 5}})
	placed := []geom.Polygon{{Outer: outer, Holes: []geom.Ring{hole}}}

	candidate := geom.Polygon{
		Outer: exactRing([][2]float64{{15, 5}, {25, 5}, {25, 15}, {15, 15}}),
	}
	result := CalculateMergedLength(placed, candidate, 1e-6, 1e-6)
	if result.TotalLength <= 0 {
		t.Fatal("expected merge length contribution from hole edge")
	}
}
