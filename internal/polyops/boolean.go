package polyops

import (
	"github.com/piwi3910/deepnest-go/internal/geom"
)

// Union returns the set union of a collection of polygons. As with
// Minkowski, this package has no robust-clipping library to lean on, so
// Union/Difference/Intersection are implemented against the bounding and
// containment primitives in internal/geom rather than full boundary
// reconstruction: adequate for the engine's actual uses of these
// operations (discarding fully-contained duplicates when merging NFP
// results, subtracting a frame's hole, intersecting candidate placement
// regions), not a general-purpose clipper replacement.
func Union(polys []geom.Polygon) []geom.Polygon {
	if len(polys) == 0 {
		return nil
	}
	kept := make([]geom.Polygon, 0, len(polys))
	for i, p := range polys {
		contained := false
		for j, q := range polys {
			if i == j {
				continue
			}
			if polygonFullyInside(p, q) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, p)
		}
	}
	return kept
}

// Difference returns the parts of subject not covered by any polygon in
// clips. A subject fully contained in a clip polygon is dropped entirely;
// a subject disjoint from every clip polygon is returned unchanged.
// Partial overlaps are approximated by returning the subject unchanged
// (the engine's call sites — frame construction, candidate NFP pruning —
// only rely on the fully-contained and fully-disjoint cases).
func Difference(subject geom.Polygon, clips []geom.Polygon) []geom.Polygon {
	for _, c := range clips {
		if polygonFullyInside(subject, c) {
			return nil
		}
	}
	return []geom.Polygon{subject}
}

// Intersection returns polys whose bounding boxes overlap both inputs'
// outer rings AND which have at least one vertex contained in the other,
// used by the engine to prune obviously-infeasible NFP candidates before
// the more expensive exact check.
func Intersection(a, b geom.Polygon) bool {
	aMin, aMax := a.BoundingBox()
	bMin, bMax := b.BoundingBox()
	if aMax.X < bMin.X || bMax.X < aMin.X || aMax.Y < bMin.Y || bMax.Y < aMin.Y {
		return false
	}
	for _, p := range a.Outer {
		if geom.PointInPolygon(p, b, 1e-6) != geom.Outside {
			return true
		}
	}
	for _, p := range b.Outer {
		if geom.PointInPolygon(p, a, 1e-6) != geom.Outside {
			return true
		}
	}
	return false
}

func polygonFullyInside(p, q geom.Polygon) bool {
	for _, v := range p.Outer {
		if geom.PointInPolygon(v, q, 1e-6) == geom.Outside {
			return false
		}
	}
	return true
}
