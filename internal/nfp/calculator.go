package nfp

import (
	"sync"

	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/polyops"
)

// Calculator computes outer and inner NFPs for pairs of polygons, caching
// results and serializing all calls into the underlying polygon library
// through a single geometry lock — the library is assumed non-thread-safe,
// per the concurrency model, and this lock is deliberately a smaller
// critical section than any cache operation so it cannot starve the
// worker pool.
type Calculator struct {
	cache        *Cache
	geometryLock *sync.Mutex
}

// NewCalculator builds a Calculator over the given cache, sharing the
// geometry lock across every Calculator that wraps the same cache so
// concurrent calculators still serialize correctly into the (single)
// underlying geometry library.
func NewCalculator(cache *Cache) *Calculator {
	return &Calculator{cache: cache, geometryLock: &geometryLock}
}

// geometryLock is the one lock every Calculator serializes its polyops
// calls through.
var geometryLock sync.Mutex

// Cache exposes the calculator's backing cache, e.g. for getCacheStats
// passthroughs at the solver layer.
func (c *Calculator) Cache() *Cache { return c.cache }

// OuterNFP returns the positions of B's reference point (B.Outer[0]) such
// that B touches A without overlapping it — the Minkowski sum of A and
// the negation of B. Containment against a container boundary is a
// separate operation; see InnerNFP, which routes through Frame instead
// of this method.
func (c *Calculator) OuterNFP(a, b geom.Polygon) []geom.Polygon {
	key := NewKey(a.ID, b.ID, a.Rotation, b.Rotation, false)
	if v, ok := c.cache.Find(key); ok {
		return v
	}

	c.geometryLock.Lock()
	result := polyops.Minkowski(a, polyops.NegatePolygon(b))
	c.geometryLock.Unlock()

	result = dropDegenerate(shiftToReference(result, b))
	c.cache.Insert(key, result)
	return result
}

// InnerNFP returns 0+ polygons describing positions of B's reference
// point such that B lies fully inside A (including avoiding A's holes).
// Empty means B does not fit inside A at this rotation pair.
//
// Computed via the frame trick (spec.md §4.3): Frame(a) re-expresses A's
// own outline as the hole of a padded rectangle, so fitting B inside A
// reduces to polyops.Erode(A, B) — the Minkowski erosion of A by B,
// exact for convex A rather than a single worst-case bounding-circle
// radius. A's own holes are obstacles B must clear from the outside the
// same way OuterNFP clears any other obstacle: each hole's Minkowski
// dilation by -B is the keepout region around it, subtracted from the
// fit region.
func (c *Calculator) InnerNFP(a, b geom.Polygon) []geom.Polygon {
	key := NewKey(a.ID, b.ID, a.Rotation, b.Rotation, true)
	if v, ok := c.cache.Find(key); ok {
		return v
	}

	c.geometryLock.Lock()
	frame := Frame(a)
	container := geom.NewPolygon(frame.Holes[0], nil)
	fit := polyops.Erode(container, b)

	negB := polyops.NegatePolygon(b)
	var keepouts []geom.Polygon
	for _, h := range a.Holes {
		keepouts = append(keepouts, polyops.Minkowski(geom.NewPolygon(h, nil), negB)...)
	}
	keepouts = shiftToReference(keepouts, b)

	var result []geom.Polygon
	for _, region := range fit {
		result = append(result, polyops.Difference(region, keepouts)...)
	}
	c.geometryLock.Unlock()

	result = dropDegenerate(result)
	c.cache.Insert(key, result)
	return result
}

// Frame returns a rectangle enclosing A's bounding box expanded 10% on
// every side, with A inserted as a hole.
func Frame(a geom.Polygon) geom.Polygon {
	min, max := a.BoundingBox()
	w := max.X - min.X
	h := max.Y - min.Y
	padX := w * 0.1
	padY := h * 0.1
	if padX == 0 {
		padX = 1
	}
	if padY == 0 {
		padY = 1
	}
	outer := geom.Ring{
		{X: min.X - padX, Y: min.Y - padY},
		{X: max.X + padX, Y: min.Y - padY},
		{X: max.X + padX, Y: max.Y + padY},
		{X: min.X - padX, Y: max.Y + padY},
	}
	hole := append(geom.Ring(nil), a.Outer...)
	return geom.NewPolygon(outer, []geom.Ring{hole})
}

// shiftToReference moves Minkowski(X, -B) results, which are translations
// of B's origin, to positions of B's reference point B.Outer[0].
func shiftToReference(polys []geom.Polygon, b geom.Polygon) []geom.Polygon {
	if len(b.Outer) == 0 {
		return polys
	}
	shift := geom.Translate(b.Outer[0].X, b.Outer[0].Y)
	for i := range polys {
		polys[i] = shift.ApplyPolygon(polys[i])
	}
	return polys
}

func dropDegenerate(polys []geom.Polygon) []geom.Polygon {
	out := make([]geom.Polygon, 0, len(polys))
	for _, p := range polys {
		if len(p.Outer) >= 3 && p.Area() > 1e-9 {
			out = append(out, p)
		}
	}
	return out
}
