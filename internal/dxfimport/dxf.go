// Package dxfimport ingests DXF part outlines into geom.Polygon, adapted
// from the teacher's internal/importer/dxf.go: LWPOLYLINE/CIRCLE entities
// become closed outlines directly, loose LINE/ARC entities are chained
// into closed outlines, and nested outlines become holes instead of
// separate parts (the teacher's importer has no hole concept; this
// engine's polygons do).
package dxfimport

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// ImportResult mirrors the teacher's ImportResult shape: parts recovered
// plus any non-fatal warnings and fatal errors encountered.
type ImportResult struct {
	Parts    []geom.Polygon
	Warnings []string
	Errors   []string
}

type segment struct {
	start geom.Point
	end   geom.Point
}

// ImportDXF reads path and returns one geom.Polygon per closed shape,
// with outlines fully contained in a larger outline nested as holes of
// it rather than returned as separate parts.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var rings []geom.Ring
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			ring := lwPolylineToRing(e)
			if len(ring) >= 3 {
				rings = append(rings, ring)
			} else {
				result.Warnings = append(result.Warnings, "skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			rings = append(rings, circleToRing(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			if len(pts) >= 2 {
				segments = append(segments, pointsToSegments(pts)...)
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: geom.Point{X: e.Start[0], Y: e.Start[1]},
				end:   geom.Point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Unsupported entity types are silently skipped.
		}
	}

	for _, chain := range chainSegments(segments, 0.01) {
		if len(chain) >= 3 {
			rings = append(rings, chain)
		}
	}

	if len(rings) == 0 {
		result.Errors = append(result.Errors, "no closed shapes found in DXF file")
		return result
	}

	rings = dropDegenerate(rings, &result.Warnings)
	for _, polygon := range nestRingsIntoPolygons(rings) {
		min, _ := polygon.BoundingBox()
		result.Parts = append(result.Parts, geom.Translate(-min.X, -min.Y).ApplyPolygon(polygon))
	}
	return result
}

func dropDegenerate(rings []geom.Ring, warnings *[]string) []geom.Ring {
	var kept []geom.Ring
	for _, r := range rings {
		min, max := geom.Polygon{Outer: r}.BoundingBox()
		width, height := max.X-min.X, max.Y-min.Y
		if width < 0.01 || height < 0.01 {
			*warnings = append(*warnings, fmt.Sprintf("skipped degenerate shape (%.2f x %.2f)", width, height))
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// nestRingsIntoPolygons groups rings into polygons: a ring fully inside
// another, larger ring becomes one of that ring's holes; everything else
// is a top-level part outline. Rings are processed largest-first so an
// outer ring is always resolved before the holes it contains.
func nestRingsIntoPolygons(rings []geom.Ring) []geom.Polygon {
	sort.Slice(rings, func(i, j int) bool {
		return math.Abs(geom.SignedArea(rings[i])) > math.Abs(geom.SignedArea(rings[j]))
	})

	consumed := make([]bool, len(rings))
	var polygons []geom.Polygon
	for i, outer := range rings {
		if consumed[i] {
			continue
		}
		var holes []geom.Ring
		for j := i + 1; j < len(rings); j++ {
			if consumed[j] {
				continue
			}
			if ringFullyInside(rings[j], outer) {
				holes = append(holes, rings[j])
				consumed[j] = true
			}
		}
		polygons = append(polygons, geom.NewPolygon(outer, holes))
	}
	return polygons
}

func ringFullyInside(inner, outer geom.Ring) bool {
	for _, p := range inner {
		if geom.PointInPolygon(p, geom.Polygon{Outer: outer}, 1e-9) == geom.Outside {
			return false
		}
	}
	return true
}

func lwPolylineToRing(lw *entity.LwPolyline) geom.Ring {
	var ring geom.Ring
	for i := 0; i < len(lw.Vertices); i++ {
		v := lw.Vertices[i]
		current := geom.Point{X: v[0], Y: v[1], Exact: true}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}

		if math.Abs(bulge) > 1e-9 {
			nextIdx := (i + 1) % len(lw.Vertices)
			next := geom.Point{X: lw.Vertices[nextIdx][0], Y: lw.Vertices[nextIdx][1]}
			arcPts := bulgeArcPoints(current, next, bulge, 32)
			ring = append(ring, arcPts[:len(arcPts)-1]...)
		} else {
			ring = append(ring, current)
		}
	}
	return ring
}

// bulgeArcPoints generates points along an arc defined by two endpoints
// and a DXF bulge factor (tangent of 1/4 the included angle).
func bulgeArcPoints(p1, p2 geom.Point, bulge float64, numSegments int) geom.Ring {
	mx := (p1.X + p2.X) / 2
	my := (p1.Y + p2.Y) / 2
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chordLen := math.Sqrt(dx*dx + dy*dy)
	if chordLen < 1e-9 {
		return geom.Ring{p1, p2}
	}

	sagitta := math.Abs(bulge) * chordLen / 2
	radius := (chordLen*chordLen/(4*sagitta) + sagitta) / 2

	perpX := -dy / chordLen
	perpY := dx / chordLen
	dist := radius - sagitta
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	cx := mx + perpX*dist
	cy := my + perpY*dist

	startAngle := math.Atan2(p1.Y-cy, p1.X-cx)
	endAngle := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 {
		if endAngle > startAngle {
			endAngle -= 2 * math.Pi
		}
	} else {
		if endAngle < startAngle {
			endAngle += 2 * math.Pi
		}
	}

	pts := make(geom.Ring, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startAngle + t*(endAngle-startAngle)
		pts[i] = geom.Point{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
	}
	return pts
}

func circleToRing(c *entity.Circle, numSegments int) geom.Ring {
	ring := make(geom.Ring, numSegments)
	cx, cy, r := c.Center[0], c.Center[1], c.Radius
	for i := 0; i < numSegments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(numSegments)
		ring[i] = geom.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return ring
}

func arcToPoints(a *entity.Arc, numSegments int) []geom.Point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]geom.Point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = geom.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)}
	}
	return pts
}

func pointsToSegments(pts []geom.Point) []segment {
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects individual LINE/ARC segments into closed rings.
// tolerance is the maximum distance between endpoints considered
// connected.
func chainSegments(segs []segment, tolerance float64) []geom.Ring {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var rings []geom.Ring

	for {
		startIdx := -1
		for i, u := range used {
			if !u {
				startIdx = i
				break
			}
		}
		if startIdx == -1 {
			break
		}

		chain := []geom.Point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		changed := true
		for changed {
			changed = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
					used[i] = true
					changed = true
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
					used[i] = true
					changed = true
					break
				}
			}
		}

		if len(chain) >= 3 && pointsClose(chain[0], chain[len(chain)-1], tolerance) {
			chain = chain[:len(chain)-1]
		}
		if len(chain) >= 3 {
			rings = append(rings, geom.Ring(chain))
		}
	}

	sort.Slice(rings, func(i, j int) bool {
		return math.Abs(geom.SignedArea(rings[i])) > math.Abs(geom.SignedArea(rings[j]))
	})
	return rings
}

func pointsClose(a, b geom.Point, tolerance float64) bool {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx+dy*dy) <= tolerance
}

// normalizeRing translates the ring so its bounding box starts at (0,0).
func normalizeRing(r geom.Ring) geom.Ring {
	if len(r) == 0 {
		return r
	}
	min, _ := geom.Polygon{Outer: r}.BoundingBox()
	return geom.Translate(-min.X, -min.Y).ApplyRing(r)
}
