// Package placement implements the greedy placement worker: given a
// chromosome's part order and rotations, it lays parts on sheets one at a
// time using inner/outer NFPs to find feasible candidate positions, picks
// the best per the configured strategy, and scores the outcome, adapted
// from the teacher's guillotinePacker.insert / packSheet shape for
// irregular polygons driven by NFPs instead of free-rectangle search.
package placement

import "github.com/piwi3910/deepnest-go/internal/geom"

// Strategy selects how a candidate position is scored; lower scores win.
type Strategy int

const (
	// Gravity is the default: biases packing toward one corner.
	Gravity Strategy = iota
	BoundingBox
	ConvexHull
)

// ParseStrategy canonicalizes the configured strategy name, accepting
// "box" as an alias for "boundingbox" per the placement-strategy
// string-aliasing decision.
func ParseStrategy(name string) Strategy {
	switch name {
	case "box", "boundingbox":
		return BoundingBox
	case "convexhull", "hull":
		return ConvexHull
	default:
		return Gravity
	}
}

// String renders the canonical name of a strategy.
func (s Strategy) String() string {
	switch s {
	case BoundingBox:
		return "boundingbox"
	case ConvexHull:
		return "convexhull"
	default:
		return "gravity"
	}
}

// Score evaluates a candidate position: allVertices is every vertex of
// every already-placed part plus the candidate part at its trial
// position, used to compute the bounds/hull the strategy scores.
func Score(strategy Strategy, allVertices []geom.Point) float64 {
	if len(allVertices) == 0 {
		return 0
	}
	switch strategy {
	case BoundingBox:
		min, max := boundsOf(allVertices)
		return (max.X - min.X) * (max.Y - min.Y)
	case ConvexHull:
		return geom.HullArea(allVertices, 1e-9)
	default: // Gravity
		min, max := boundsOf(allVertices)
		width := max.X - min.X
		height := max.Y - min.Y
		return 2*width + height
	}
}

func boundsOf(points []geom.Point) (min, max geom.Point) {
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
	}
	return min, max
}

// candidate is one trial translation for a part's reference vertex, with
// the score it earns and the full vertex set it was scored against
// (retained only long enough to pick the winner).
type candidate struct {
	position geom.Point
	score    float64
}

// bestCandidate picks the lowest-scoring candidate; ties are broken by
// smallest x, then smallest y, per the strategy contract.
func bestCandidate(candidates []candidate) (geom.Point, float64, bool) {
	if len(candidates) == 0 {
		return geom.Point{}, 0, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.score < best.score {
			best = c
			continue
		}
		if c.score == best.score {
			if c.position.X < best.position.X ||
				(c.position.X == best.position.X && c.position.Y < best.position.Y) {
				best = c
			}
		}
	}
	return best.position, best.score, true
}
