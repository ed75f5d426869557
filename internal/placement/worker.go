package placement

import (
	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/merge"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
	"github.com/piwi3910/deepnest-go/internal/nfp"
	"github.com/piwi3910/deepnest-go/internal/polyops"
)

// PartGene is one gene of a chromosome: a part's pool ID and the
// rotation (degrees) the chromosome assigns it.
type PartGene struct {
	PartID   int
	Rotation float64
}

// Worker places one chromosome's parts onto sheets in order, using inner
// and outer NFPs to find feasible candidate positions.
type Worker struct {
	calc        *nfp.Calculator
	strategy    Strategy
	mergeMinLen float64
	mergeLines  bool
	tolerance   float64
}

// NewWorker builds a placement Worker.
func NewWorker(calc *nfp.Calculator, strategy Strategy, mergeMinLen, tolerance float64, mergeLines bool) *Worker {
	return &Worker{
		calc:        calc,
		strategy:    strategy,
		mergeMinLen: mergeMinLen,
		mergeLines:  mergeLines,
		tolerance:   tolerance,
	}
}

// Place lays out genes onto sheets in chromosome order, returning a
// PlacementResult. Sheets are tried in the order given; genes are
// attempted against each sheet in turn until every gene is placed or
// every sheet has been tried.
func (w *Worker) Place(sheets []nestmodel.ExpandedPolygon, pool nestmodel.Pool, genes []PartGene) nestmodel.PlacementResult {
	rotated := make(map[int]geom.Polygon, len(genes))
	for _, g := range genes {
		part, ok := pool.PartByID(g.PartID)
		if !ok {
			continue
		}
		rp := geom.Rotate(g.Rotation).ApplyPolygon(part)
		rp.Rotation = g.Rotation
		rotated[g.PartID] = rp
	}

	remaining := append([]PartGene(nil), genes...)
	var result nestmodel.PlacementResult

	for sheetIdx, sheetInst := range sheets {
		if len(remaining) == 0 {
			break
		}
		sheet := sheetInst.Polygon
		sheetResult := nestmodel.SheetResult{SheetIndex: sheetIdx, Sheet: sheet}
		var placedPolys []geom.Polygon // world-space, for merge-length
		var placedLocal []geom.Polygon // rotated but untranslated, for cached outer NFPs
		var placedPos []geom.Point
		var placedVertices []geom.Point

		stillRemaining := make([]PartGene, 0, len(remaining))
		for _, g := range remaining {
			part := rotated[g.PartID]

			var candidateRegions []geom.Polygon
			inner := w.calc.InnerNFP(sheet, part)
			if len(inner) == 0 {
				stillRemaining = append(stillRemaining, g)
				continue
			}

			if len(placedPolys) == 0 {
				candidateRegions = inner
			} else {
				var outerUnion []geom.Polygon
				for k, placed := range placedLocal {
					shift := geom.Translate(placedPos[k].X, placedPos[k].Y)
					for _, nfpPoly := range w.calc.OuterNFP(placed, part) {
						outerUnion = append(outerUnion, shift.ApplyPolygon(nfpPoly))
					}
				}
				outerUnion = polyops.Union(outerUnion)
				for _, in := range inner {
					candidateRegions = append(candidateRegions, polyops.Difference(in, outerUnion)...)
				}
			}
			if len(candidateRegions) == 0 {
				stillRemaining = append(stillRemaining, g)
				continue
			}

			reference := part.Outer[0]
			var candidates []candidate
			for _, region := range candidateRegions {
				for _, v := range region.Outer {
					pos := geom.Point{X: v.X - reference.X, Y: v.Y - reference.Y}
					trial := append(append([]geom.Point(nil), placedVertices...), translatedVertices(part, pos)...)
					candidates = append(candidates, candidate{position: pos, score: Score(w.strategy, trial)})
				}
			}
			pos, score, ok := bestCandidate(candidates)
			if !ok {
				stillRemaining = append(stillRemaining, g)
				continue
			}

			placedPart := geom.Translate(pos.X, pos.Y).ApplyPolygon(part)
			placedPolys = append(placedPolys, placedPart)
			placedLocal = append(placedLocal, part)
			placedPos = append(placedPos, pos)
			placedVertices = append(placedVertices, placedPart.Outer...)

			sheetResult.Placements = append(sheetResult.Placements, nestmodel.Placement{
				SheetIndex: sheetIdx,
				PartID:     g.PartID,
				PartSource: part.Source,
				Position:   pos,
				Rotation:   g.Rotation,
			})
			sheetResult.StrategyScoreSum += score

			if w.mergeLines {
				alreadyPlaced := make([]geom.Polygon, len(placedPolys)-1)
				copy(alreadyPlaced, placedPolys[:len(placedPolys)-1])
				mres := merge.CalculateMergedLength(alreadyPlaced, placedPart, w.mergeMinLen, w.tolerance)
				result.MergedLength += mres.TotalLength
			}
		}
		remaining = stillRemaining

		if len(sheetResult.Placements) > 0 {
			result.Sheets = append(result.Sheets, sheetResult)
		}
	}

	for _, g := range remaining {
		result.UnplacedIDs = append(result.UnplacedIDs, g.PartID)
	}
	return result
}

func translatedVertices(part geom.Polygon, pos geom.Point) []geom.Point {
	return geom.Translate(pos.X, pos.Y).ApplyRing(part.Outer)
}
