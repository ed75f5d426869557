package placement

import "github.com/piwi3910/deepnest-go/internal/nestmodel"

// UnplacedPenaltyWeight scales the per-part-area penalty for parts that
// could not be placed on any sheet. It dominates every other term so
// that placing any part is strictly preferable to any rearrangement of
// already-placed parts.
const UnplacedPenaltyWeight = 100_000_000.0

// Evaluate computes the scalar GA fitness of a placement result, per the
// fitness formula: total used sheet area, plus each used sheet's
// bounds-width normalized by total sheet area and its accumulated
// strategy score, plus a dominant penalty for unplaced part area, minus
// the merge-length bonus when merge detection is enabled.
func Evaluate(result nestmodel.PlacementResult, pool nestmodel.Pool, totalSheetArea float64, mergeLines bool) float64 {
	t := totalSheetArea
	if t <= 0 {
		t = 1
	}

	var fitness float64
	for _, sheet := range result.Sheets {
		fitness += sheet.Sheet.Area()
		min, max := sheet.Sheet.BoundingBox()
		boundsWidth := max.X - min.X
		fitness += boundsWidth/t + sheet.StrategyScoreSum
	}

	var unplacedArea float64
	for _, id := range result.UnplacedIDs {
		if part, ok := pool.PartByID(id); ok {
			unplacedArea += part.Area()
		}
	}
	fitness += UnplacedPenaltyWeight * (unplacedArea / t)

	if mergeLines {
		fitness -= result.MergedLength
	}
	return fitness
}
