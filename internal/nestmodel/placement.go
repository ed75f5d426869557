package nestmodel

import "github.com/piwi3910/deepnest-go/internal/geom"

// Placement is one part's final position on one sheet.
type Placement struct {
	SheetIndex int
	PartID     int
	PartSource int
	Position   geom.Point
	Rotation   float64
}

// SheetResult groups the placements made on a single sheet instance
// together with the sheet's own polygon, for downstream area/bounds
// accounting. StrategyScoreSum accumulates the placement strategy's
// per-candidate score (§4.7) at the moment each placement on this sheet
// was chosen — the fitness function's minariaAccumulator term.
type SheetResult struct {
	SheetIndex       int
	Sheet            geom.Polygon
	Placements       []Placement
	StrategyScoreSum float64
}

// UsedArea sums the area of every part placed on this sheet.
func (r SheetResult) UsedArea(pool Pool) float64 {
	var total float64
	for _, p := range r.Placements {
		if part, ok := pool.PartByID(p.PartID); ok {
			total += part.Area()
		}
	}
	return total
}

// PlacementResult is the outcome of one placement-worker run: every sheet
// that received at least one part, plus the parts that could not be
// placed anywhere.
type PlacementResult struct {
	Sheets       []SheetResult
	UnplacedIDs  []int
	MergedLength float64
}

// TotalSheetArea sums the area of every sheet used.
func (r PlacementResult) TotalSheetArea() float64 {
	var total float64
	for _, s := range r.Sheets {
		total += s.Sheet.Area()
	}
	return total
}
