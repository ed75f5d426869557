package placement

import (
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
	"github.com/piwi3910/deepnest-go/internal/nestmodel"
	"github.com/piwi3910/deepnest-go/internal/nfp"
)

func square(id int, w, h float64) geom.Polygon {
	r := geom.Ring{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	p := geom.NewPolygon(r, nil)
	p.ID = id
	p.Source = id
	return p
}

func TestParseStrategyAliases(t *testing.T) {
	if ParseStrategy("box") != BoundingBox {
		t.Fatal("\"box\" should canonicalize to BoundingBox")
	}
	if ParseStrategy("boundingbox") != BoundingBox {
		t.Fatal("\"boundingbox\" should canonicalize to BoundingBox")
	}
	if ParseStrategy("nonsense") != Gravity {
		t.Fatal("unknown strategy names should fall back to Gravity")
	}
}

func TestScoreFormulas(t *testing.T) {
	verts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 0, Y: 4}}
	if got := Score(BoundingBox, verts); got != 40 {
		t.Fatalf("bounding box score = %v, want 40", got)
	}
	if got := Score(Gravity, verts); got != 2*10+4 {
		t.Fatalf("gravity score = %v, want %v", got, 2*10.0+4.0)
	}
}

func TestBestCandidateBreaksTiesBySmallestXThenY(t *testing.T) {
	candidates := []candidate{
		{position: geom.Point{X: 5, Y: 5}, score: 10},
		{position: geom.Point{X: 1, Y: 9}, score: 10},
		{position: geom.Point{X: 1, Y: 2}, score: 10},
	}
	pos, _, ok := bestCandidate(candidates)
	if !ok {
		t.Fatal("expected a winner")
	}
	if pos.X != 1 || pos.Y != 2 {
		t.Fatalf("expected tie-break winner (1,2), got %+v", pos)
	}
}

func TestWorkerPlacesSinglePartOnSheet(t *testing.T) {
	calc := nfp.NewCalculator(nfp.NewCache())
	w := NewWorker(calc, Gravity, 1, 0.01, false)

	sheet := nestmodel.ExpandedPolygon{Polygon: square(100, 50, 50)}
	part := square(1, 5, 5)
	pool := nestmodel.Pool{Parts: []nestmodel.ExpandedPolygon{{Polygon: part}}}

	result := w.Place([]nestmodel.ExpandedPolygon{sheet}, pool, []PartGene{{PartID: 1, Rotation: 0}})

	if len(result.UnplacedIDs) != 0 {
		t.Fatalf("expected part to be placed, unplaced = %v", result.UnplacedIDs)
	}
	if len(result.Sheets) != 1 || len(result.Sheets[0].Placements) != 1 {
		t.Fatalf("expected exactly one placement on one sheet, got %+v", result.Sheets)
	}
}

func TestWorkerLeavesOversizedPartUnplaced(t *testing.T) {
	calc := nfp.NewCalculator(nfp.NewCache())
	w := NewWorker(calc, Gravity, 1, 0.01, false)

	sheet := nestmodel.ExpandedPolygon{Polygon: square(100, 10, 10)}
	part := square(1, 50, 50)
	pool := nestmodel.Pool{Parts: []nestmodel.ExpandedPolygon{{Polygon: part}}}

	result := w.Place([]nestmodel.ExpandedPolygon{sheet}, pool, []PartGene{{PartID: 1, Rotation: 0}})

	if len(result.UnplacedIDs) != 1 || result.UnplacedIDs[0] != 1 {
		t.Fatalf("expected part 1 unplaced, got %v", result.UnplacedIDs)
	}
	if len(result.Sheets) != 0 {
		t.Fatalf("a sheet producing zero placements should contribute no sheet result, got %+v", result.Sheets)
	}
}

func TestWorkerPlacesTwoPartsOnSameSheet(t *testing.T) {
	calc := nfp.NewCalculator(nfp.NewCache())
	w := NewWorker(calc, Gravity, 1, 0.01, false)

	sheet := nestmodel.ExpandedPolygon{Polygon: square(100, 100, 100)}
	parts := []nestmodel.ExpandedPolygon{
		{Polygon: square(1, 10, 10)},
		{Polygon: square(2, 10, 10)},
	}
	pool := nestmodel.Pool{Parts: parts}

	result := w.Place([]nestmodel.ExpandedPolygon{sheet}, pool, []PartGene{
		{PartID: 1, Rotation: 0},
		{PartID: 2, Rotation: 0},
	})

	if len(result.UnplacedIDs) != 0 {
		t.Fatalf("expected both parts placed, unplaced = %v", result.UnplacedIDs)
	}
	if len(result.Sheets) != 1 || len(result.Sheets[0].Placements) != 2 {
		t.Fatalf("expected both parts on the one sheet, got %+v", result.Sheets)
	}
}

func TestEvaluateUnplacedPenaltyDominates(t *testing.T) {
	part := square(1, 10, 10)
	pool := nestmodel.Pool{Parts: []nestmodel.ExpandedPolygon{{Polygon: part}}}

	placed := nestmodel.PlacementResult{
		Sheets: []nestmodel.SheetResult{{Sheet: square(2, 100, 100)}},
	}
	unplaced := nestmodel.PlacementResult{
		UnplacedIDs: []int{1},
	}

	placedFitness := Evaluate(placed, pool, 10000, false)
	unplacedFitness := Evaluate(unplaced, pool, 10000, false)

	if unplacedFitness <= placedFitness {
		t.Fatalf("unplaced fitness (%v) should dominate and exceed placed fitness (%v)", unplacedFitness, placedFitness)
	}
}

func TestEvaluateSubtractsMergeBonusWhenEnabled(t *testing.T) {
	pool := nestmodel.Pool{}
	result := nestmodel.PlacementResult{
		Sheets:       []nestmodel.SheetResult{{Sheet: square(1, 10, 10)}},
		MergedLength: 5,
	}
	withMerge := Evaluate(result, pool, 100, true)
	withoutMerge := Evaluate(result, pool, 100, false)
	if withMerge != withoutMerge-5 {
		t.Fatalf("merge-enabled fitness should be exactly 5 lower, got %v vs %v", withMerge, withoutMerge)
	}
}
