package nestmodel

import (
	"testing"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

func squarePolygon(w, h float64) geom.Polygon {
	r := geom.Ring{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}}
	return geom.NewPolygon(r, nil)
}

func TestExpandInputAssignsDistinctIDsSharedSource(t *testing.T) {
	input := NestInput{
		Parts: []PartSpec{
			{Polygon: squarePolygon(10, 10), Quantity: 3, Name: "A"},
			{Polygon: squarePolygon(5, 5), Quantity: 1, Name: "B"},
		},
		Sheets: []SheetSpec{
			{Polygon: squarePolygon(100, 100), Quantity: 2, Name: "sheet"},
		},
	}
	pool := ExpandInput(input)

	if len(pool.Parts) != 4 {
		t.Fatalf("expected 4 expanded parts, got %d", len(pool.Parts))
	}
	if len(pool.Sheets) != 2 {
		t.Fatalf("expected 2 expanded sheets, got %d", len(pool.Sheets))
	}

	seen := make(map[int]bool)
	for _, p := range pool.Parts {
		if seen[p.Polygon.ID] {
			t.Fatalf("duplicate polygon ID %d", p.Polygon.ID)
		}
		seen[p.Polygon.ID] = true
	}
	if pool.Parts[0].Source != pool.Parts[1].Source || pool.Parts[1].Source != pool.Parts[2].Source {
		t.Fatal("the 3 instances of part A should share a source id")
	}
	if pool.Parts[0].Source == pool.Parts[3].Source {
		t.Fatal("part A and part B instances should not share a source id")
	}
}

func TestPartIDsMatchesExpandedPool(t *testing.T) {
	input := NestInput{Parts: []PartSpec{{Polygon: squarePolygon(1, 1), Quantity: 2}}}
	pool := ExpandInput(input)
	ids := pool.PartIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
	for _, id := range ids {
		if _, ok := pool.PartByID(id); !ok {
			t.Fatalf("PartByID(%d) should find the expanded part", id)
		}
	}
}

func TestPlacementExtentAppliesRotationThenTranslation(t *testing.T) {
	part := squarePolygon(10, 2)
	p := Placement{Position: geom.Point{X: 100, Y: 50}, Rotation: 90}
	min, max := PlacementExtent(part, p)
	if min.X < 97 || min.X > 99 {
		t.Fatalf("rotated+translated bbox min.X = %v, want ~98", min.X)
	}
	_ = max
}

func TestDetectOffcutsForPoolEmptySheetReturnsWholeSheet(t *testing.T) {
	sheet := squarePolygon(200, 100)
	result := SheetResult{Sheet: sheet}
	pool := Pool{}
	offcuts := DetectOffcutsForPool(result, pool, "sheet-1", 0)
	if len(offcuts) != 1 {
		t.Fatalf("expected 1 offcut for an empty sheet, got %d", len(offcuts))
	}
	if offcuts[0].Area() != 200*100 {
		t.Fatalf("offcut area = %v, want %v", offcuts[0].Area(), 200.0*100.0)
	}
}

func TestDetectOffcutsForPoolFindsRightStrip(t *testing.T) {
	sheet := squarePolygon(300, 200)
	part := squarePolygon(100, 150)
	pool := Pool{Parts: []ExpandedPolygon{{Polygon: withID(part, 1)}}}
	result := SheetResult{
		Sheet: sheet,
		Placements: []Placement{
			{PartID: 1, Position: geom.Point{X: 0, Y: 0}, Rotation: 0},
		},
	}
	offcuts := DetectOffcutsForPool(result, pool, "sheet-1", 5)
	if len(offcuts) == 0 {
		t.Fatal("expected at least one offcut for a part placed in the corner")
	}
}

func withID(p geom.Polygon, id int) geom.Polygon {
	p.ID = id
	return p
}

func TestNewProjectHasIDAndTimestamps(t *testing.T) {
	p := NewProject("demo")
	if p.ID == "" {
		t.Fatal("expected generated project ID")
	}
	if p.CreatedAt.IsZero() || p.UpdatedAt.IsZero() {
		t.Fatal("expected non-zero timestamps")
	}
}
