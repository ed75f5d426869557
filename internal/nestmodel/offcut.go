package nestmodel

import (
	"math"
	"sort"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// Offcut is a usable rectangular remnant area left over on a sheet after
// nesting, adapted from the teacher's rectangle-cutting Offcut to operate
// on the bounding box of irregular placements instead of exact part
// dimensions.
type Offcut struct {
	ID         string
	SheetName  string
	SheetIndex int
	X, Y       float64
	Width      float64
	Height     float64
}

// Area returns the offcut's area.
func (o Offcut) Area() float64 { return o.Width * o.Height }

// ToSheetSpec converts an offcut into a reusable sheet specification for
// a subsequent nesting run.
func (o Offcut) ToSheetSpec() SheetSpec {
	outer := geom.Ring{
		{X: o.X, Y: o.Y},
		{X: o.X + o.Width, Y: o.Y},
		{X: o.X + o.Width, Y: o.Y + o.Height},
		{X: o.X, Y: o.Y + o.Height},
	}
	return SheetSpec{
		Polygon:  geom.NewPolygon(outer, nil),
		Quantity: 1,
		Name:     "offcut-" + o.SheetName,
	}
}

// MinOffcutDimension is the minimum width or height for a remnant to be
// considered a usable offcut.
const MinOffcutDimension = 50.0

// MinOffcutArea is the minimum area for a remnant to be considered
// usable.
const MinOffcutArea = 10000.0

// PlacementExtent returns the bounding box (in sheet coordinates) that a
// placement occupies, given the part's unrotated polygon.
func PlacementExtent(part geom.Polygon, p Placement) (min, max geom.Point) {
	transformed := geom.Rotate(p.Rotation).Then(geom.Translate(p.Position.X, p.Position.Y)).ApplyPolygon(part)
	return transformed.BoundingBox()
}

// DetectOffcutsForPool analyzes a SheetResult's placement bounding boxes
// and identifies rectangular remnant areas large enough to reuse, using
// the same right-strip/bottom-strip skyline approach as the teacher's
// rectangle packer, generalized to irregular outlines via each
// placement's transformed bounding box. It resolves each
// placement's actual transformed bounding box against the part pool,
// then applies the right-strip/bottom-strip skyline heuristic.
func DetectOffcutsForPool(result SheetResult, pool Pool, sheetName string, spacing float64) []Offcut {
	sheetMin, sheetMax := result.Sheet.BoundingBox()
	sheetW := sheetMax.X - sheetMin.X
	sheetH := sheetMax.Y - sheetMin.Y

	if len(result.Placements) == 0 {
		return []Offcut{{
			ID:         NewID()[:8],
			SheetName:  sheetName,
			SheetIndex: result.SheetIndex,
			X:          sheetMin.X,
			Y:          sheetMin.Y,
			Width:      sheetW,
			Height:     sheetH,
		}}
	}

	maxRight := sheetMin.X
	maxBottom := sheetMin.Y
	for _, p := range result.Placements {
		part, ok := pool.PartByID(p.PartID)
		if !ok {
			continue
		}
		_, max := PlacementExtent(part, p)
		if right := max.X + spacing; right > maxRight {
			maxRight = right
		}
		if bottom := max.Y + spacing; bottom > maxBottom {
			maxBottom = bottom
		}
	}

	var offcuts []Offcut
	rightStripW := sheetMax.X - maxRight
	if rightStripW >= MinOffcutDimension && sheetH >= MinOffcutDimension && rightStripW*sheetH >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:         NewID()[:8],
			SheetName:  sheetName,
			SheetIndex: result.SheetIndex,
			X:          maxRight,
			Y:          sheetMin.Y,
			Width:      rightStripW,
			Height:     sheetH,
		})
	}

	bottomStripH := sheetMax.Y - maxBottom
	usableBottomW := math.Min(maxRight-sheetMin.X, sheetW)
	if bottomStripH >= MinOffcutDimension && usableBottomW >= MinOffcutDimension && bottomStripH*usableBottomW >= MinOffcutArea {
		offcuts = append(offcuts, Offcut{
			ID:         NewID()[:8],
			SheetName:  sheetName,
			SheetIndex: result.SheetIndex,
			X:          sheetMin.X,
			Y:          maxBottom,
			Width:      usableBottomW,
			Height:     bottomStripH,
		})
	}

	sort.Slice(offcuts, func(i, j int) bool {
		return offcuts[i].Area() > offcuts[j].Area()
	})
	return offcuts
}

// TotalOffcutArea returns the total area of all offcuts.
func TotalOffcutArea(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Area()
	}
	return total
}
