// Package nestmodel holds the nesting engine's public data model: part
// and sheet specifications, the quantity-expanded polygon pool, placement
// results, and the peripheral project/offcut types adapted from the
// teacher's model package for this domain.
package nestmodel

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/piwi3910/deepnest-go/internal/geom"
)

// PartSpec is one part definition before quantity expansion.
type PartSpec struct {
	Polygon  geom.Polygon
	Quantity int
	Name     string
}

// SheetSpec is one sheet definition before quantity expansion.
type SheetSpec struct {
	Polygon  geom.Polygon
	Quantity int
	Name     string
}

// NestInput bundles the parts and sheets a solver run is asked to nest.
type NestInput struct {
	Parts  []PartSpec
	Sheets []SheetSpec
}

// ExpandedPolygon is one quantity-expanded instance: a stable ID unique
// across the whole expanded pool, a Source id shared by every instance
// that came from the same PartSpec/SheetSpec, and the originating name.
type ExpandedPolygon struct {
	Polygon geom.Polygon
	Source  int
	Name    string
}

// Pool is the quantity-expanded, ID-indexed polygon pool the engine owns
// for the lifetime of a run. Part/sheet polygons are immutable after
// expansion; individuals reference them by ID only.
type Pool struct {
	Parts  []ExpandedPolygon
	Sheets []ExpandedPolygon
}

// ExpandInput duplicates each PartSpec/SheetSpec Quantity times, assigning
// every resulting polygon a distinct, stable ID (consecutive from 0
// across all parts, then continuing across all sheets) while sharing a
// Source id (the spec's index in its input slice) across duplicates of
// the same spec.
func ExpandInput(input NestInput) Pool {
	var pool Pool
	nextID := 0

	for source, spec := range input.Parts {
		for q := 0; q < spec.Quantity; q++ {
			p := spec.Polygon
			p.ID = nextID
			p.Source = source
			pool.Parts = append(pool.Parts, ExpandedPolygon{Polygon: p, Source: source, Name: spec.Name})
			nextID++
		}
	}
	for source, spec := range input.Sheets {
		for q := 0; q < spec.Quantity; q++ {
			s := spec.Polygon
			s.ID = nextID
			s.Source = source
			pool.Sheets = append(pool.Sheets, ExpandedPolygon{Polygon: s, Source: source, Name: spec.Name})
			nextID++
		}
	}
	return pool
}

// PartIDs returns the IDs of every expanded part, the ordering GA
// individuals permute.
func (p Pool) PartIDs() []int {
	ids := make([]int, len(p.Parts))
	for i, part := range p.Parts {
		ids[i] = part.Polygon.ID
	}
	return ids
}

// PartByID returns the expanded part polygon with the given ID.
func (p Pool) PartByID(id int) (geom.Polygon, bool) {
	for _, part := range p.Parts {
		if part.Polygon.ID == id {
			return part.Polygon, true
		}
	}
	return geom.Polygon{}, false
}

// NameForID returns the originating PartSpec name for an expanded part ID,
// used by reporting code that labels parts for a human reader.
func (p Pool) NameForID(id int) string {
	for _, part := range p.Parts {
		if part.Polygon.ID == id {
			return part.Name
		}
	}
	return ""
}

// NewID generates a stable string identifier for a part/sheet definition,
// following the teacher's uuid-based Part/StockSheet ID pattern.
func NewID() string {
	return uuid.NewString()
}

// DescribePart renders a human-readable label, used by progress callbacks
// and reports.
func DescribePart(name string, id int) string {
	if name == "" {
		return fmt.Sprintf("part-%d", id)
	}
	return name
}
