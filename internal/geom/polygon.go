package geom

// Ring is a closed sequence of points; the last point implicitly
// connects back to the first.
type Ring []Point

// Polygon is an outer ring plus zero or more hole rings ("children").
// Orientation convention: outer rings are CCW, hole rings are CW. Every
// constructor and every polyops operation must enforce this at its
// boundary; nothing downstream re-checks it.
type Polygon struct {
	Outer Ring
	Holes []Ring

	// ID is a stable integer, unique per expanded (quantity-duplicated)
	// polygon. Source identifies the part/sheet spec a polygon came from
	// and is shared by every duplicate created to satisfy a quantity > 1.
	ID     int
	Source int

	// Rotation is the current rotation in degrees, applied to Outer and
	// Holes already (Rotation is bookkeeping for NFP cache keys, not a
	// pending transform).
	Rotation float64

	// Offset is the translation applied to place this polygon, if any.
	Offset Point
}

// NewPolygon builds a Polygon and enforces the outer/hole orientation
// convention, reversing rings as needed.
func NewPolygon(outer Ring, holes []Ring) Polygon {
	p := Polygon{Outer: append(Ring(nil), outer...)}
	if SignedArea(p.Outer) < 0 {
		p.Outer = ReverseRing(p.Outer)
	}
	for _, h := range holes {
		hr := append(Ring(nil), h...)
		if SignedArea(hr) > 0 {
			hr = ReverseRing(hr)
		}
		p.Holes = append(p.Holes, hr)
	}
	return p
}

// ReverseRing returns a new ring with points in reverse order.
func ReverseRing(r Ring) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[len(r)-1-i] = p
	}
	return out
}

// SignedArea returns the shoelace signed area of a ring: positive for
// CCW, negative for CW.
func SignedArea(r Ring) float64 {
	n := len(r)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += r[i].X*r[j].Y - r[j].X*r[i].Y
	}
	return sum / 2
}

// Area returns the unsigned area of the polygon (outer minus holes).
func (p Polygon) Area() float64 {
	area := absf(SignedArea(p.Outer))
	for _, h := range p.Holes {
		area -= absf(SignedArea(h))
	}
	return area
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Bounds returns the min and max corners of the outer ring's bounding box.
func Bounds(r Ring) (min, max Point) {
	if len(r) == 0 {
		return Point{}, Point{}
	}
	min, max = r[0], r[0]
	for _, p := range r[1:] {
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

// BoundingBox returns the polygon's outer-ring bounding box.
func (p Polygon) BoundingBox() (min, max Point) {
	return Bounds(p.Outer)
}

// Width and Height are convenience accessors over BoundingBox.
func (p Polygon) Width() float64 {
	min, max := p.BoundingBox()
	return max.X - min.X
}

func (p Polygon) Height() float64 {
	min, max := p.BoundingBox()
	return max.Y - min.Y
}

// Centroid computes the area-weighted centroid of the polygon including
// hole subtraction.
func Centroid(p Polygon) Point {
	cx, cy, totalArea := 0.0, 0.0, 0.0
	accumulate := func(r Ring, sign float64) {
		n := len(r)
		if n < 3 {
			return
		}
		a := SignedArea(r)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			cross := r[i].X*r[j].Y - r[j].X*r[i].Y
			cx += (r[i].X + r[j].X) * cross
			cy += (r[i].Y + r[j].Y) * cross
		}
		totalArea += sign * a
	}
	accumulate(p.Outer, 1)
	for _, h := range p.Holes {
		accumulate(h, 1) // holes already CW so SignedArea is negative
	}
	if totalArea == 0 {
		min, max := p.BoundingBox()
		return Point{X: (min.X + max.X) / 2, Y: (min.Y + max.Y) / 2}
	}
	return Point{X: cx / (6 * totalArea), Y: cy / (6 * totalArea)}
}

// Translate returns a copy of r shifted by (dx, dy).
func (r Ring) Translate(dx, dy float64) Ring {
	out := make(Ring, len(r))
	for i, p := range r {
		out[i] = Point{X: p.X + dx, Y: p.Y + dy, Exact: p.Exact}
	}
	return out
}

// Translate returns a copy of the polygon translated by (dx, dy),
// including its holes, with Offset updated.
func (p Polygon) Translate(dx, dy float64) Polygon {
	q := p
	q.Outer = p.Outer.Translate(dx, dy)
	q.Holes = make([]Ring, len(p.Holes))
	for i, h := range p.Holes {
		q.Holes[i] = h.Translate(dx, dy)
	}
	q.Offset = Point{X: p.Offset.X + dx, Y: p.Offset.Y + dy}
	return q
}
