package geom2d

// Box2D is an axis-aligned bounding box, min.X <= max.X && min.Y <= max.Y.
type Box2D struct {
	Min, Max Point2D
}

// NewBox2D builds a box from two corner points, normalizing coordinate order.
func NewBox2D(a, b Point2D) Box2D {
	return Box2D{
		Min: Point2D{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: Point2D{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Envelope returns the smallest Box2D enclosing all of the given points.
// Returns the zero Box2D if points is empty.
func Envelope(points []Point2D) Box2D {
	if len(points) == 0 {
		return Box2D{}
	}
	box := Box2D{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
	}
	return box
}

// Union returns the smallest Box2D enclosing both b and o.
func (b Box2D) Union(o Box2D) Box2D {
	return Box2D{
		Min: Point2D{X: min(b.Min.X, o.Min.X), Y: min(b.Min.Y, o.Min.Y)},
		Max: Point2D{X: max(b.Max.X, o.Max.X), Y: max(b.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether b and o overlap (touching counts as overlap).
func (b Box2D) Intersects(o Box2D) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y
}

// Contains reports whether p lies within b, inclusive of the boundary.
func (b Box2D) Contains(p Point2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Center returns the midpoint of the box.
func (b Box2D) Center() Point2D {
	return Point2D{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}
