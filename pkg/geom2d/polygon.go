package geom2d

import "math"

// Polygon2D is a simple polygon described by its outer ring only.
// The zero value is an empty polygon. NewPolygon2D canonicalizes its
// input: it closes the ring and orients it counter-clockwise.
type Polygon2D struct {
	Points []Point2D
}

// NewPolygon2D builds a canonicalized polygon from an arbitrary ring.
// The input may or may not already be closed (points[0] == points[n-1]).
func NewPolygon2D(points []Point2D) Polygon2D {
	return Polygon2D{Points: points}.Canonicalize()
}

// Canonicalize returns p with its ring closed and oriented
// counter-clockwise. Canonicalize is idempotent:
// canonicalize(canonicalize(p)) == canonicalize(p).
func (p Polygon2D) Canonicalize() Polygon2D {
	pts := p.Points
	if len(pts) == 0 {
		return Polygon2D{}
	}

	closed := make([]Point2D, len(pts))
	copy(closed, pts)
	if closed[0] != closed[len(closed)-1] {
		closed = append(closed, closed[0])
	}

	if signedArea(closed) < 0 {
		reversed := make([]Point2D, len(closed))
		for i, p := range closed {
			reversed[len(closed)-1-i] = p
		}
		closed = reversed
	}

	return Polygon2D{Points: closed}
}

// signedArea computes twice the signed area of a closed ring via the
// shoelace formula; positive for counter-clockwise rings.
func signedArea(ring []Point2D) float64 {
	if len(ring) < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < len(ring)-1; i++ {
		sum += ring[i].X*ring[i+1].Y - ring[i+1].X*ring[i].Y
	}
	return sum / 2
}

// Area returns the (non-negative) area enclosed by the polygon in m^2.
// Area assumes the polygon is already canonicalized.
func (p Polygon2D) Area() float64 {
	return math.Abs(signedArea(p.Points))
}

// Envelope returns the axis-aligned bounding box of the polygon.
func (p Polygon2D) Envelope() Box2D {
	return Envelope(p.Points)
}

// edges yields the polygon's boundary segments.
func (p Polygon2D) edges() []Segment2D {
	if len(p.Points) < 2 {
		return nil
	}
	edges := make([]Segment2D, 0, len(p.Points)-1)
	for i := 0; i < len(p.Points)-1; i++ {
		edges = append(edges, Segment2D{P1: p.Points[i], P2: p.Points[i+1]})
	}
	return edges
}

// ContainsPoint reports whether pt lies within the polygon's interior,
// using the standard ray-casting test. Points exactly on the boundary may
// be reported either inside or outside, depending on which edge they lie on.
func (p Polygon2D) ContainsPoint(pt Point2D) bool {
	pts := p.Points
	if len(pts) < 4 {
		return false
	}
	inside := false
	for i, j := 0, len(pts)-2; i < len(pts)-1; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > pt.Y) != (pj.Y > pt.Y) {
			xCross := (pj.X-pi.X)*(pt.Y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if pt.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}

// IntersectsSegment reports whether seg crosses the polygon's boundary or
// has an endpoint inside the polygon.
func (p Polygon2D) IntersectsSegment(seg Segment2D) bool {
	if len(p.Points) < 4 {
		return false
	}
	for _, edge := range p.edges() {
		if edge.Intersects(seg) {
			return true
		}
	}
	return p.ContainsPoint(seg.P1) || p.ContainsPoint(seg.P2)
}

// DistanceToPoint returns the shortest distance from pt to the polygon.
// It returns 0 if pt lies within the polygon's area, matching the
// area-geometry distance convention used by the ellipse queries.
func (p Polygon2D) DistanceToPoint(pt Point2D) float64 {
	if len(p.Points) < 4 {
		return math.Inf(1)
	}
	if p.ContainsPoint(pt) {
		return 0
	}
	best := math.Inf(1)
	for _, edge := range p.edges() {
		if d := edge.DistanceToPoint(pt); d < best {
			best = d
		}
	}
	return best
}

// Translate returns p with every point shifted by (dx, dy).
func (p Polygon2D) Translate(dx, dy float64) Polygon2D {
	out := make([]Point2D, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Translate(dx, dy)
	}
	return Polygon2D{Points: out}
}

// Rotate returns p with every point rotated by degrees around the origin.
func (p Polygon2D) Rotate(degrees float64) Polygon2D {
	out := make([]Point2D, len(p.Points))
	for i, pt := range p.Points {
		out[i] = pt.Rotate(degrees)
	}
	return Polygon2D{Points: out}
}

// RectangleAtOrigin builds the canonical shape of an oriented rectangle of
// the given length (along the local Y axis) and width (along the local X
// axis), centered at the origin, ready to be rotated and translated into
// place. Length runs along the vehicle's forward axis.
func RectangleAtOrigin(length, width float64) Polygon2D {
	halfL, halfW := length/2, width/2
	return NewPolygon2D([]Point2D{
		{X: -halfW, Y: -halfL},
		{X: halfW, Y: -halfL},
		{X: halfW, Y: halfL},
		{X: -halfW, Y: halfL},
		{X: -halfW, Y: -halfL},
	})
}
