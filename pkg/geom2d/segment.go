package geom2d

import "math"

// Segment2D is an oriented line between two points.
type Segment2D struct {
	P1, P2 Point2D
}

// Degenerate reports whether the segment's endpoints coincide.
func (s Segment2D) Degenerate() bool {
	return s.P1 == s.P2
}

// Length returns the Euclidean length of the segment.
func (s Segment2D) Length() float64 {
	return s.P1.DistanceTo(s.P2)
}

// Envelope returns the bounding box of the segment.
func (s Segment2D) Envelope() Box2D {
	return NewBox2D(s.P1, s.P2)
}

// DistanceToPoint returns the shortest distance from p to the segment.
func (s Segment2D) DistanceToPoint(p Point2D) float64 {
	dx := s.P2.X - s.P1.X
	dy := s.P2.Y - s.P1.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return s.P1.DistanceTo(p)
	}
	t := ((p.X-s.P1.X)*dx + (p.Y-s.P1.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	proj := Point2D{X: s.P1.X + t*dx, Y: s.P1.Y + t*dy}
	return proj.DistanceTo(p)
}

// Intersects reports whether s and o share at least one point, including
// the collinear-overlap case.
func (s Segment2D) Intersects(o Segment2D) bool {
	d1 := orientation(o.P1, o.P2, s.P1)
	d2 := orientation(o.P1, o.P2, s.P2)
	d3 := orientation(s.P1, s.P2, o.P1)
	d4 := orientation(s.P1, s.P2, o.P2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}

	if d1 == 0 && onSegment(o.P1, o.P2, s.P1) {
		return true
	}
	if d2 == 0 && onSegment(o.P1, o.P2, s.P2) {
		return true
	}
	if d3 == 0 && onSegment(s.P1, s.P2, o.P1) {
		return true
	}
	if d4 == 0 && onSegment(s.P1, s.P2, o.P2) {
		return true
	}
	return false
}

// orientation returns the signed area of the triangle (a, b, c); its sign
// gives the turn direction of the path a -> b -> c.
func orientation(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// onSegment reports whether c, known to be collinear with a-b, lies within
// the a-b bounding box.
func onSegment(a, b, c Point2D) bool {
	return c.X >= math.Min(a.X, b.X) && c.X <= math.Max(a.X, b.X) &&
		c.Y >= math.Min(a.Y, b.Y) && c.Y <= math.Max(a.Y, b.Y)
}
