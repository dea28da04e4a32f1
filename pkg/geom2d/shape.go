package geom2d

// Shape is the exact geometry exposed by a spatial index entry for the
// post-filter stage of a two-stage bounding-box-then-exact query: the
// tree narrows candidates by bounding box, then Shape answers the
// precise predicate (segment intersection, focal distance).
type Shape interface {
	Envelope() Box2D
	IntersectsSegment(seg Segment2D) bool
	DistanceToPoint(pt Point2D) float64
}

var _ Shape = Polygon2D{}
