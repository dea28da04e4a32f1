package scene

import "github.com/vanetlab/gemv2/pkg/geom2d"

// Foliage is a static obstacle, identical in structure to Building but
// without a surface permittivity (foliage has no reflection model; the
// propagation engine reports every NLOSf link as out of range).
type Foliage struct {
	shape geom2d.Polygon2D
	bbox  geom2d.Box2D
	area  float64
}

// NewFoliage creates a foliage patch from a polygon shape, canonicalizing
// it at construction.
func NewFoliage(shape geom2d.Polygon2D) *Foliage {
	canon := shape.Canonicalize()
	return &Foliage{
		shape: canon,
		bbox:  canon.Envelope(),
		area:  canon.Area(),
	}
}

// Shape returns the foliage's canonical footprint.
func (f *Foliage) Shape() geom2d.Polygon2D { return f.shape }

// BoundingBox returns the envelope of the foliage's shape.
func (f *Foliage) BoundingBox() geom2d.Box2D { return f.bbox }

// Area returns the footprint area in square meters.
func (f *Foliage) Area() float64 { return f.area }

// IntersectsSegment implements geom2d.Shape.
func (f *Foliage) IntersectsSegment(seg geom2d.Segment2D) bool {
	return f.shape.IntersectsSegment(seg)
}

// DistanceToPoint implements geom2d.Shape.
func (f *Foliage) DistanceToPoint(p geom2d.Point2D) float64 {
	return f.shape.DistanceToPoint(p)
}

// Envelope implements geom2d.Shape.
func (f *Foliage) Envelope() geom2d.Box2D { return f.bbox }
