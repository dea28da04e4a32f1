package scene

import "github.com/vanetlab/gemv2/pkg/geom2d"

// DefaultBuildingPermittivity is the relative permittivity used for
// concrete when a building doesn't specify one.
const DefaultBuildingPermittivity = 4.5

// Building is a static obstacle in the scene. Its shape is canonicalized
// once at construction and never mutated afterward.
type Building struct {
	shape         geom2d.Polygon2D
	bbox          geom2d.Box2D
	area          float64
	permittivity  float64
}

// NewBuilding creates a building from a polygon shape (in any winding
// order; it is canonicalized here) with the default concrete permittivity.
func NewBuilding(shape geom2d.Polygon2D) *Building {
	canon := shape.Canonicalize()
	return &Building{
		shape:        canon,
		bbox:         canon.Envelope(),
		area:         canon.Area(),
		permittivity: DefaultBuildingPermittivity,
	}
}

// WithPermittivity sets a non-default relative permittivity and returns
// the same building for chaining at construction time.
func (b *Building) WithPermittivity(perm float64) *Building {
	b.permittivity = perm
	return b
}

// Shape returns the building's canonical footprint.
func (b *Building) Shape() geom2d.Polygon2D { return b.shape }

// BoundingBox returns the envelope of the building's shape.
func (b *Building) BoundingBox() geom2d.Box2D { return b.bbox }

// Area returns the footprint area in square meters.
func (b *Building) Area() float64 { return b.area }

// RelativePermittivity returns the surface material's relative permittivity.
func (b *Building) RelativePermittivity() float64 { return b.permittivity }

// IntersectsSegment implements geom2d.Shape.
func (b *Building) IntersectsSegment(seg geom2d.Segment2D) bool {
	return b.shape.IntersectsSegment(seg)
}

// DistanceToPoint implements geom2d.Shape.
func (b *Building) DistanceToPoint(p geom2d.Point2D) float64 {
	return b.shape.DistanceToPoint(p)
}

// Envelope implements geom2d.Shape.
func (b *Building) Envelope() geom2d.Box2D { return b.bbox }
