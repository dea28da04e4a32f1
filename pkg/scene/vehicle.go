package scene

import "github.com/vanetlab/gemv2/pkg/geom2d"

// DefaultVehiclePermittivity approximates a mix of metal, glass and rubber.
const DefaultVehiclePermittivity = 6.0

// Position3D is a scene-local Cartesian position with an elevation above
// ground level.
type Position3D struct {
	X, Y, Z float64
}

// Horizontal projects the position onto the ground plane.
func (p Position3D) Horizontal() geom2d.Point2D {
	return geom2d.Point2D{X: p.X, Y: p.Y}
}

// Vehicle is a mobile obstacle: an oriented rectangle derived from length
// and width, tracked at a mutable position and heading. The current
// shape and bounding box are cached and only recomputed, on next access,
// after a position or heading change — mirroring the reference
// implementation's dirty-flag contract while keeping the cached values
// themselves immutable snapshots.
type Vehicle struct {
	length, width, height float64
	permittivity          float64

	position Position3D
	heading  float64 // degrees, clockwise from north

	initialShape geom2d.Polygon2D

	currentShape geom2d.Polygon2D
	bbox         geom2d.Box2D
	dirty        bool
}

// NewVehicle creates a vehicle of the given dimensions at the origin,
// heading 0, with the default permittivity.
func NewVehicle(length, width, height float64) *Vehicle {
	return NewVehicleWithShape(geom2d.RectangleAtOrigin(length, width), height)
}

// NewVehicleWithShape creates a vehicle from an explicit shape centered at
// the origin (0, 0), for non-rectangular footprints.
func NewVehicleWithShape(shape geom2d.Polygon2D, height float64) *Vehicle {
	shape = shape.Canonicalize()
	v := &Vehicle{
		height:       height,
		permittivity: DefaultVehiclePermittivity,
		initialShape: shape,
		dirty:        true,
	}
	v.refreshShape()
	return v
}

// WithPermittivity sets a non-default relative permittivity and returns
// the same vehicle for chaining at construction time.
func (v *Vehicle) WithPermittivity(perm float64) *Vehicle {
	v.permittivity = perm
	return v
}

// SetPosition updates the vehicle's position. The current shape and
// bounding box are recomputed lazily on next access.
func (v *Vehicle) SetPosition(pos Position3D) {
	v.position = pos
	v.dirty = true
}

// SetHeading updates the vehicle's heading in degrees clockwise from
// north. The current shape and bounding box are recomputed lazily.
func (v *Vehicle) SetHeading(heading float64) {
	v.heading = heading
	v.dirty = true
}

// Position returns the vehicle's current position.
func (v *Vehicle) Position() Position3D { return v.position }

// Heading returns the vehicle's current heading in degrees.
func (v *Vehicle) Heading() float64 { return v.heading }

// Height returns the vehicle's antenna-relevant height in meters.
func (v *Vehicle) Height() float64 { return v.height }

// RelativePermittivity returns the surface material's relative permittivity.
func (v *Vehicle) RelativePermittivity() float64 { return v.permittivity }

// refreshShape recomputes currentShape/bbox from position and heading if
// they have changed since the last computation.
func (v *Vehicle) refreshShape() {
	if !v.dirty {
		return
	}
	v.currentShape = v.initialShape.Rotate(v.heading).Translate(v.position.X, v.position.Y)
	v.bbox = v.currentShape.Envelope()
	v.dirty = false
}

// Shape returns the vehicle's current shape, recomputing it first if the
// position or heading changed since the last access.
func (v *Vehicle) Shape() geom2d.Polygon2D {
	v.refreshShape()
	return v.currentShape
}

// BoundingBox returns the envelope of the vehicle's current shape,
// recomputing it first if needed.
func (v *Vehicle) BoundingBox() geom2d.Box2D {
	v.refreshShape()
	return v.bbox
}

// IntersectsSegment implements geom2d.Shape.
func (v *Vehicle) IntersectsSegment(seg geom2d.Segment2D) bool {
	return v.Shape().IntersectsSegment(seg)
}

// DistanceToPoint implements geom2d.Shape.
func (v *Vehicle) DistanceToPoint(p geom2d.Point2D) float64 {
	return v.Shape().DistanceToPoint(p)
}

// Envelope implements geom2d.Shape.
func (v *Vehicle) Envelope() geom2d.Box2D {
	return v.BoundingBox()
}
