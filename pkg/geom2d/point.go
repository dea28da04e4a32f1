// Package geom2d provides the 2D geometry primitives the propagation
// engine builds on: points, oriented segments, axis-aligned boxes and
// simple polygons, along with the rotation/translation transforms used
// to place a vehicle's shape in the scene.
package geom2d

import "math"

// Point2D is a coordinate in the scene's local Cartesian plane, in meters.
type Point2D struct {
	X, Y float64
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point2D) DistanceTo(q Point2D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Hypot(dx, dy)
}

// Translate returns p shifted by (dx, dy).
func (p Point2D) Translate(dx, dy float64) Point2D {
	return Point2D{X: p.X + dx, Y: p.Y + dy}
}

// Rotate returns p rotated by the given angle in degrees around the
// origin, measured clockwise from north (matching Vehicle.Heading).
func (p Point2D) Rotate(degrees float64) Point2D {
	rad := degrees * math.Pi / 180.0
	sin, cos := math.Sin(rad), math.Cos(rad)
	return Point2D{
		X: p.X*cos + p.Y*sin,
		Y: -p.X*sin + p.Y*cos,
	}
}

// Finite reports whether both coordinates are finite numbers.
func (p Point2D) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}
