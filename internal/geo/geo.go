// Package geo parses the plain Cartesian coordinate strings a scenario's
// vehicle placement lines carry for a single point, as opposed to the
// multi-point WKT footprints pkg/wkt handles.
package geo

import (
	"errors"
	"strconv"
	"strings"

	"github.com/vanetlab/gemv2/pkg/scene"
)

// ErrInvalidCoordinates is returned when a coordinate string is missing
// components or has a component that doesn't parse as a float.
var ErrInvalidCoordinates = errors.New("invalid coordinates provided")

// Position3DFromString parses an "x,y" or "x,y,z" string into a
// scene.Position3D. Extra comma-separated components beyond the third
// are ignored.
func Position3DFromString(coords string) (scene.Position3D, error) {
	parts := strings.Split(coords, ",")
	if len(parts) < 2 {
		return scene.Position3D{}, ErrInvalidCoordinates
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return scene.Position3D{}, ErrInvalidCoordinates
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return scene.Position3D{}, ErrInvalidCoordinates
	}
	var z float64
	if len(parts) > 2 {
		z, err = strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
		if err != nil {
			return scene.Position3D{}, ErrInvalidCoordinates
		}
	}
	return scene.Position3D{X: x, Y: y, Z: z}, nil
}
