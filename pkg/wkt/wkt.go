// Package wkt loads building and foliage footprints from Well-Known Text.
package wkt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"

	"github.com/vanetlab/gemv2/pkg/geom2d"
	"github.com/vanetlab/gemv2/pkg/scene"
)

// ParseError reports a malformed line, naming its 1-based line number and
// the offending text so the caller can point a user at the right place in
// the input file.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("wkt: line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParsePolygon parses a single WKT POLYGON string, e.g.
// "POLYGON((10 10,20 10,20 20,10 20,10 10))", into an outer-ring shape.
// Only the exterior ring is used; interior rings (holes) are not part of
// this system's geometry model and are discarded.
func ParsePolygon(wktText string) (geom2d.Polygon2D, error) {
	g, err := geom.UnmarshalWKT(wktText)
	if err != nil {
		return geom2d.Polygon2D{}, fmt.Errorf("invalid WKT: %w", err)
	}
	if g.Type() != geom.TypePolygon {
		return geom2d.Polygon2D{}, fmt.Errorf("expected POLYGON, got %s", g.Type())
	}
	poly := g.MustAsPolygon()
	ring := poly.ExteriorRing()
	seq := ring.Coordinates()

	n := seq.Length()
	if n == 0 {
		return geom2d.Polygon2D{}, fmt.Errorf("polygon has an empty exterior ring")
	}
	points := make([]geom2d.Point2D, n)
	for i := 0; i < n; i++ {
		xy := seq.GetXY(i)
		points[i] = geom2d.Point2D{X: xy.X, Y: xy.Y}
	}
	return geom2d.NewPolygon2D(points), nil
}

// ParseBuildings reads one WKT polygon per line from r and returns the
// resulting buildings with default permittivity. Empty lines are
// ignored. A malformed line is reported as a *ParseError naming its line
// number; parsing stops at the first error.
func ParseBuildings(r io.Reader) ([]*scene.Building, error) {
	polys, err := parseLines(r)
	if err != nil {
		return nil, err
	}
	buildings := make([]*scene.Building, len(polys))
	for i, p := range polys {
		buildings[i] = scene.NewBuilding(p)
	}
	return buildings, nil
}

// ParseFoliage reads one WKT polygon per line from r and returns the
// resulting foliage patches. Empty lines are ignored. A malformed line is
// reported as a *ParseError naming its line number; parsing stops at the
// first error.
func ParseFoliage(r io.Reader) ([]*scene.Foliage, error) {
	polys, err := parseLines(r)
	if err != nil {
		return nil, err
	}
	foliage := make([]*scene.Foliage, len(polys))
	for i, p := range polys {
		foliage[i] = scene.NewFoliage(p)
	}
	return foliage, nil
}

func parseLines(r io.Reader) ([]geom2d.Polygon2D, error) {
	var out []geom2d.Polygon2D
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		p, err := ParsePolygon(line)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}
		out = append(out, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("wkt: reading input: %w", err)
	}
	return out, nil
}
