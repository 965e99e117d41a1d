package geo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	geom "github.com/peterstace/simplefeatures/geom"
	"gonum.org/v1/gonum/floats"

	"github.com/wingsmith/nacawing/pkg/core"
)

// SECTION GEOMETRY
// Outlines live in the x-z section plane on a unit (or scaled) chord. simplefeatures only knows
// about XY, so z is carried in the Y ordinate of every geometry built here.

// ErrInvalidDesignation is returned when a NACA 4-digit designation cannot be parsed
var ErrInvalidDesignation = errors.New("invalid NACA 4-digit designation")

// ErrTooFewPoints is returned when an outline cannot form a ring
var ErrTooFewPoints = errors.New("outline has too few points")

// ErrDegenerateSection is returned when an outline encloses no area, as every
// zero-thickness (xx00) section does: upper and lower surfaces coincide.
var ErrDegenerateSection = errors.New("section outline encloses no area")

// ParseDesignation parses "NACA 4412", "naca4412", "NACA-0012" or "2415" into its digits.
func ParseDesignation(s string) (a, b, tt int, err error) {
	d := strings.TrimSpace(s)
	if len(d) >= 4 && strings.EqualFold(d[:4], "naca") {
		d = d[4:]
	}
	d = strings.TrimLeft(d, " -_")
	if len(d) != 4 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDesignation, s)
	}
	for _, r := range d {
		if r < '0' || r > '9' {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDesignation, s)
		}
	}
	a = int(d[0] - '0')
	b = int(d[1] - '0')
	tt, err = strconv.Atoi(d[2:])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDesignation, s)
	}
	return a, b, tt, nil
}

// LineString returns the outline as an open line string in traversal order.
func LineString(o core.Outline) (geom.LineString, error) {
	if o.Len() < 2 {
		return geom.LineString{}, fmt.Errorf("%w: %d", ErrTooFewPoints, o.Len())
	}
	flat := make([]float64, 0, 2*o.Len())
	for i := range o.X {
		flat = append(flat, o.X[i], o.Z[i])
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY)), nil
}

// Polygon closes the trailing edge (last lower point back to the first upper point)
// and returns the enclosed section. Zero-thickness sections have no polygon and
// yield ErrDegenerateSection; use LineString for those.
func Polygon(o core.Outline) (geom.Polygon, error) {
	if o.Len() < 3 {
		return geom.Polygon{}, fmt.Errorf("%w: %d", ErrTooFewPoints, o.Len())
	}
	flat := make([]float64, 0, 2*(o.Len()+1))
	for i := range o.X {
		flat = append(flat, o.X[i], o.Z[i])
	}
	flat = append(flat, o.X[0], o.Z[0])

	ring := geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
	poly := geom.NewPolygon([]geom.LineString{ring})
	if err := poly.Validate(); err != nil {
		return geom.Polygon{}, fmt.Errorf("%w: %v", ErrDegenerateSection, err)
	}
	return poly, nil
}

// Metrics summarizes a section outline.
type Metrics struct {
	Area          float64
	Perimeter     float64
	CentroidX     float64
	CentroidZ     float64
	MinX          float64
	MaxX          float64
	MinZ          float64
	MaxZ          float64
	Chord         float64
	MaxThickness  float64
	MaxThicknessX float64
	TrailingGap   float64
}

// Measure computes area, bounds and thickness figures of an outline.
func Measure(o core.Outline) (Metrics, error) {
	poly, err := Polygon(o)
	if err != nil {
		return Metrics{}, err
	}

	m := Metrics{
		Area:      poly.Area(),
		Perimeter: poly.ExteriorRing().Length(),
		MinX:      floats.Min(o.X),
		MaxX:      floats.Max(o.X),
		MinZ:      floats.Min(o.Z),
		MaxZ:      floats.Max(o.Z),
	}
	m.Chord = m.MaxX - m.MinX

	if c, ok := poly.Centroid().XY(); ok {
		m.CentroidX, m.CentroidZ = c.X, c.Y
	}

	// upper and lower points pair up symmetrically around the leading edge
	le := o.LeadingEdge
	for k := 1; k <= le && le+k < o.Len(); k++ {
		up, lo := o.Point(le-k), o.Point(le+k)
		if th := up.Z - lo.Z; th > m.MaxThickness {
			m.MaxThickness = th
			m.MaxThicknessX = (up.X + lo.X) / 2
		}
	}

	first, last := o.Point(0), o.Point(o.Len()-1)
	m.TrailingGap = math.Hypot(first.X-last.X, first.Z-last.Z)

	return m, nil
}

// WKT returns the closed section polygon as well-known text.
func WKT(o core.Outline) (string, error) {
	poly, err := Polygon(o)
	if err != nil {
		return "", err
	}
	return poly.AsText(), nil
}
