// Package outline assembles the closed-contour coordinate outline of a NACA 4-digit section.
package outline

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wingsmith/nacawing/internal/naca"
	"github.com/wingsmith/nacawing/pkg/core"
)

// ErrInvalidSpec is returned when the section parameters cannot produce an outline.
var ErrInvalidSpec = errors.New("invalid airfoil spec")

// ErrNonFinite is returned when evaluation produced NaN or Inf coordinates.
var ErrNonFinite = errors.New("non-finite outline coordinate")

// Validate rejects parameter combinations that would otherwise surface as
// NaN, Inf or empty outlines.
func Validate(spec core.AirfoilSpec) error {
	switch {
	case spec.MaxCamber < 0 || spec.MaxCamber > 9:
		return fmt.Errorf("%w: max camber digit %d out of range 0-9", ErrInvalidSpec, spec.MaxCamber)
	case spec.CamberPosition < 0 || spec.CamberPosition > 9:
		return fmt.Errorf("%w: camber position digit %d out of range 0-9", ErrInvalidSpec, spec.CamberPosition)
	case spec.Thickness < 0 || spec.Thickness > 99:
		return fmt.Errorf("%w: thickness %d out of range 0-99", ErrInvalidSpec, spec.Thickness)
	case spec.MaxCamber > 0 && spec.CamberPosition == 0:
		return fmt.Errorf("%w: cambered section %s needs a non-zero camber position", ErrInvalidSpec, spec.Designation())
	case spec.Points < 2:
		return fmt.Errorf("%w: point count %d, need at least 2", ErrInvalidSpec, spec.Points)
	case math.IsNaN(spec.Scale) || math.IsInf(spec.Scale, 0) || spec.Scale <= 0:
		return fmt.Errorf("%w: scale %v must be positive and finite", ErrInvalidSpec, spec.Scale)
	case spec.Spacing != core.CosineSpacing && spec.Spacing != core.LinearSpacing:
		return fmt.Errorf("%w: unknown spacing %s", ErrInvalidSpec, spec.Spacing)
	case spec.Variant != core.CompatCamber && spec.Variant != core.ClassicCamber:
		return fmt.Errorf("%w: unknown camber variant %s", ErrInvalidSpec, spec.Variant)
	}
	return nil
}

// HalfSideCount returns the number of chord samples per surface, including the
// leading-edge sample. Odd point counts round down.
func HalfSideCount(n int) int {
	if n%2 == 1 {
		n--
	}
	return n/2 + 1
}

// ChordPositions returns the chord positions sampled on each surface for a point
// budget of n, leading edge excluded. n must be at least 2.
func ChordPositions(n int, spacing core.Spacing) []float64 {
	x := make([]float64, HalfSideCount(n))
	switch spacing {
	case core.LinearSpacing:
		floats.Span(x, 0, 1)
	default:
		floats.Span(x, 0, math.Pi)
		for i, beta := range x {
			x[i] = (1 - math.Cos(beta)) / 2
		}
	}
	return x[1:]
}

// Generate computes the outline of spec.
//
// The result holds the upper surface from the trailing edge forward, the leading
// edge (0,0) at index LeadingEdge, and the lower surface back to the trailing edge.
// Coordinates are multiplied by spec.Scale.
func Generate(spec core.AirfoilSpec) (core.Outline, error) {
	if err := Validate(spec); err != nil {
		return core.Outline{}, err
	}

	eval := naca.NewEvaluator(spec)
	xc := ChordPositions(spec.Points, spec.Spacing)

	upper := make([]core.Position2D, len(xc))
	lower := make([]core.Position2D, len(xc))
	for i, x := range xc {
		upper[i], lower[i] = naca.Surface(eval.Sample(x))
	}

	total := 2*len(xc) + 1
	out := core.Outline{
		X:           make([]float64, 0, total),
		Z:           make([]float64, 0, total),
		LeadingEdge: len(xc),
	}
	for i := len(upper) - 1; i >= 0; i-- {
		out.X = append(out.X, upper[i].X)
		out.Z = append(out.Z, upper[i].Z)
	}
	out.X = append(out.X, 0)
	out.Z = append(out.Z, 0)
	for _, p := range lower {
		out.X = append(out.X, p.X)
		out.Z = append(out.Z, p.Z)
	}

	if spec.Scale != 1 {
		floats.Scale(spec.Scale, out.X)
		floats.Scale(spec.Scale, out.Z)
	}

	for i := range out.X {
		if !isFinite(out.X[i]) || !isFinite(out.Z[i]) {
			return core.Outline{}, fmt.Errorf("%w: %s point %d", ErrNonFinite, spec.Designation(), i)
		}
	}

	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
