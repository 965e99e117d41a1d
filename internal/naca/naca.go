// Package naca evaluates the camber line and thickness envelope of NACA 4-digit sections.
//
// All functions work on a unit chord, x in [0,1].
package naca

import (
	"math"

	"github.com/wingsmith/nacawing/pkg/core"
)

// Thickness envelope coefficients (open trailing edge).
const (
	a0 = 0.2969
	a1 = -0.1260
	a2 = -0.3516
	a3 = 0.2843
	a4 = -0.1015
)

// Params converts the designation digits to chord fractions: m = a/100, p = b/10, t = tt/100.
func Params(a, b, tt int) (m, p, t float64) {
	return float64(a) / 100, float64(b) / 10, float64(tt) / 100
}

// CamberHeight returns the camber line height y_c at x.
// The aft branch divides by (1-p)^2.
func CamberHeight(x, m, p float64) float64 {
	return camberHeight(x, m, p, core.CompatCamber)
}

// CamberSlope returns dy_c/dx at x.
// The aft branch divides by (1-p)^2.
func CamberSlope(x, m, p float64) float64 {
	return camberSlope(x, m, p, core.CompatCamber)
}

// HalfThickness returns the half-thickness y_t at x for maximum thickness t.
func HalfThickness(x, t float64) float64 {
	return 5 * t * (a0*math.Sqrt(x) + a1*x + a2*x*x + a3*x*x*x + a4*x*x*x*x)
}

func aftDenominator(p float64, v core.CamberVariant) float64 {
	if v == core.ClassicCamber {
		return 1 - p*p
	}
	return (1 - p) * (1 - p)
}

func camberHeight(x, m, p float64, v core.CamberVariant) float64 {
	if m == 0 {
		return 0
	}
	if x <= p {
		return m / (p * p) * (2*p*x - x*x)
	}
	return m / aftDenominator(p, v) * (1 - 2*p + 2*p*x - x*x)
}

func camberSlope(x, m, p float64, v core.CamberVariant) float64 {
	if m == 0 {
		return 0
	}
	if x <= p {
		return 2 * m / (p * p) * (p - x)
	}
	return 2 * m / aftDenominator(p, v) * (p - x)
}

// Evaluator samples one section shape.
type Evaluator struct {
	M       float64
	P       float64
	T       float64
	Variant core.CamberVariant
}

// NewEvaluator builds an Evaluator from the designation digits of spec.
func NewEvaluator(spec core.AirfoilSpec) Evaluator {
	m, p, t := Params(spec.MaxCamber, spec.CamberPosition, spec.Thickness)
	return Evaluator{M: m, P: p, T: t, Variant: spec.Variant}
}

// Sample evaluates camber height, camber slope and half-thickness at x.
func (e Evaluator) Sample(x float64) core.ChordSample {
	return core.ChordSample{
		X:             x,
		Camber:        camberHeight(x, e.M, e.P, e.Variant),
		Slope:         camberSlope(x, e.M, e.P, e.Variant),
		HalfThickness: HalfThickness(x, e.T),
	}
}

// Surface returns the upper and lower surface points for a sample. The thickness is
// applied perpendicular to the camber line.
func Surface(s core.ChordSample) (upper, lower core.Position2D) {
	theta := math.Atan(s.Slope)
	sin, cos := math.Sincos(theta)
	upper = core.Position2D{X: s.X - s.HalfThickness*sin, Z: s.Camber + s.HalfThickness*cos}
	lower = core.Position2D{X: s.X + s.HalfThickness*sin, Z: s.Camber - s.HalfThickness*cos}
	return upper, lower
}
