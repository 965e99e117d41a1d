// pkg/core/airfoil.go
package core

import (
	"fmt"
	"strings"
)

// Spacing selects how chord positions are distributed between the leading and trailing edge.
type Spacing int

const (
	// CosineSpacing clusters samples near both edges. Default.
	CosineSpacing Spacing = iota
	// LinearSpacing distributes samples uniformly along the chord.
	LinearSpacing
)

func (s Spacing) String() string {
	switch s {
	case CosineSpacing:
		return "cosine"
	case LinearSpacing:
		return "linear"
	default:
		return fmt.Sprintf("Spacing(%d)", int(s))
	}
}

// ParseSpacing converts a config string to a Spacing, ignoring case. The empty
// string means cosine; ok is false for anything unrecognized.
func ParseSpacing(s string) (sp Spacing, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cosine":
		return CosineSpacing, true
	case "linear":
		return LinearSpacing, true
	default:
		return CosineSpacing, false
	}
}

// CamberVariant selects the denominator used on the aft branch of the camber line.
type CamberVariant int

const (
	// CompatCamber uses (1-p)^2 on the aft branch. Default.
	CompatCamber CamberVariant = iota
	// ClassicCamber uses (1-p^2), the textbook NACA 4-digit definition.
	ClassicCamber
)

func (v CamberVariant) String() string {
	switch v {
	case CompatCamber:
		return "compat"
	case ClassicCamber:
		return "classic"
	default:
		return fmt.Sprintf("CamberVariant(%d)", int(v))
	}
}

// ParseCamberVariant converts a config string to a CamberVariant, ignoring case. The
// empty string means compat; ok is false for anything unrecognized.
func ParseCamberVariant(s string) (v CamberVariant, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "compat":
		return CompatCamber, true
	case "classic":
		return ClassicCamber, true
	default:
		return CompatCamber, false
	}
}

// AirfoilSpec describes a NACA 4-digit section "abtt" sampled with Points outline points.
type AirfoilSpec struct {
	MaxCamber      int // a: maximum camber in percent of chord, 0-9
	CamberPosition int // b: location of maximum camber in tenths of chord, 0-9
	Thickness      int // tt: maximum thickness in percent of chord, 0-99
	Points         int // total point budget, odd values round down
	Scale          float64
	Spacing        Spacing
	Variant        CamberVariant
}

// NewAirfoilSpec returns a unit-chord, cosine-spaced spec.
func NewAirfoilSpec(a, b, tt, n int) AirfoilSpec {
	return AirfoilSpec{
		MaxCamber:      a,
		CamberPosition: b,
		Thickness:      tt,
		Points:         n,
		Scale:          1,
	}
}

// Designation returns the four-digit name, e.g. "NACA 4412".
func (s AirfoilSpec) Designation() string {
	return fmt.Sprintf("NACA %d%d%02d", s.MaxCamber, s.CamberPosition, s.Thickness)
}

// ChordSample is the evaluated camber line and thickness at one chord position.
type ChordSample struct {
	X             float64
	Camber        float64
	Slope         float64
	HalfThickness float64
}
