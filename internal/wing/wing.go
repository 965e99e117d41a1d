// Package wing hands a section outline to a geometry kernel that turns it into a
// rotated, twisted wing surface. The kernel itself lives outside this module; Kernel
// is the narrow set of calls Build issues against it.
package wing

import (
	"errors"
	"fmt"
	"math"

	"github.com/wingsmith/nacawing/pkg/core"
)

// ErrOutlineTooShort is returned when an outline cannot form upper and lower polylines
var ErrOutlineTooShort = errors.New("outline too short for a section surface")

// ErrMalformedOutline is returned when coordinate slices or the leading-edge index disagree
var ErrMalformedOutline = errors.New("malformed outline")

// Surface dimension used for dimension/tag pairs.
const Surface = 2

// Vec3 is a point or direction in model space.
type Vec3 struct {
	X, Y, Z float64
}

// Kernel is the subset of a CAD geometry kernel used to build a wing section.
// Add* calls return the tag of the created entity.
type Kernel interface {
	AddPoint(x, y, z float64) (int, error)
	AddPolyline(points []int) (int, error)
	AddLine(start, end int) (int, error)
	AddCurveLoop(curves []int) (int, error)
	AddPlaneSurface(loops []int) (int, error)
	Rotate(dim, tag int, origin, axis Vec3, angle float64) error
	Twist(dim, tag int, origin, translation, axis Vec3, angle float64) error
	Synchronize() error
	SetOption(name string, value float64) error
}

// Config holds the transform and view settings for one wing build.
type Config struct {
	// ViewRotation is the initial camera rotation about x, y and z, in degrees.
	ViewRotation [3]float64
	// RotateDeg rotates the section about +y through the origin.
	RotateDeg float64
	// TwistDeg is the linear twist applied over Span, about -y.
	TwistDeg float64
	// Span is the extrusion distance along +y.
	Span float64

	Axes         int
	AxesMikado   bool
	Trackball    bool
	ShowPoints   bool
	ShowSurfaces bool
}

// DefaultConfig returns the settings of the reference wing: 35 degree rotation,
// 25 degree linear twist over 0.9525 span.
func DefaultConfig() Config {
	return Config{
		ViewRotation: [3]float64{90, 360, 0},
		RotateDeg:    35,
		TwistDeg:     25,
		Span:         0.9525,
		Axes:         2,
		AxesMikado:   true,
		Trackball:    false,
		ShowPoints:   false,
		ShowSurfaces: true,
	}
}

// Section holds the kernel tags created for one outline.
type Section struct {
	Points       []int
	LeadingEdge  int // tag of the leading-edge point
	Upper        int
	Lower        int
	TrailingEdge int
	Loop         int
	Surface      int
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

func boolOption(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Build places the outline in the x-z plane, splits it at o.LeadingEdge into upper and
// lower polylines, closes the trailing edge, fills the section and applies the rotate
// and twist transforms of cfg.
func Build(k Kernel, o core.Outline, cfg Config) (Section, error) {
	if len(o.X) != len(o.Z) {
		return Section{}, fmt.Errorf("%w: %d x values, %d z values", ErrMalformedOutline, len(o.X), len(o.Z))
	}
	if o.Len() < 3 {
		return Section{}, fmt.Errorf("%w: %d points", ErrOutlineTooShort, o.Len())
	}
	if o.LeadingEdge < 1 || o.LeadingEdge > o.Len()-2 {
		return Section{}, fmt.Errorf("%w: leading edge index %d of %d points", ErrMalformedOutline, o.LeadingEdge, o.Len())
	}

	s := Section{Points: make([]int, o.Len())}
	for i := range o.X {
		tag, err := k.AddPoint(o.X[i], 0, o.Z[i])
		if err != nil {
			return Section{}, fmt.Errorf("adding point %d: %w", i, err)
		}
		s.Points[i] = tag
	}
	s.LeadingEdge = s.Points[o.LeadingEdge]

	upper := s.Points[:o.LeadingEdge+1]
	lower := s.Points[o.LeadingEdge:]

	var err error
	if s.Upper, err = k.AddPolyline(upper); err != nil {
		return Section{}, fmt.Errorf("adding upper polyline: %w", err)
	}
	if s.Lower, err = k.AddPolyline(lower); err != nil {
		return Section{}, fmt.Errorf("adding lower polyline: %w", err)
	}
	if s.TrailingEdge, err = k.AddLine(lower[len(lower)-1], upper[0]); err != nil {
		return Section{}, fmt.Errorf("adding trailing edge: %w", err)
	}
	if s.Loop, err = k.AddCurveLoop([]int{s.Upper, s.Lower, s.TrailingEdge}); err != nil {
		return Section{}, fmt.Errorf("adding curve loop: %w", err)
	}
	if s.Surface, err = k.AddPlaneSurface([]int{s.Loop}); err != nil {
		return Section{}, fmt.Errorf("adding plane surface: %w", err)
	}

	origin := Vec3{}
	if err := k.Rotate(Surface, s.Surface, origin, Vec3{Y: 1}, radians(cfg.RotateDeg)); err != nil {
		return Section{}, fmt.Errorf("rotating section: %w", err)
	}
	if err := k.Twist(Surface, s.Surface, origin, Vec3{Y: cfg.Span}, Vec3{Y: -1}, radians(cfg.TwistDeg)); err != nil {
		return Section{}, fmt.Errorf("twisting section: %w", err)
	}
	if err := k.Synchronize(); err != nil {
		return Section{}, fmt.Errorf("synchronizing model: %w", err)
	}

	if err := applyView(k, cfg); err != nil {
		return Section{}, err
	}

	return s, nil
}

func applyView(k Kernel, cfg Config) error {
	options := []struct {
		name  string
		value float64
	}{
		{"General.Axes", float64(cfg.Axes)},
		{"General.AxesMikado", boolOption(cfg.AxesMikado)},
		{"General.Trackball", boolOption(cfg.Trackball)},
		{"General.RotationX", cfg.ViewRotation[0]},
		{"General.RotationY", cfg.ViewRotation[1]},
		{"General.RotationZ", cfg.ViewRotation[2]},
		{"Geometry.Points", boolOption(cfg.ShowPoints)},
		{"Geometry.Surfaces", boolOption(cfg.ShowSurfaces)},
	}
	for _, opt := range options {
		if err := k.SetOption(opt.name, opt.value); err != nil {
			return fmt.Errorf("setting %s: %w", opt.name, err)
		}
	}
	return nil
}
