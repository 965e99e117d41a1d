package wing

import (
	"errors"
	"fmt"
	"strings"
)

// Op kinds recorded by Recorder.
const (
	OpPoint        = "point"
	OpPolyline     = "polyline"
	OpLine         = "line"
	OpCurveLoop    = "curve_loop"
	OpPlaneSurface = "plane_surface"
	OpRotate       = "rotate"
	OpTwist        = "twist"
	OpSynchronize  = "synchronize"
	OpOption       = "option"
)

// ErrInjected is returned by a Recorder for the op kind named in FailOn.
var ErrInjected = errors.New("injected kernel failure")

// Op is one recorded kernel call.
type Op struct {
	Kind   string
	Tag    int
	Refs   []int
	Coords []float64
	Name   string
	Value  float64
}

func (op Op) String() string {
	var b strings.Builder
	b.WriteString(op.Kind)
	if op.Tag != 0 {
		fmt.Fprintf(&b, " #%d", op.Tag)
	}
	if op.Name != "" {
		fmt.Fprintf(&b, " %s=%g", op.Name, op.Value)
	}
	if len(op.Refs) > 0 {
		fmt.Fprintf(&b, " refs=%v", op.Refs)
	}
	if len(op.Coords) > 0 {
		fmt.Fprintf(&b, " %g", op.Coords)
	}
	return b.String()
}

// Recorder is an in-memory Kernel. It numbers entities per dimension, starting at 1,
// and records every call in order.
type Recorder struct {
	// FailOn makes the first call of this op kind return ErrInjected.
	FailOn string

	Ops []Op

	points   int
	curves   int
	loops    int
	surfaces int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) record(op Op) error {
	if r.FailOn != "" && op.Kind == r.FailOn {
		r.FailOn = ""
		return fmt.Errorf("%w: %s", ErrInjected, op.Kind)
	}
	r.Ops = append(r.Ops, op)
	return nil
}

// AddPoint records a point.
func (r *Recorder) AddPoint(x, y, z float64) (int, error) {
	if err := r.record(Op{Kind: OpPoint, Tag: r.points + 1, Coords: []float64{x, y, z}}); err != nil {
		return 0, err
	}
	r.points++
	return r.points, nil
}

// AddPolyline records a polyline curve through points.
func (r *Recorder) AddPolyline(points []int) (int, error) {
	return r.addCurve(OpPolyline, points)
}

// AddLine records a straight curve between two points.
func (r *Recorder) AddLine(start, end int) (int, error) {
	return r.addCurve(OpLine, []int{start, end})
}

func (r *Recorder) addCurve(kind string, points []int) (int, error) {
	refs := append([]int(nil), points...)
	if err := r.record(Op{Kind: kind, Tag: r.curves + 1, Refs: refs}); err != nil {
		return 0, err
	}
	r.curves++
	return r.curves, nil
}

// AddCurveLoop records a closed loop of curves.
func (r *Recorder) AddCurveLoop(curves []int) (int, error) {
	refs := append([]int(nil), curves...)
	if err := r.record(Op{Kind: OpCurveLoop, Tag: r.loops + 1, Refs: refs}); err != nil {
		return 0, err
	}
	r.loops++
	return r.loops, nil
}

// AddPlaneSurface records a planar surface bounded by loops.
func (r *Recorder) AddPlaneSurface(loops []int) (int, error) {
	refs := append([]int(nil), loops...)
	if err := r.record(Op{Kind: OpPlaneSurface, Tag: r.surfaces + 1, Refs: refs}); err != nil {
		return 0, err
	}
	r.surfaces++
	return r.surfaces, nil
}

// Rotate records a rotation of entity (dim, tag).
func (r *Recorder) Rotate(dim, tag int, origin, axis Vec3, angle float64) error {
	return r.record(Op{
		Kind:   OpRotate,
		Refs:   []int{dim, tag},
		Coords: []float64{origin.X, origin.Y, origin.Z, axis.X, axis.Y, axis.Z, angle},
	})
}

// Twist records a twisted extrusion of entity (dim, tag).
func (r *Recorder) Twist(dim, tag int, origin, translation, axis Vec3, angle float64) error {
	return r.record(Op{
		Kind: OpTwist,
		Refs: []int{dim, tag},
		Coords: []float64{
			origin.X, origin.Y, origin.Z,
			translation.X, translation.Y, translation.Z,
			axis.X, axis.Y, axis.Z,
			angle,
		},
	})
}

// Synchronize records a model synchronization.
func (r *Recorder) Synchronize() error {
	return r.record(Op{Kind: OpSynchronize})
}

// SetOption records a viewer option.
func (r *Recorder) SetOption(name string, value float64) error {
	return r.record(Op{Kind: OpOption, Name: name, Value: value})
}

// Find returns the recorded ops of one kind.
func (r *Recorder) Find(kind string) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			ops = append(ops, op)
		}
	}
	return ops
}
