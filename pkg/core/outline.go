// pkg/core/outline.go
package core

// Position2D represents a point in the section plane (x along the chord, z normal to it).
type Position2D struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Polyline is an ordered list of section points.
type Polyline []Position2D

// Outline is a single traversal of an airfoil section: the upper surface from the
// trailing edge to the leading edge, the leading-edge point once, then the lower
// surface back to the trailing edge. The trailing edge is left open.
type Outline struct {
	X []float64
	Z []float64

	// LeadingEdge is the index of the leading-edge point. Points before it belong to
	// the upper surface, points after it to the lower surface.
	LeadingEdge int
}

// Len returns the number of points.
func (o Outline) Len() int {
	return len(o.X)
}

// Point returns the i-th point.
func (o Outline) Point(i int) Position2D {
	return Position2D{X: o.X[i], Z: o.Z[i]}
}

// Points returns all points in traversal order.
func (o Outline) Points() Polyline {
	pts := make(Polyline, o.Len())
	for i := range pts {
		pts[i] = o.Point(i)
	}
	return pts
}

// Upper returns the upper surface from the trailing edge up to and including the leading edge.
// It is nil for an empty outline.
func (o Outline) Upper() Polyline {
	if o.Len() == 0 || o.LeadingEdge < 0 || o.LeadingEdge >= o.Len() {
		return nil
	}
	return o.Points()[:o.LeadingEdge+1]
}

// Lower returns the lower surface from the leading edge (inclusive) to the trailing edge.
// It is nil for an empty outline.
func (o Outline) Lower() Polyline {
	if o.Len() == 0 || o.LeadingEdge < 0 || o.LeadingEdge >= o.Len() {
		return nil
	}
	return o.Points()[o.LeadingEdge:]
}
