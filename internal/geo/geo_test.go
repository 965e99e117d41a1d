package geo

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingsmith/nacawing/internal/outline"
	"github.com/wingsmith/nacawing/pkg/core"
)

func mustOutline(t *testing.T, a, b, tt, n int) core.Outline {
	t.Helper()
	o, err := outline.Generate(core.NewAirfoilSpec(a, b, tt, n))
	require.NoError(t, err)
	return o
}

func TestParseDesignation_Valid(t *testing.T) {
	tests := []struct {
		input    string
		a, b, tt int
	}{
		{"NACA 4412", 4, 4, 12},
		{"naca4412", 4, 4, 12},
		{"NACA-0012", 0, 0, 12},
		{"2415", 2, 4, 15},
		{"  NACA 6409 ", 6, 4, 9},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			a, b, th, err := ParseDesignation(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.a, a)
			assert.Equal(t, tt.b, b)
			assert.Equal(t, tt.tt, th)
		})
	}
}

func TestParseDesignation_Invalid(t *testing.T) {
	for _, input := range []string{"", "NACA", "NACA 441", "NACA 44120", "44a2", "NACA 23012x", "NACA 44.2"} {
		t.Run(input, func(t *testing.T) {
			_, _, _, err := ParseDesignation(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDesignation), "got %v", err)
		})
	}
}

func TestLineString_FollowsOutlineOrder(t *testing.T) {
	o := mustOutline(t, 4, 4, 12, 20)
	ls, err := LineString(o)
	require.NoError(t, err)

	seq := ls.Coordinates()
	require.Equal(t, o.Len(), seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		assert.Equal(t, o.X[i], xy.X)
		assert.Equal(t, o.Z[i], xy.Y)
	}
	assert.False(t, ls.IsClosed(), "trailing edge should stay open")
}

func TestLineString_TooShort(t *testing.T) {
	_, err := LineString(core.Outline{X: []float64{0}, Z: []float64{0}})
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestPolygon_ClosesTrailingEdge(t *testing.T) {
	o := mustOutline(t, 4, 4, 12, 50)
	poly, err := Polygon(o)
	require.NoError(t, err)

	ring := poly.ExteriorRing()
	assert.True(t, ring.IsClosed())
	assert.True(t, ring.IsSimple())
	assert.Equal(t, o.Len()+1, ring.Coordinates().Length())
}

func TestPolygon_TooShort(t *testing.T) {
	_, err := Polygon(core.Outline{X: []float64{1, 0}, Z: []float64{0, 0}, LeadingEdge: 1})
	assert.True(t, errors.Is(err, ErrTooFewPoints))
}

func TestPolygon_ZeroThicknessIsDegenerate(t *testing.T) {
	for _, d := range [][3]int{{0, 0, 0}, {2, 4, 0}} {
		o := mustOutline(t, d[0], d[1], d[2], 20)
		name := core.NewAirfoilSpec(d[0], d[1], d[2], 20).Designation()

		t.Run(name, func(t *testing.T) {
			_, err := Polygon(o)
			assert.ErrorIs(t, err, ErrDegenerateSection)

			_, err = WKT(o)
			assert.ErrorIs(t, err, ErrDegenerateSection)

			_, err = Measure(o)
			assert.ErrorIs(t, err, ErrDegenerateSection)

			// the open outline is still usable
			ls, err := LineString(o)
			require.NoError(t, err)
			assert.Equal(t, o.Len(), ls.Coordinates().Length())
		})
	}
}

func TestMeasure_NACA0012(t *testing.T) {
	m, err := Measure(mustOutline(t, 0, 0, 12, 100))
	require.NoError(t, err)

	// thin-section area of NACA 0012 is about 0.0821 c^2
	assert.InDelta(t, 0.0821, m.Area, 1e-3)
	assert.InDelta(t, 1.0, m.Chord, 1e-9)
	assert.InDelta(t, 0.12, m.MaxThickness, 1e-3)
	assert.InDelta(t, 0.3, m.MaxThicknessX, 0.03)
	assert.InDelta(t, 0, m.CentroidZ, 1e-9)
	assert.InDelta(t, 0.42, m.CentroidX, 0.02)
	assert.InDelta(t, -m.MinZ, m.MaxZ, 1e-12)
	assert.Greater(t, m.Perimeter, 2.0)
	assert.InDelta(t, 0.00252, m.TrailingGap, 1e-4)
}

func TestMeasure_CamberedSectionSitsAboveChord(t *testing.T) {
	m, err := Measure(mustOutline(t, 4, 4, 12, 100))
	require.NoError(t, err)

	assert.Greater(t, m.CentroidZ, 0.0)
	assert.Greater(t, m.MaxZ, -m.MinZ)
}

func TestMeasure_ScalesWithChord(t *testing.T) {
	spec := core.NewAirfoilSpec(2, 4, 12, 60)
	unit, err := outline.Generate(spec)
	require.NoError(t, err)
	spec.Scale = 0.24
	scaled, err := outline.Generate(spec)
	require.NoError(t, err)

	mu, err := Measure(unit)
	require.NoError(t, err)
	ms, err := Measure(scaled)
	require.NoError(t, err)

	assert.InDelta(t, mu.Area*0.24*0.24, ms.Area, 1e-12)
	assert.InDelta(t, mu.Chord*0.24, ms.Chord, 1e-12)
	assert.InDelta(t, mu.MaxThickness*0.24, ms.MaxThickness, 1e-12)
}

func TestWKT(t *testing.T) {
	s, err := WKT(mustOutline(t, 0, 0, 12, 4))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(s, "POLYGON(("), s)
	assert.Contains(t, s, "0 0,")
}
