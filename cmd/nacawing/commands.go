package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/wingsmith/nacawing/internal/config"
	"github.com/wingsmith/nacawing/internal/dispatcher"
	"github.com/wingsmith/nacawing/internal/geo"
	"github.com/wingsmith/nacawing/internal/influx"
	"github.com/wingsmith/nacawing/internal/outline"
	"github.com/wingsmith/nacawing/internal/wing"
	"github.com/wingsmith/nacawing/pkg/core"
)

// errUsage marks bad command-line arguments.
var errUsage = errors.New("usage")

// app holds what the command handlers share.
type app struct {
	airfoil config.AirfoilConfig
	wing    wing.Config
	stats   *influx.Manager // nil when the sink is disabled
	log     zerolog.Logger

	current atomic.Value // designation being generated, for log context
}

func (a *app) designation() string {
	if d, ok := a.current.Load().(string); ok {
		return d
	}
	return ""
}

func (a *app) register(d *dispatcher.Dispatcher) {
	d.Register("outline", a.handleOutline, dispatcher.Logged(),
		dispatcher.Usage("outline [designation] [points] [scale]   print x z rows"))
	d.Register("wkt", a.handleWKT, dispatcher.Logged(),
		dispatcher.Usage("wkt [designation] [points] [scale]       print the closed section as WKT"))
	d.Register("stats", a.handleStats, dispatcher.Logged(),
		dispatcher.Usage("stats [designation] [points] [scale]     print section metrics"))
	d.Register("wing", a.handleWing, dispatcher.Logged(),
		dispatcher.Usage("wing [designation] [points] [scale]      dry-run the wing build"))
	d.Register("compare", a.handleCompare, dispatcher.Logged(),
		dispatcher.Usage("compare <designation> <points> <json>    max deviation from a reference"))
}

// specFromArgs reads [designation] [points] [scale], falling back to config.
func (a *app) specFromArgs(args []string) (core.AirfoilSpec, error) {
	designation := a.airfoil.Designation
	if len(args) > 0 {
		designation = args[0]
	}
	aa, b, tt, err := geo.ParseDesignation(designation)
	if err != nil {
		return core.AirfoilSpec{}, err
	}
	spec, err := a.airfoil.Spec(aa, b, tt)
	if err != nil {
		return core.AirfoilSpec{}, err
	}

	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return core.AirfoilSpec{}, fmt.Errorf("%w: points %q is not an integer", errUsage, args[1])
		}
		spec.Points = n
	}
	if len(args) > 2 {
		s, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return core.AirfoilSpec{}, fmt.Errorf("%w: scale %q is not a number", errUsage, args[2])
		}
		spec.Scale = s
	}
	if len(args) > 3 {
		return core.AirfoilSpec{}, fmt.Errorf("%w: too many arguments", errUsage)
	}
	return spec, nil
}

func (a *app) generate(ctx context.Context, spec core.AirfoilSpec) (core.Outline, error) {
	a.current.Store(spec.Designation())
	defer a.current.Store("")

	o, err := outline.Generate(spec)
	if err != nil {
		return core.Outline{}, err
	}
	a.record(ctx, spec, o)
	return o, nil
}

// record pushes section statistics to InfluxDB. Failures are logged, never returned.
func (a *app) record(_ context.Context, spec core.AirfoilSpec, o core.Outline) {
	if a.stats == nil {
		return
	}
	m, err := geo.Measure(o)
	if err != nil {
		a.log.Warn().Err(err).Str("airfoil", spec.Designation()).Msg("Could not measure section")
		return
	}
	if err := a.stats.WritePoint(influx.SectionPoint(spec, m, time.Now())); err != nil {
		a.log.Debug().Err(err).Msg("Section stats not stored")
	}
}

func (a *app) handleOutline(ctx context.Context, e dispatcher.Event) (any, error) {
	spec, err := a.specFromArgs(e.Args)
	if err != nil {
		return nil, err
	}
	o, err := a.generate(ctx, spec)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i := range o.Len() {
		fmt.Fprintf(&b, "%.9f %.9f\n", o.X[i], o.Z[i])
	}
	return b.String(), nil
}

func (a *app) handleWKT(ctx context.Context, e dispatcher.Event) (any, error) {
	spec, err := a.specFromArgs(e.Args)
	if err != nil {
		return nil, err
	}
	o, err := a.generate(ctx, spec)
	if err != nil {
		return nil, err
	}
	wkt, err := geo.WKT(o)
	if err != nil {
		return nil, err
	}
	return wkt + "\n", nil
}

func (a *app) handleStats(ctx context.Context, e dispatcher.Event) (any, error) {
	spec, err := a.specFromArgs(e.Args)
	if err != nil {
		return nil, err
	}
	o, err := a.generate(ctx, spec)
	if err != nil {
		return nil, err
	}
	m, err := geo.Measure(o)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "airfoil         %s\n", spec.Designation())
	fmt.Fprintf(&b, "points          %d\n", o.Len())
	fmt.Fprintf(&b, "leading edge    %d\n", o.LeadingEdge)
	fmt.Fprintf(&b, "chord           %.6f\n", m.Chord)
	fmt.Fprintf(&b, "area            %.6f\n", m.Area)
	fmt.Fprintf(&b, "perimeter       %.6f\n", m.Perimeter)
	fmt.Fprintf(&b, "centroid        %.6f %.6f\n", m.CentroidX, m.CentroidZ)
	fmt.Fprintf(&b, "bounds          %.6f %.6f %.6f %.6f\n", m.MinX, m.MinZ, m.MaxX, m.MaxZ)
	fmt.Fprintf(&b, "max thickness   %.6f at x=%.6f\n", m.MaxThickness, m.MaxThicknessX)
	fmt.Fprintf(&b, "trailing gap    %.6f\n", m.TrailingGap)
	return b.String(), nil
}

func (a *app) handleWing(ctx context.Context, e dispatcher.Event) (any, error) {
	spec, err := a.specFromArgs(e.Args)
	if err != nil {
		return nil, err
	}
	o, err := a.generate(ctx, spec)
	if err != nil {
		return nil, err
	}

	rec := wing.NewRecorder()
	s, err := wing.Build(rec, o, a.wing)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, op := range rec.Ops {
		b.WriteString(op.String())
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "surface %d: leading edge point %d, curves upper=%d lower=%d trailing=%d\n",
		s.Surface, s.LeadingEdge, s.Upper, s.Lower, s.TrailingEdge)
	return b.String(), nil
}

func (a *app) handleCompare(ctx context.Context, e dispatcher.Event) (any, error) {
	if len(e.Args) != 3 {
		return nil, fmt.Errorf("%w: compare <designation> <points> <json>", errUsage)
	}
	spec, err := a.specFromArgs(e.Args[:2])
	if err != nil {
		return nil, err
	}
	ref, err := geo.ParsePolyline(e.Args[2])
	if err != nil {
		return nil, err
	}
	o, err := a.generate(ctx, spec)
	if err != nil {
		return nil, err
	}
	dev, at, err := geo.MaxDeviation(o, ref)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("max deviation %.9g at point %d\n", dev, at), nil
}
