package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingsmith/nacawing/internal/config"
	"github.com/wingsmith/nacawing/internal/dispatcher"
	"github.com/wingsmith/nacawing/internal/geo"
	"github.com/wingsmith/nacawing/internal/logging"
	"github.com/wingsmith/nacawing/internal/outline"
	"github.com/wingsmith/nacawing/internal/wing"
	"github.com/wingsmith/nacawing/pkg/core"
)

func newTestApp(t *testing.T) (*app, *dispatcher.Dispatcher) {
	t.Helper()
	a := &app{
		airfoil: config.AirfoilConfig{Designation: "4412", Points: 50, Scale: 0.24, Spacing: "cosine", Variant: "compat"},
		wing:    wing.DefaultConfig(),
		log:     zerolog.Nop(),
	}
	d, err := dispatcher.New(logging.NewDispatcherLogger(zerolog.Nop()))
	require.NoError(t, err)
	a.register(d)
	return a, d
}

func dispatch(t *testing.T, d *dispatcher.Dispatcher, cmd string, args ...string) (string, error) {
	t.Helper()
	result, err := d.Dispatch(context.Background(), dispatcher.Event{Command: cmd, Args: args})
	if err != nil {
		return "", err
	}
	s, ok := result.(string)
	require.True(t, ok, "result is %T", result)
	return s, nil
}

func TestSpecFromArgs_Defaults(t *testing.T) {
	a, _ := newTestApp(t)

	spec, err := a.specFromArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, core.AirfoilSpec{
		MaxCamber: 4, CamberPosition: 4, Thickness: 12,
		Points: 50, Scale: 0.24,
	}, spec)
}

func TestSpecFromArgs_Overrides(t *testing.T) {
	a, _ := newTestApp(t)

	spec, err := a.specFromArgs([]string{"NACA 2415", "80", "1.5"})
	require.NoError(t, err)
	assert.Equal(t, 2, spec.MaxCamber)
	assert.Equal(t, 4, spec.CamberPosition)
	assert.Equal(t, 15, spec.Thickness)
	assert.Equal(t, 80, spec.Points)
	assert.Equal(t, 1.5, spec.Scale)
}

func TestSpecFromArgs_Errors(t *testing.T) {
	a, _ := newTestApp(t)

	_, err := a.specFromArgs([]string{"44123"})
	assert.ErrorIs(t, err, geo.ErrInvalidDesignation)

	_, err = a.specFromArgs([]string{"4412", "many"})
	assert.ErrorIs(t, err, errUsage)

	_, err = a.specFromArgs([]string{"4412", "50", "big"})
	assert.ErrorIs(t, err, errUsage)

	_, err = a.specFromArgs([]string{"4412", "50", "1", "extra"})
	assert.ErrorIs(t, err, errUsage)
}

func TestOutlineCommand(t *testing.T) {
	_, d := newTestApp(t)

	out, err := dispatch(t, d, "outline", "0012", "10", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 11)
	assert.Equal(t, "0.000000000 0.000000000", lines[5], "leading edge sits in the middle")
	assert.True(t, strings.HasPrefix(lines[0], "1.000000000 "), lines[0])
}

func TestOutlineCommand_InvalidSpec(t *testing.T) {
	_, d := newTestApp(t)

	_, err := dispatch(t, d, "outline", "4012")
	assert.ErrorIs(t, err, outline.ErrInvalidSpec)

	_, err = dispatch(t, d, "outline", "4412", "1")
	assert.ErrorIs(t, err, outline.ErrInvalidSpec)
}

func TestWKTCommand(t *testing.T) {
	_, d := newTestApp(t)

	out, err := dispatch(t, d, "wkt", "2412", "20")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "POLYGON(("), out)
	assert.True(t, strings.HasSuffix(out, "))\n"), out)
}

func TestStatsCommand(t *testing.T) {
	_, d := newTestApp(t)

	out, err := dispatch(t, d, "stats", "0012", "100", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "airfoil         NACA 0012\n")
	assert.Contains(t, out, "points          101\n")
	assert.Contains(t, out, "leading edge    50\n")
	assert.Contains(t, out, "chord           1.000000\n")
}

func TestWingCommand(t *testing.T) {
	_, d := newTestApp(t)

	out, err := dispatch(t, d, "wing", "4412", "6")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// 7 points, 2 polylines, 1 line, loop, surface, rotate, twist, sync, then view options
	assert.True(t, strings.HasPrefix(lines[0], "point #1 "), lines[0])
	assert.Contains(t, out, "polyline #1 refs=[1 2 3 4]\n")
	assert.Contains(t, out, "polyline #2 refs=[4 5 6 7]\n")
	assert.Contains(t, out, "line #3 refs=[7 1]\n")
	assert.Contains(t, out, "synchronize\n")
	assert.Equal(t, "surface 1: leading edge point 4, curves upper=1 lower=2 trailing=3", lines[len(lines)-1])
}

func TestCompareCommand(t *testing.T) {
	_, d := newTestApp(t)

	spec := core.NewAirfoilSpec(4, 4, 12, 20)
	spec.Scale = 0.24
	o, err := outline.Generate(spec)
	require.NoError(t, err)

	coords := make([][2]float64, o.Len())
	for i := range coords {
		coords[i] = [2]float64{o.X[i], o.Z[i]}
	}
	ref, err := json.Marshal(coords)
	require.NoError(t, err)

	out, err := dispatch(t, d, "compare", "4412", "20", string(ref))
	require.NoError(t, err)
	assert.Equal(t, "max deviation 0 at point 0\n", out)

	_, err = dispatch(t, d, "compare", "4412", "22", string(ref))
	require.Error(t, err)

	_, err = dispatch(t, d, "compare", "4412")
	assert.ErrorIs(t, err, errUsage)
}

func TestDesignationTrackedDuringGeneration(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, "", a.designation())

	_, err := a.generate(context.Background(), core.NewAirfoilSpec(2, 4, 12, 10))
	require.NoError(t, err)
	assert.Equal(t, "", a.designation(), "cleared after generation")
}

func TestRun(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	cfg := `{"logLevel": "debug", "logsDir": ` + strconvQuote(logsDir) + `, "airfoil": {"points": 12}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("NACAWING_CONFIG_DIR", dir)

	var stdout, stderr bytes.Buffer
	code := run([]string{"outline"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Len(t, strings.Split(strings.TrimSpace(stdout.String()), "\n"), 13)

	entries, err := os.ReadDir(logsDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	logged, err := os.ReadFile(filepath.Join(logsDir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(logged), "nacawing starting")
	assert.Contains(t, string(logged), `"command":"outline"`)
}

func TestRun_ExitCodes(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	cfg := `{"logsDir": ` + strconvQuote(filepath.Join(dir, "logs")) + `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("NACAWING_CONFIG_DIR", dir)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: nacawing <command>")

	stderr.Reset()
	assert.Equal(t, 0, run([]string{"help"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "compare <designation> <points> <json>")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"mesh"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), `unknown command "mesh"`)

	stderr.Reset()
	assert.Equal(t, 1, run([]string{"stats", "NACA 44x2"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid NACA 4-digit designation")

	stderr.Reset()
	assert.Equal(t, 2, run([]string{"outline", "4412", "fifty"}, &stdout, &stderr))
	assert.Empty(t, stdout.String())
}

func TestRun_StatsFallBackToBackupFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	logsDir := filepath.Join(dir, "logs")
	cfg := `{"logsDir": ` + strconvQuote(logsDir) + `,
		"influx": {"enabled": true, "url": ` + strconvQuote(srv.URL) + `, "timeout": "1s"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("NACAWING_CONFIG_DIR", dir)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"stats", "4412", "20"}, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "airfoil         NACA 4412")

	matches, err := filepath.Glob(filepath.Join(logsDir, "sections.*.lp"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "naca_section,designation=NACA\\ 4412,"), lines[0])
	assert.Contains(t, lines[0], "points=20i")
}

func TestRun_ZeroThicknessStatsFails(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	cfg := `{"logsDir": ` + strconvQuote(filepath.Join(dir, "logs")) + `}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(cfg), 0644))
	t.Setenv("NACAWING_CONFIG_DIR", dir)

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run([]string{"wkt", "0000"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "encloses no area")
	assert.Empty(t, stdout.String())

	stdout.Reset()
	assert.Equal(t, 0, run([]string{"outline", "0000", "4"}, &stdout, &stderr))
	assert.Len(t, strings.Split(strings.TrimSpace(stdout.String()), "\n"), 5)
}

func TestSpecFromArgs_RejectsUnknownSpacing(t *testing.T) {
	a, _ := newTestApp(t)
	a.airfoil.Spacing = "chebyshev"

	_, err := a.specFromArgs([]string{"4412"})
	assert.ErrorIs(t, err, config.ErrInvalidValue)
}

func strconvQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
