package influx

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wingsmith/nacawing/internal/config"
	"github.com/wingsmith/nacawing/internal/geo"
	"github.com/wingsmith/nacawing/pkg/core"
)

func testSpec() core.AirfoilSpec {
	spec := core.NewAirfoilSpec(4, 4, 12, 50)
	spec.Scale = 0.24
	return spec
}

func TestSectionPoint(t *testing.T) {
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	point := SectionPoint(testSpec(), geo.Metrics{Area: 0.0047, Chord: 0.24, MaxThickness: 0.0288}, at)

	line := LineProtocol(point)
	assert.True(t, strings.HasPrefix(line, "naca_section,designation=NACA\\ 4412,spacing=cosine,variant=compat "), line)
	assert.Contains(t, line, "area=0.0047")
	assert.Contains(t, line, "chord=0.24")
	assert.Contains(t, line, "points=50i")
	assert.True(t, strings.HasSuffix(line, " "+"1792411200000000000"), line)
}

func TestConnect_Disabled(t *testing.T) {
	m := NewManager(zerolog.Nop(), config.InfluxConfig{Enabled: false})
	assert.ErrorIs(t, m.Connect(context.Background()), ErrDisabled)
	assert.False(t, m.IsValid)
}

func TestConnect_UnreachableFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	var logs bytes.Buffer
	m := NewManager(zerolog.New(&logs), config.InfluxConfig{
		Enabled: true,
		URL:     srv.URL,
		Org:     "nacawing",
		Bucket:  "sections",
		Timeout: time.Second,
	})
	t.Cleanup(m.Close)

	require.NoError(t, m.Connect(context.Background()))
	assert.False(t, m.IsValid)
	assert.Contains(t, logs.String(), "InfluxDB unreachable")

	point := SectionPoint(testSpec(), geo.Metrics{Area: 1}, time.Unix(0, 0))
	assert.ErrorIs(t, m.WritePoint(point), ErrUnavailable)

	var backup bytes.Buffer
	m.Backup = &backup
	require.NoError(t, m.WritePoint(point))
	assert.Equal(t, LineProtocol(point)+"\n", backup.String())
}
