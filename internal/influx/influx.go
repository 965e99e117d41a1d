package influx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	influxdb2_api "github.com/influxdata/influxdb-client-go/v2/api"
	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/influxdata/influxdb-client-go/v2/domain"
	"github.com/rs/zerolog"

	"github.com/wingsmith/nacawing/internal/config"
	"github.com/wingsmith/nacawing/internal/geo"
	"github.com/wingsmith/nacawing/pkg/core"
)

// Measurement is the InfluxDB measurement holding one point per generated section.
const Measurement = "naca_section"

var (
	ErrDisabled    = errors.New("influx sink disabled")
	ErrUnavailable = errors.New("influx sink unavailable")
)

// Manager writes section statistics to a single InfluxDB bucket.
// When the server cannot be reached, points go to Backup as line protocol
// if one is set, and are rejected otherwise.
type Manager struct {
	Client  influxdb2.Client
	Writer  influxdb2_api.WriteAPI
	Backup  io.Writer
	IsValid bool
	Logger  zerolog.Logger

	cfg config.InfluxConfig
}

// NewManager creates a manager for the given settings. It does not connect.
func NewManager(log zerolog.Logger, cfg config.InfluxConfig) *Manager {
	return &Manager{
		Logger: log.With().Str("component", "influx").Logger(),
		cfg:    cfg,
	}
}

// Connect pings the server, makes sure the org and bucket exist and opens the writer.
// An unreachable server is not an error: the manager stays invalid and logs a warning.
func (m *Manager) Connect(ctx context.Context) error {
	if !m.cfg.Enabled {
		return ErrDisabled
	}

	opts := influxdb2.DefaultOptions().
		SetBatchSize(100).
		SetFlushInterval(1000)
	if m.cfg.Timeout > 0 {
		opts = opts.SetHTTPRequestTimeout(uint(m.cfg.Timeout / time.Second))
	}
	m.Client = influxdb2.NewClientWithOptions(m.cfg.URL, m.cfg.Token, opts)

	pingCtx := ctx
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	running, err := m.Client.Ping(pingCtx)
	if err != nil || !running {
		m.IsValid = false
		m.Logger.Warn().Err(err).Str("url", m.cfg.URL).Msg("InfluxDB unreachable, section stats will not be stored")
		return nil
	}

	if err := m.setupOrganizationAndBucket(ctx); err != nil {
		return err
	}

	m.Writer = m.Client.WriteAPI(m.cfg.Org, m.cfg.Bucket)
	go func(errorsCh <-chan error) {
		for writeErr := range errorsCh {
			m.Logger.Error().Err(writeErr).Str("bucket", m.cfg.Bucket).Msg("Error sending data to InfluxDB")
		}
	}(m.Writer.Errors())

	m.IsValid = true
	m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("InfluxDB client initialized")
	return nil
}

func (m *Manager) setupOrganizationAndBucket(ctx context.Context) error {
	orgs := m.Client.OrganizationsAPI()

	org, err := orgs.FindOrganizationByName(ctx, m.cfg.Org)
	if err != nil {
		m.Logger.Info().Str("org", m.cfg.Org).Msg("Organization not found, creating")
		org, err = orgs.CreateOrganizationWithName(ctx, m.cfg.Org)
		if err != nil {
			return fmt.Errorf("creating organization %s: %w", m.cfg.Org, err)
		}
	}

	if _, err := m.Client.BucketsAPI().FindBucketByName(ctx, m.cfg.Bucket); err == nil {
		return nil
	}

	m.Logger.Info().Str("bucket", m.cfg.Bucket).Msg("Bucket not found, creating")
	rule := domain.RetentionRuleTypeExpire
	_, err = m.Client.BucketsAPI().CreateBucketWithName(ctx, org, m.cfg.Bucket, domain.RetentionRule{
		Type:         &rule,
		EverySeconds: 60 * 60 * 24 * 90, // 90 days
	})
	if err != nil {
		return fmt.Errorf("creating bucket %s: %w", m.cfg.Bucket, err)
	}
	return nil
}

// WritePoint queues a point on the writer, or falls back to Backup.
func (m *Manager) WritePoint(point *influxdb2_write.Point) error {
	if m.IsValid {
		m.Writer.WritePoint(point)
		return nil
	}
	if m.Backup == nil {
		return ErrUnavailable
	}
	if _, err := io.WriteString(m.Backup, LineProtocol(point)+"\n"); err != nil {
		return fmt.Errorf("writing backup line: %w", err)
	}
	return nil
}

// Close flushes pending points and releases the client.
func (m *Manager) Close() {
	if m.Writer != nil {
		m.Writer.Flush()
	}
	if m.Client != nil {
		m.Client.Close()
	}
}

// SectionPoint builds the statistics point for one generated section.
func SectionPoint(spec core.AirfoilSpec, metrics geo.Metrics, at time.Time) *influxdb2_write.Point {
	return influxdb2_write.NewPoint(
		Measurement,
		map[string]string{
			"designation": spec.Designation(),
			"spacing":     spec.Spacing.String(),
			"variant":     spec.Variant.String(),
		},
		map[string]any{
			"points":          spec.Points,
			"scale":           spec.Scale,
			"area":            metrics.Area,
			"perimeter":       metrics.Perimeter,
			"centroid_x":      metrics.CentroidX,
			"centroid_z":      metrics.CentroidZ,
			"chord":           metrics.Chord,
			"max_thickness":   metrics.MaxThickness,
			"max_thickness_x": metrics.MaxThicknessX,
			"trailing_gap":    metrics.TrailingGap,
		},
		at,
	)
}

// LineProtocol renders a point with nanosecond precision, without a trailing newline.
func LineProtocol(point *influxdb2_write.Point) string {
	return strings.TrimRight(influxdb2_write.PointToLineProtocol(point, time.Nanosecond), "\n")
}
