package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/wingsmith/nacawing/internal/wing"
	"github.com/wingsmith/nacawing/pkg/core"
)

// FileName is the config file looked up in the config directory.
const FileName = "nacawing.cfg.json"

// ErrInvalidValue is returned when a config key holds a value outside its allowed set
var ErrInvalidValue = errors.New("invalid config value")

// AirfoilConfig holds the default section parameters
type AirfoilConfig struct {
	Designation string  `json:"designation" mapstructure:"designation"`
	Points      int     `json:"points" mapstructure:"points"`
	Scale       float64 `json:"scale" mapstructure:"scale"`
	Spacing     string  `json:"spacing" mapstructure:"spacing"`
	Variant     string  `json:"variant" mapstructure:"variant"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// InfluxConfig holds the section statistics sink settings
type InfluxConfig struct {
	Enabled bool
	URL     string
	Token   string
	Org     string
	Bucket  string
	Timeout time.Duration
}

// GraylogConfig holds the remote log sink settings
type GraylogConfig struct {
	Enabled bool
	Address string
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./nacalogs")

	// reference wing: NACA 4412, 50 points, 0.24 chord
	viper.SetDefault("airfoil.designation", "4412")
	viper.SetDefault("airfoil.points", 50)
	viper.SetDefault("airfoil.scale", 0.24)
	viper.SetDefault("airfoil.spacing", "cosine")
	viper.SetDefault("airfoil.variant", "compat")

	def := wing.DefaultConfig()
	viper.SetDefault("wing.viewRotation.x", def.ViewRotation[0])
	viper.SetDefault("wing.viewRotation.y", def.ViewRotation[1])
	viper.SetDefault("wing.viewRotation.z", def.ViewRotation[2])
	viper.SetDefault("wing.rotateDeg", def.RotateDeg)
	viper.SetDefault("wing.twistDeg", def.TwistDeg)
	viper.SetDefault("wing.span", def.Span)
	viper.SetDefault("wing.axes", def.Axes)
	viper.SetDefault("wing.axesMikado", def.AxesMikado)
	viper.SetDefault("wing.trackball", def.Trackball)
	viper.SetDefault("wing.showPoints", def.ShowPoints)
	viper.SetDefault("wing.showSurfaces", def.ShowSurfaces)

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "nacawing")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "nacawing")
	viper.SetDefault("influx.bucket", "sections")
	viper.SetDefault("influx.timeout", "5s")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetAirfoilConfig returns the default section parameters.
func GetAirfoilConfig() AirfoilConfig {
	return AirfoilConfig{
		Designation: viper.GetString("airfoil.designation"),
		Points:      viper.GetInt("airfoil.points"),
		Scale:       viper.GetFloat64("airfoil.scale"),
		Spacing:     viper.GetString("airfoil.spacing"),
		Variant:     viper.GetString("airfoil.variant"),
	}
}

// Spec converts the config into an AirfoilSpec for the given digits.
// Unknown spacing or variant names are reported, not defaulted.
func (c AirfoilConfig) Spec(a, b, tt int) (core.AirfoilSpec, error) {
	spacing, ok := core.ParseSpacing(c.Spacing)
	if !ok {
		return core.AirfoilSpec{}, fmt.Errorf("%w: airfoil.spacing %q (want cosine or linear)", ErrInvalidValue, c.Spacing)
	}
	variant, ok := core.ParseCamberVariant(c.Variant)
	if !ok {
		return core.AirfoilSpec{}, fmt.Errorf("%w: airfoil.variant %q (want compat or classic)", ErrInvalidValue, c.Variant)
	}
	return core.AirfoilSpec{
		MaxCamber:      a,
		CamberPosition: b,
		Thickness:      tt,
		Points:         c.Points,
		Scale:          c.Scale,
		Spacing:        spacing,
		Variant:        variant,
	}, nil
}

// GetWingConfig returns the wing transform and view settings.
func GetWingConfig() wing.Config {
	return wing.Config{
		ViewRotation: [3]float64{
			viper.GetFloat64("wing.viewRotation.x"),
			viper.GetFloat64("wing.viewRotation.y"),
			viper.GetFloat64("wing.viewRotation.z"),
		},
		RotateDeg:    viper.GetFloat64("wing.rotateDeg"),
		TwistDeg:     viper.GetFloat64("wing.twistDeg"),
		Span:         viper.GetFloat64("wing.span"),
		Axes:         viper.GetInt("wing.axes"),
		AxesMikado:   viper.GetBool("wing.axesMikado"),
		Trackball:    viper.GetBool("wing.trackball"),
		ShowPoints:   viper.GetBool("wing.showPoints"),
		ShowSurfaces: viper.GetBool("wing.showSurfaces"),
	}
}

// GetOTelConfig returns the OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetInfluxConfig returns the section statistics sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL:     viper.GetString("influx.url"),
		Token:   viper.GetString("influx.token"),
		Org:     viper.GetString("influx.org"),
		Bucket:  viper.GetString("influx.bucket"),
		Timeout: viper.GetDuration("influx.timeout"),
	}
}

// GetGraylogConfig returns the remote log sink settings.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}
