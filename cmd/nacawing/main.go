package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wingsmith/nacawing/internal/config"
	"github.com/wingsmith/nacawing/internal/dispatcher"
	"github.com/wingsmith/nacawing/internal/influx"
	"github.com/wingsmith/nacawing/internal/logging"
	intOtel "github.com/wingsmith/nacawing/internal/otel"
)

// module defs - BuildDate can be set at build time via ldflags
var (
	CurrentVersion string = "0.0.1"
	BuildDate      string = "unknown"
)

var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx := context.Background()

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		d, _ := dispatcher.New(logging.NewDispatcherLogger(zerolog.Nop()))
		(&app{}).register(d)
		printUsage(stderr, d)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	a, d, cleanup := setup(ctx, stderr)
	defer cleanup()

	cmd := strings.ToLower(args[0])
	if !d.HasHandler(cmd) {
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		printUsage(stderr, d)
		return 2
	}

	result, err := d.Dispatch(ctx, dispatcher.Event{Command: cmd, Args: args[1:]})
	if err != nil {
		Logger.Error("Command failed", "command", cmd, "error", err)
		fmt.Fprintf(stderr, "nacawing %s: %v\n", cmd, err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	a.log.Debug().Str("command", cmd).Msg("Command complete")

	if s, ok := result.(string); ok {
		_, _ = io.WriteString(stdout, s)
	}
	return 0
}

// setup loads config, wires logging, OTel and the optional sinks, and
// returns the command set. cleanup flushes and closes everything it opened.
func setup(ctx context.Context, stderr io.Writer) (*app, *dispatcher.Dispatcher, func()) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(stderr, "warn", nil)
	Logger = SlogManager.Logger()

	if err := config.Load(configDir()); err != nil {
		Logger.Debug("No config file, using defaults", "error", err)
	}

	// Log to a session file; stdout carries command output only.
	var logFile io.Writer = stderr
	logLevel := config.GetString("logLevel")
	logsDir := config.GetString("logsDir")
	logsDirOK := false
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		Logger.Warn("Failed to create logs dir, logging to stderr", "error", err, "path", logsDir)
	} else {
		logsDirOK = true
		path := logging.LogFilePath(logsDir, logging.AppName, SessionStartTime)
		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			Logger.Warn("Failed to open log file, logging to stderr", "error", err, "path", path)
		} else {
			logFile = f
			closers = append(closers, func() { _ = f.Close() })
		}
	}

	otelCfg := config.GetOTelConfig()
	provider, err := intOtel.New(intOtel.Config{
		Enabled:      otelCfg.Enabled,
		ServiceName:  otelCfg.ServiceName,
		BatchTimeout: otelCfg.BatchTimeout,
		LogWriter:    logFile,
		Endpoint:     otelCfg.Endpoint,
		Insecure:     otelCfg.Insecure,
	})
	if err != nil {
		Logger.Warn("Failed to initialize OTel, continuing without it", "error", err)
		provider, _ = intOtel.New(intOtel.Config{})
	}
	OTelProvider = provider
	closers = append(closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := OTelProvider.Shutdown(shutdownCtx); err != nil {
			Logger.Warn("OTel shutdown failed", "error", err)
		}
	})

	var remotes []io.Writer
	if gc := config.GetGraylogConfig(); gc.Enabled {
		sink, err := logging.NewGraylogSink(gc.Address)
		if err != nil {
			Logger.Warn("Graylog sink unavailable", "error", err)
		} else {
			remotes = append(remotes, sink.Writer())
			closers = append(closers, func() { _ = sink.Close() })
		}
	}

	a := &app{
		airfoil: config.GetAirfoilConfig(),
		wing:    config.GetWingConfig(),
		log:     zerolog.New(logFile).Level(zerologLevel(logLevel)).With().Timestamp().Logger(),
	}

	SlogManager.GetDesignation = a.designation
	SlogManager.Setup(logFile, logLevel, OTelProvider.LoggerProvider(), remotes...)
	Logger = SlogManager.Logger()
	Logger.Info("nacawing starting", "version", CurrentVersion, "buildDate", BuildDate)

	if ic := config.GetInfluxConfig(); ic.Enabled {
		m := influx.NewManager(a.log, ic)
		if err := m.Connect(ctx); err != nil {
			Logger.Warn("InfluxDB setup failed", "error", err)
		}
		closers = append(closers, m.Close)

		if !m.IsValid && logsDirOK {
			path := sectionsBackupPath(logsDir)
			f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
			if err != nil {
				Logger.Warn("Failed to open section stats backup file", "error", err, "path", path)
			} else {
				m.Backup = f
				closers = append(closers, func() { _ = f.Close() })
				Logger.Info("Writing section stats to backup file", "path", path)
			}
		}
		a.stats = m
	}

	d, err := dispatcher.New(logging.NewDispatcherLogger(a.log))
	if err != nil {
		// metric instruments only fail on invalid names
		panic(err)
	}
	a.register(d)

	closers = append(closers, func() {
		if err := SlogManager.Flush(context.Background()); err != nil {
			fmt.Fprintf(stderr, "log flush failed: %v\n", err)
		}
	})

	return a, d, cleanup
}

// sectionsBackupPath is where section stats go as line protocol while InfluxDB is unreachable.
func sectionsBackupPath(logsDir string) string {
	return strings.TrimSuffix(logging.LogFilePath(logsDir, "sections", SessionStartTime), ".log") + ".lp"
}

// configDir is NACAWING_CONFIG_DIR if set, otherwise the executable's directory.
func configDir() string {
	if dir := os.Getenv("NACAWING_CONFIG_DIR"); dir != "" {
		return dir
	}
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

func zerologLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func printUsage(w io.Writer, d *dispatcher.Dispatcher) {
	fmt.Fprintf(w, "nacawing %s (%s)\n\nusage: nacawing <command> [args]\n\n", CurrentVersion, BuildDate)
	for _, c := range d.Commands() {
		fmt.Fprintf(w, "  %s\n", c[1])
	}
}
