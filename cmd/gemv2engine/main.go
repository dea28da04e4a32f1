// Command gemv2engine runs a batch pairwise link-budget calculation over
// a static scenario: it loads buildings, foliage, and vehicle placements
// from a scenario directory, builds a propagation.Engine wired to the
// configured logging, telemetry, and OpenTelemetry stack, and computes
// RxPower once for every unordered vehicle pair in the scene.
//
// It takes no command-line flags; every setting comes from
// gemv2.cfg.json in the current directory (see internal/config), the
// way the teacher's extension reads its own settings entirely from
// config rather than argv.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/vanetlab/gemv2/internal/config"
	"github.com/vanetlab/gemv2/internal/influx"
	"github.com/vanetlab/gemv2/internal/logging"
	"github.com/vanetlab/gemv2/internal/otelmetrics"
	"github.com/vanetlab/gemv2/internal/scenario"
	"github.com/vanetlab/gemv2/internal/telemetry"
	"github.com/vanetlab/gemv2/internal/telemetry/storage/memory"
	"github.com/vanetlab/gemv2/internal/telemetry/storage/sqlite"
	"github.com/vanetlab/gemv2/pkg/propagation"
	"github.com/vanetlab/gemv2/pkg/scene"
)

const configDir = "."

var (
	// SlogManager handles the engine's structured console/file/GELF log
	// output, mirroring the teacher's own logging setup.
	SlogManager *logging.SlogManager

	// Logger is the zerolog logger the domain flow (engine, scene,
	// telemetry recorder, storage backends) logs through.
	Logger zerolog.Logger

	runStart = time.Now()
)

func init() {
	if err := config.Load(configDir); err != nil {
		fmt.Fprintf(os.Stderr, "gemv2engine: failed to load config, using defaults: %v\n", err)
	}

	if _, err := os.Stat(config.GetString("logsDir")); os.IsNotExist(err) {
		os.Mkdir(config.GetString("logsDir"), 0755)
	}
	logFilePath := logging.LogFilePath(config.GetString("logsDir"), config.GetString("runName"), runStart)
	logFile, err := os.OpenFile(logFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gemv2engine: failed to open log file %s: %v\n", logFilePath, err)
	}

	var extra []io.Writer
	graylogCfg := config.GetGraylogConfig()
	if graylogCfg.Enabled {
		if w, err := logging.NewGraylogWriter(graylogCfg.Address); err != nil {
			fmt.Fprintf(os.Stderr, "gemv2engine: failed to connect to graylog at %s: %v\n", graylogCfg.Address, err)
		} else {
			extra = append(extra, w)
		}
	}

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(logFile, config.GetString("logLevel"), extra...)

	var zerologWriters []io.Writer = []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}}
	if logFile != nil {
		zerologWriters = append(zerologWriters, logFile)
	}
	level, err := zerolog.ParseLevel(config.GetString("logLevel"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	Logger = zerolog.New(io.MultiWriter(zerologWriters...)).
		Level(level).
		With().Timestamp().Str("run", config.GetString("runName")).Logger()
}

// buildBackend selects and constructs the telemetry storage backend named
// by the storage.type config key.
func buildBackend() (telemetry.Backend, error) {
	storageCfg := config.GetStorageConfig()
	switch storageCfg.Type {
	case "sqlite":
		path := fmt.Sprintf("%s.db", config.GetString("runName"))
		return sqlite.New(path)
	case "influx":
		influxCfg := config.GetInfluxConfig()
		return influx.New(influx.Config{
			Host:       influxCfg.Host,
			Port:       influxCfg.Port,
			Protocol:   influxCfg.Protocol,
			Token:      influxCfg.Token,
			Org:        influxCfg.Org,
			BucketName: influxCfg.BucketName,
			BackupPath: influxCfg.BackupPath,
		}, Logger)
	default:
		return memory.New(storageCfg.Memory.OutputDir, storageCfg.Memory.CompressOutput), nil
	}
}

// vehicleMobility adapts a scenario-cached scene.Vehicle into the
// propagation.IdentifiableMobility the engine's RxPower needs, so
// telemetry samples can name the vehicle pair a link ran between.
type vehicleMobility struct {
	name string
	v    *scene.Vehicle
}

func (m vehicleMobility) Position() (x, y, z float64) {
	p := m.v.Position()
	return p.X, p.Y, p.Z
}

func (m vehicleMobility) Vehicle() *scene.Vehicle { return m.v }

func (m vehicleMobility) ID() string { return m.name }

func run() error {
	sn, err := scenario.Load(config.GetScenarioDir(), Logger)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	backend, err := buildBackend()
	if err != nil {
		return fmt.Errorf("initializing telemetry backend: %w", err)
	}
	defer backend.Close()

	recorder := telemetry.NewRecorder(backend, 500, 3*time.Minute, Logger)
	ctx, cancel := context.WithCancel(context.Background())
	go recorder.Run(ctx)
	defer func() {
		cancel()
		recorder.Wait()
	}()

	instruments, err := otelmetrics.New()
	if err != nil {
		return fmt.Errorf("initializing otel instruments: %w", err)
	}

	propCfg, err := config.GetPropagationConfig()
	if err != nil {
		return fmt.Errorf("loading propagation config: %w", err)
	}

	engine, err := propagation.NewEngine(sn.Scene, propCfg,
		propagation.WithLogger(Logger),
		propagation.WithTelemetryRecorder(recorder),
		propagation.WithInstruments(instruments),
	)
	if err != nil {
		return fmt.Errorf("constructing engine: %w", err)
	}

	txPowerDbm := config.GetScenarioTxPowerDbm()
	names := sn.Vehicles.Names()
	SlogManager.WriteLog("run", fmt.Sprintf("starting pairwise rx power sweep over %d vehicles", len(names)), "INFO")

	links := 0
	for i, txName := range names {
		txVehicle, ok := sn.Vehicles.Get(txName)
		if !ok {
			continue
		}
		for _, rxName := range names[i+1:] {
			rxVehicle, ok := sn.Vehicles.Get(rxName)
			if !ok {
				continue
			}
			engine.RxPower(txPowerDbm, vehicleMobility{name: txName, v: txVehicle}, vehicleMobility{name: rxName, v: rxVehicle})
			links++
		}
	}

	SlogManager.WriteLog("run", fmt.Sprintf("pairwise rx power sweep complete: %d links classified", links), "INFO")
	return nil
}

func main() {
	if err := run(); err != nil {
		Logger.Error().Err(err).Msg("gemv2engine run failed")
		os.Exit(1)
	}
}
