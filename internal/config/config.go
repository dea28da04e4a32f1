// Package config loads the engine's runtime configuration from a JSON
// file via viper, with defaults for every option so the engine can run
// unconfigured.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/vanetlab/gemv2/pkg/propagation"
)

// MemoryStorageConfig holds in-memory telemetry storage backend settings.
type MemoryStorageConfig struct {
	OutputDir      string `mapstructure:"outputDir"`
	CompressOutput bool   `mapstructure:"compressOutput"`
}

// SQLiteStorageConfig holds sqlite telemetry storage backend settings.
type SQLiteStorageConfig struct {
	DumpInterval time.Duration `mapstructure:"dumpInterval"`
}

// StorageConfig selects and configures the telemetry recorder's backend.
type StorageConfig struct {
	Type   string
	Memory MemoryStorageConfig
	SQLite SQLiteStorageConfig
}

// OTelConfig configures the classification-count and rx-power metrics
// exported through OpenTelemetry.
type OTelConfig struct {
	Enabled      bool
	ServiceName  string
	BatchTimeout time.Duration
	Endpoint     string
	Insecure     bool
}

// GraylogConfig configures the optional GELF log destination.
type GraylogConfig struct {
	Enabled bool
	Address string
}

// InfluxConfig configures the optional InfluxDB telemetry backend.
type InfluxConfig struct {
	Enabled    bool
	Host       string
	Port       string
	Protocol   string
	Token      string
	Org        string
	BucketName string
	BackupPath string
}

// Load reads configuration from a JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("runName", "gemv2")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("propagation.frequencyHz", propagation.DefaultConfig().FrequencyHz)
	viper.SetDefault("propagation.polarization", "horizontal")
	viper.SetDefault("propagation.groundPermittivity", propagation.DefaultConfig().GroundPermittivity)
	viper.SetDefault("propagation.maxLosRangeM", propagation.DefaultConfig().MaxLOSRangeM)
	viper.SetDefault("propagation.maxNlosvRangeM", propagation.DefaultConfig().MaxNLOSvRangeM)
	viper.SetDefault("propagation.maxNlosbRangeM", propagation.DefaultConfig().MaxNLOSbRangeM)
	viper.SetDefault("propagation.nlosvModel", string(propagation.NLOSvModelSimple))
	viper.SetDefault("propagation.nlosbModel", string(propagation.NLOSbModelLogDistance))
	viper.SetDefault("propagation.nlosvSimpleLossTriple", []string{"2.0", "6.0", "10.0"})
	viper.SetDefault("propagation.maxVehicleDensityPerKm2", propagation.DefaultConfig().MaxVehicleDensityPerKm2)
	viper.SetDefault("propagation.maxObjectDensityRatio", propagation.DefaultConfig().MaxObjectDensityRatio)
	viper.SetDefault("propagation.deterministicMode", false)
	viper.SetDefault("propagation.txAntennaGainDbi", 0.0)
	viper.SetDefault("propagation.rxAntennaGainDbi", 0.0)

	viper.SetDefault("graylog.enabled", true)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("influx.enabled", true)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "supersecrettoken")
	viper.SetDefault("influx.org", "gemv2-metrics")
	viper.SetDefault("influx.bucketName", "gemv2_samples")
	viper.SetDefault("influx.backupPath", "./recordings/influx-backup.gz")

	viper.SetDefault("scenario.dir", "./scenario")
	viper.SetDefault("scenario.txPowerDbm", 20.0)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./recordings")
	viper.SetDefault("storage.memory.compressOutput", true)
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "gemv2-engine")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetConfigName("gemv2.cfg.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
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

// GetStorageConfig assembles the telemetry storage backend configuration.
func GetStorageConfig() StorageConfig {
	dumpInterval, err := time.ParseDuration(viper.GetString("storage.sqlite.dumpInterval"))
	if err != nil {
		dumpInterval = 3 * time.Minute
	}
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryStorageConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteStorageConfig{
			DumpInterval: dumpInterval,
		},
	}
}

// GetOTelConfig assembles the OpenTelemetry metrics exporter configuration.
func GetOTelConfig() OTelConfig {
	batchTimeout, err := time.ParseDuration(viper.GetString("otel.batchTimeout"))
	if err != nil {
		batchTimeout = 5 * time.Second
	}
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: batchTimeout,
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}

// GetGraylogConfig assembles the GELF log destination configuration.
func GetGraylogConfig() GraylogConfig {
	return GraylogConfig{
		Enabled: viper.GetBool("graylog.enabled"),
		Address: viper.GetString("graylog.address"),
	}
}

// GetInfluxConfig assembles the InfluxDB telemetry backend configuration.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		BucketName: viper.GetString("influx.bucketName"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetScenarioDir returns the directory the scenario loader reads
// buildings, foliage, and vehicle placements from.
func GetScenarioDir() string {
	return viper.GetString("scenario.dir")
}

// GetScenarioTxPowerDbm returns the transmit power the batch runner uses
// for every RxPower call, in the absence of a per-vehicle radio model.
func GetScenarioTxPowerDbm() float64 {
	return viper.GetFloat64("scenario.txPowerDbm")
}

// GetPropagationConfig assembles a propagation.Config from the loaded
// values, applying propagation.DefaultConfig for anything left at its
// viper default.
func GetPropagationConfig() (propagation.Config, error) {
	pol, err := propagation.ParsePolarization(viper.GetString("propagation.polarization"))
	if err != nil {
		return propagation.Config{}, err
	}

	triple := propagation.LossTriple{}
	values := viper.GetStringSlice("propagation.nlosvSimpleLossTriple")
	if len(values) == 3 {
		for i, v := range values {
			var f float64
			if _, err := fmt.Sscanf(v, "%g", &f); err != nil {
				return propagation.Config{}, fmt.Errorf("%w: nlosvSimpleLossTriple[%d]: %v", propagation.ErrInvalidConfig, i, err)
			}
			triple[i] = f
		}
	} else {
		triple = propagation.DefaultConfig().NLOSvSimpleLossTriple
	}

	cfg := propagation.Config{
		FrequencyHz:             viper.GetFloat64("propagation.frequencyHz"),
		Polarization:            pol,
		GroundPermittivity:      viper.GetFloat64("propagation.groundPermittivity"),
		MaxLOSRangeM:            viper.GetFloat64("propagation.maxLosRangeM"),
		MaxNLOSvRangeM:          viper.GetFloat64("propagation.maxNlosvRangeM"),
		MaxNLOSbRangeM:          viper.GetFloat64("propagation.maxNlosbRangeM"),
		NLOSvModel:              propagation.NLOSvModel(viper.GetString("propagation.nlosvModel")),
		NLOSbModel:              propagation.NLOSbModel(viper.GetString("propagation.nlosbModel")),
		NLOSvSimpleLossTriple:   triple,
		MaxVehicleDensityPerKm2: viper.GetFloat64("propagation.maxVehicleDensityPerKm2"),
		MaxObjectDensityRatio:   viper.GetFloat64("propagation.maxObjectDensityRatio"),
		DeterministicMode:       viper.GetBool("propagation.deterministicMode"),
		TxAntennaGainDbi:        viper.GetFloat64("propagation.txAntennaGainDbi"),
		RxAntennaGainDbi:        viper.GetFloat64("propagation.rxAntennaGainDbi"),
	}

	if err := cfg.Validate(); err != nil {
		return propagation.Config{}, err
	}
	return cfg, nil
}
