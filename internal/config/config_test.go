package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"runName": "campaign",
		"propagation": { "frequencyHz": 2.4e9 }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(cfg), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "campaign", viper.GetString("runName"))
	assert.Equal(t, 2.4e9, viper.GetFloat64("propagation.frequencyHz"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "gemv2", viper.GetString("runName"))
	assert.Equal(t, "./logs", viper.GetString("logsDir"))
	assert.Equal(t, 5.9e9, viper.GetFloat64("propagation.frequencyHz"))
	assert.Equal(t, "horizontal", viper.GetString("propagation.polarization"))
	assert.Equal(t, "simple", viper.GetString("propagation.nlosvModel"))
	assert.Equal(t, "log-distance", viper.GetString("propagation.nlosbModel"))
	assert.Equal(t, true, viper.GetBool("graylog.enabled"))
	assert.Equal(t, "localhost:12201", viper.GetString("graylog.address"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, "./recordings", viper.GetString("storage.memory.outputDir"))
	assert.Equal(t, true, viper.GetBool("storage.memory.compressOutput"))
	assert.Equal(t, "3m", viper.GetString("storage.sqlite.dumpInterval"))
	assert.Equal(t, false, viper.GetBool("otel.enabled"))
	assert.Equal(t, "gemv2-engine", viper.GetString("otel.serviceName"))
	assert.Equal(t, "5s", viper.GetString("otel.batchTimeout"))
	assert.Equal(t, "", viper.GetString("otel.endpoint"))
	assert.Equal(t, true, viper.GetBool("otel.insecure"))
	assert.Equal(t, "./scenario", viper.GetString("scenario.dir"))
	assert.Equal(t, "gemv2_samples", viper.GetString("influx.bucketName"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./recordings", cfg.Memory.OutputDir)
	assert.Equal(t, true, cfg.Memory.CompressOutput)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": false },
			"sqlite": { "dumpInterval": "10m" }
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, false, sc.Memory.CompressOutput)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetOTelConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetOTelConfig()
	assert.Equal(t, false, cfg.Enabled)
	assert.Equal(t, "gemv2-engine", cfg.ServiceName)
	assert.Equal(t, 5*time.Second, cfg.BatchTimeout)
	assert.Equal(t, "", cfg.Endpoint)
	assert.Equal(t, true, cfg.Insecure)
}

func TestGetOTelConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{
		"otel": {
			"enabled": true,
			"serviceName": "my-service",
			"batchTimeout": "30s",
			"endpoint": "localhost:4317",
			"insecure": false
		}
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	oc := GetOTelConfig()
	assert.Equal(t, true, oc.Enabled)
	assert.Equal(t, "my-service", oc.ServiceName)
	assert.Equal(t, 30*time.Second, oc.BatchTimeout)
	assert.Equal(t, "localhost:4317", oc.Endpoint)
	assert.Equal(t, false, oc.Insecure)
}

func TestGetGraylogConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetGraylogConfig()
	assert.Equal(t, true, cfg.Enabled)
	assert.Equal(t, "localhost:12201", cfg.Address)
}

func TestGetGraylogConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"graylog": {"enabled": false, "address": "graylog.internal:12201"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	gc := GetGraylogConfig()
	assert.Equal(t, false, gc.Enabled)
	assert.Equal(t, "graylog.internal:12201", gc.Address)
}

func TestGetInfluxConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg := GetInfluxConfig()
	assert.Equal(t, true, cfg.Enabled)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "8086", cfg.Port)
	assert.Equal(t, "http", cfg.Protocol)
	assert.Equal(t, "gemv2-metrics", cfg.Org)
	assert.Equal(t, "gemv2_samples", cfg.BucketName)
}

func TestGetScenarioDir_Default(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, "./scenario", GetScenarioDir())
}

func TestGetScenarioTxPowerDbm_Default(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	assert.Equal(t, 20.0, GetScenarioTxPowerDbm())
}

func TestGetPropagationConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(`{}`), 0644))
	require.NoError(t, Load(dir))

	cfg, err := GetPropagationConfig()
	require.NoError(t, err)
	assert.Equal(t, 5.9e9, cfg.FrequencyHz)
	assert.Equal(t, 1000.0, cfg.MaxLOSRangeM)
	assert.Equal(t, 500.0, cfg.MaxNLOSvRangeM)
	assert.Equal(t, 300.0, cfg.MaxNLOSbRangeM)
}

func TestGetPropagationConfig_RejectsUnimplementedModel(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `{"propagation": {"nlosvModel": "bullington"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gemv2.cfg.json"), []byte(cfg), 0644))
	require.NoError(t, Load(dir))

	_, err := GetPropagationConfig()
	require.Error(t, err)
}
