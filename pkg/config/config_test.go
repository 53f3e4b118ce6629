package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valdisz/PyToJs/pkg/logger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pytojs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 4, cfg.Translator.IndentSize)
	assert.True(t, cfg.Translator.ValidateOutput)
	assert.Equal(t, "_.toArray", cfg.Translator.Runtime.ToArray)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
translator:
  indent_size: 2
  runtime:
    print_helper: console.log
cache:
  enabled: true
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Translator.IndentSize)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, ":8080", cfg.Server.Addr, "untouched sections keep defaults")

	opts := cfg.TranslateOptions()
	assert.Equal(t, 2, opts.IndentSize)
	assert.Equal(t, "console.log", opts.Runtime.Print)
	assert.Equal(t, "Python.mul", opts.Runtime.Mul)

	lc, err := cfg.LoggerConfig()
	require.NoError(t, err)
	assert.Equal(t, logger.LevelDebug, lc.Level)
}

func TestLoad_EmptyPathUsesEnv(t *testing.T) {
	path := writeConfig(t, "batch:\n  workers: 9\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Batch.Workers)
}

func TestLoad_NoPath(t *testing.T) {
	t.Setenv(EnvPath, "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"indent too large": "translator:\n  indent_size: 20\n",
		"unknown exporter": "telemetry:\n  trace_exporter: jaeger\n",
		"bad log format":   "log:\n  format: xml\n",
		"no workers":       "batch:\n  workers: 0\n",
		"malformed yaml":   "translator: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_TelemetryConfig(t *testing.T) {
	cfg := Default()
	cfg.Telemetry.TraceExporter = "otlp"
	cfg.Telemetry.OTLPEndpoint = "collector:4317"

	tc := cfg.TelemetryConfig("1.2.0")
	assert.Equal(t, "pytojs", tc.ServiceName)
	assert.Equal(t, "1.2.0", tc.ServiceVersion)
	assert.Equal(t, "otlp", tc.TraceExporter)
	assert.Equal(t, "none", tc.MetricExporter)
	assert.Equal(t, "collector:4317", tc.OTLPEndpoint)
	assert.True(t, tc.OTLPInsecure)
}
