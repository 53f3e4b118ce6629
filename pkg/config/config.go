// Package config loads translator settings from YAML.
//
// Design: Defaults first, then the file on top, then validation. A missing
// config path means defaults only.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/valdisz/PyToJs/pkg/jsgen"
	"github.com/valdisz/PyToJs/pkg/jsruntime"
	"github.com/valdisz/PyToJs/pkg/logger"
	"github.com/valdisz/PyToJs/pkg/telemetry"
)

// EnvPath names the environment variable holding the default config path.
const EnvPath = "PYTOJS_CONFIG"

var ErrInvalidConfig = errors.New("invalid config")

var validate = validator.New()

type Config struct {
	Translator TranslatorConfig `yaml:"translator" json:"translator"`
	Cache      CacheConfig      `yaml:"cache" json:"cache"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Batch      BatchConfig      `yaml:"batch" json:"batch"`
	Log        LogConfig        `yaml:"log" json:"log"`
	Telemetry  TelemetryConfig  `yaml:"telemetry" json:"telemetry"`
}

type TranslatorConfig struct {
	IndentSize     int             `yaml:"indent_size" json:"indent_size" validate:"gte=1,lte=8"`
	ValidateOutput bool            `yaml:"validate_output" json:"validate_output"`
	IncludePrelude bool            `yaml:"include_prelude" json:"include_prelude"`
	Runtime        jsruntime.Names `yaml:"runtime" json:"runtime"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Dir is the badger directory. Empty keeps the cache in memory.
	Dir string `yaml:"dir" json:"dir"`
}

type ServerConfig struct {
	Addr      string  `yaml:"addr" json:"addr" validate:"required"`
	RateLimit float64 `yaml:"rate_limit" json:"rate_limit" validate:"gt=0"`
	Burst     int     `yaml:"burst" json:"burst" validate:"gte=1"`
}

type BatchConfig struct {
	Workers int `yaml:"workers" json:"workers" validate:"gte=1,lte=256"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level" validate:"oneof=debug info warn warning error"`
	Format string `yaml:"format" json:"format" validate:"oneof=text json"`
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" json:"trace_exporter" validate:"oneof=none stdout otlp"`
	MetricExporter string `yaml:"metric_exporter" json:"metric_exporter" validate:"oneof=none stdout prometheus"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" json:"otlp_endpoint" validate:"required_if=TraceExporter otlp"`
	OTLPInsecure   bool   `yaml:"otlp_insecure" json:"otlp_insecure"`
}

func Default() *Config {
	return &Config{
		Translator: TranslatorConfig{
			IndentSize:     jsgen.DefaultIndentSize,
			ValidateOutput: true,
			Runtime:        jsruntime.DefaultNames(),
		},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
			Burst:     40,
		},
		Batch: BatchConfig{Workers: 4},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "none",
			OTLPEndpoint:   "localhost:4317",
			OTLPInsecure:   true,
		},
	}
}

// Load reads path over the defaults. An empty path falls back to
// $PYTOJS_CONFIG, and to defaults only when that is unset too.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Loaded config", "path", path)
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// TranslateOptions returns the code generator options this config selects.
func (c *Config) TranslateOptions() jsgen.Options {
	return jsgen.Options{
		IndentSize: c.Translator.IndentSize,
		Runtime:    c.Translator.Runtime.WithDefaults(),
	}
}

// LoggerConfig maps the log section onto logger.Config.
func (c *Config) LoggerConfig() (logger.Config, error) {
	lc := logger.DefaultConfig()
	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return lc, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	lc.Level = level
	lc.Format = c.Log.Format
	return lc, nil
}

// TelemetryConfig maps the telemetry section onto telemetry.Config.
func (c *Config) TelemetryConfig(version string) telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.ServiceVersion = version
	tc.TraceExporter = c.Telemetry.TraceExporter
	tc.MetricExporter = c.Telemetry.MetricExporter
	tc.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	tc.OTLPInsecure = c.Telemetry.OTLPInsecure
	return tc
}
