// Package telemetry installs the OpenTelemetry trace and meter providers.
//
// Design: Everything is opt-in. With both exporters set to "none" the global
// no-op providers stay in place and instrumented code costs nothing.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
)

// ScopeName is the instrumentation scope of spans and instruments.
const ScopeName = "github.com/valdisz/PyToJs"

var ErrUnknownExporter = errors.New("unknown exporter")

type Config struct {
	ServiceName    string
	ServiceVersion string
	// TraceExporter is none, stdout or otlp.
	TraceExporter string
	// MetricExporter is none, stdout or prometheus.
	MetricExporter string
	OTLPEndpoint   string
	OTLPInsecure   bool
	// Output receives stdout exporter data. Nil means os.Stderr.
	Output io.Writer
}

func DefaultConfig() Config {
	return Config{
		ServiceName:    "pytojs",
		ServiceVersion: "dev",
		TraceExporter:  "none",
		MetricExporter: "none",
		OTLPEndpoint:   "localhost:4317",
		OTLPInsecure:   true,
	}
}

// Init installs global providers and returns a shutdown func that flushes
// them. Shutdown is safe to call when nothing was installed.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	var shutdownFuncs []func(context.Context) error
	shutdown = func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdownFuncs {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}

	res := resource.NewWithAttributes(
		"",
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	if cfg.TraceExporter != "" && cfg.TraceExporter != "none" {
		tp, err := initTracer(ctx, cfg, res)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		otel.SetTracerProvider(tp)
		shutdownFuncs = append(shutdownFuncs, tp.Shutdown)
	}

	if cfg.MetricExporter != "" && cfg.MetricExporter != "none" {
		mp, err := initMeter(cfg, res)
		if err != nil {
			_ = shutdown(ctx)
			return nil, fmt.Errorf("init meter: %w", err)
		}
		otel.SetMeterProvider(mp)
		shutdownFuncs = append(shutdownFuncs, mp.Shutdown)
	}

	return shutdown, nil
}

func (c Config) output() io.Writer {
	if c.Output != nil {
		return c.Output
	}
	return os.Stderr
}

func initTracer(ctx context.Context, cfg Config, res *resource.Resource) (*trace.TracerProvider, error) {
	var (
		exporter trace.SpanExporter
		err      error
	)
	switch cfg.TraceExporter {
	case "otlp":
		opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.OTLPInsecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		exporter, err = otlptracegrpc.New(ctx, opts...)
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(cfg.output()), stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.TraceExporter)
	}
	if err != nil {
		return nil, fmt.Errorf("create exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	), nil
}

var (
	metricsHandler   http.Handler
	metricsHandlerMu sync.RWMutex
)

// MetricsHandler returns the Prometheus scrape handler, or nil unless the
// prometheus metric exporter is installed.
func MetricsHandler() http.Handler {
	metricsHandlerMu.RLock()
	defer metricsHandlerMu.RUnlock()
	return metricsHandler
}

func initMeter(cfg Config, res *resource.Resource) (*metric.MeterProvider, error) {
	switch cfg.MetricExporter {
	case "prometheus":
		exporter, err := promexporter.New()
		if err != nil {
			return nil, fmt.Errorf("create prometheus exporter: %w", err)
		}
		metricsHandlerMu.Lock()
		metricsHandler = promhttp.Handler()
		metricsHandlerMu.Unlock()

		return metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(exporter),
		), nil
	case "stdout":
		exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(cfg.output()))
		if err != nil {
			return nil, fmt.Errorf("create stdout metric exporter: %w", err)
		}
		return metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(exporter)),
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownExporter, cfg.MetricExporter)
	}
}
