package transpile

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/valdisz/PyToJs/pkg/diag"
	"github.com/valdisz/PyToJs/pkg/telemetry"
)

var (
	tracer = otel.Tracer(telemetry.ScopeName + "/transpile")
	meter  = otel.Meter(telemetry.ScopeName + "/transpile")
)

var (
	translateLatency metric.Float64Histogram
	translateTotal   metric.Int64Counter
	diagnosticsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		translateLatency, err = meter.Float64Histogram(
			"pytojs_translate_duration_seconds",
			metric.WithDescription("Duration of translations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		translateTotal, err = meter.Int64Counter(
			"pytojs_translations_total",
			metric.WithDescription("Total number of translations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diagnosticsTotal, err = meter.Int64Counter(
			"pytojs_diagnostics_total",
			metric.WithDescription("Total number of diagnostics by severity"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func recordTranslation(ctx context.Context, res *Result) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.Bool("ok", res.OK),
		attribute.Bool("cached", res.Cached),
	)
	translateLatency.Record(ctx, res.Duration.Seconds(), attrs)
	translateTotal.Add(ctx, 1, attrs)

	for _, sev := range []diag.Severity{diag.Warning, diag.Error, diag.FatalError} {
		if n := diag.Count(res.Diagnostics, sev); n > 0 {
			diagnosticsTotal.Add(ctx, int64(n),
				metric.WithAttributes(attribute.String("severity", sev.String())),
			)
		}
	}
}

func startStage(ctx context.Context, stage, file string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Pipeline."+stage,
		trace.WithAttributes(attribute.String("pytojs.file", file)),
	)
}

func setResultAttributes(span trace.Span, res *Result, elapsed time.Duration) {
	span.SetAttributes(
		attribute.Bool("pytojs.ok", res.OK),
		attribute.Bool("pytojs.cached", res.Cached),
		attribute.Int("pytojs.diagnostics", len(res.Diagnostics)),
		attribute.Int64("pytojs.duration_us", elapsed.Microseconds()),
	)
}
