package telemetry

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_NoneInstallsNothing(t *testing.T) {
	shutdown, err := Init(context.Background(), DefaultConfig())
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_UnknownExporter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TraceExporter = "zipkin"
	_, err := Init(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownExporter)

	cfg = DefaultConfig()
	cfg.MetricExporter = "statsd"
	_, err = Init(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrUnknownExporter)
}

func TestInit_StdoutTrace(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.TraceExporter = "stdout"
	cfg.Output = &buf

	ctx := context.Background()
	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)

	_, span := otel.Tracer(ScopeName).Start(ctx, "translate")
	span.End()
	require.NoError(t, shutdown(ctx))

	assert.Contains(t, buf.String(), `"Name": "translate"`)
}

func TestInit_PrometheusHandler(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MetricExporter = "prometheus"

	ctx := context.Background()
	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	defer shutdown(ctx)

	counter, err := otel.Meter(ScopeName).Int64Counter("pytojs.test.count")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	h := MetricsHandler()
	require.NotNil(t, h)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "pytojs_test_count")
}
