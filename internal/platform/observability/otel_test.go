package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACES_EXPORTER", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "")
	t.Setenv("SERVICE_VERSION", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := ConfigFromEnv("orders-api")
	assert.Equal(t, "orders-api", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, ExporterStdout, cfg.TracesExporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.25")
	t.Setenv("SERVICE_VERSION", "1.4.0")
	cfg = ConfigFromEnv("orders-api")
	assert.Equal(t, ExporterOTLP, cfg.TracesExporter)
	assert.Equal(t, "collector:4318", cfg.OTLPEndpoint)
	assert.Equal(t, 0.25, cfg.SampleRatio)
	assert.Equal(t, "1.4.0", cfg.ServiceVersion)

	t.Setenv("OTEL_TRACES_EXPORTER", "NONE")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "7")
	cfg = ConfigFromEnv("orders-api")
	assert.Equal(t, ExporterNone, cfg.TracesExporter)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestInitWithConfig_CollectsServiceMetrics(t *testing.T) {
	var logs bytes.Buffer
	ctx := context.Background()
	instruments, shutdown, err := InitWithConfig(ctx, Config{
		ServiceName:    "orders-api",
		ServiceVersion: "test",
		Environment:    "ci",
		TracesExporter: ExporterNone,
		SampleRatio:    1,
		LogLevel:       slog.LevelInfo,
		LogOutput:      &logs,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	counter, err := instruments.Meter("internal.orders.application").Int64Counter("orders.service.orders_created")
	require.NoError(t, err)
	counter.Add(ctx, 2)

	var collected metricdata.ResourceMetrics
	require.NoError(t, instruments.Metrics.Collect(ctx, &collected))
	namespace, ok := collected.Resource.Set().Value(attribute.Key("service.namespace"))
	require.True(t, ok)
	assert.Equal(t, ServiceNamespace, namespace.AsString())

	require.Len(t, collected.ScopeMetrics, 1)
	require.Len(t, collected.ScopeMetrics[0].Metrics, 1)
	sum, ok := collected.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)

	instruments.Logger.Info("ready")
	assert.Contains(t, logs.String(), `"service":"orders-api"`)
}

func TestInitWithConfig_RejectsUnknownExporter(t *testing.T) {
	_, _, err := InitWithConfig(context.Background(), Config{
		ServiceName:    "orders-api",
		TracesExporter: "zipkin",
		LogOutput:      &bytes.Buffer{},
	})
	require.Error(t, err)
}
