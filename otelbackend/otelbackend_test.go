package otelbackend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestBackend(t *testing.T) (*Backend, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return New(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %q not found", name)
	return metricdata.Metrics{}
}

func TestCounterInc(t *testing.T) {
	backend, reader := newTestBackend(t)

	c, err := backend.CreateCounter("calls_total", "Number of calls.", []string{"outcome"})
	require.NoError(t, err)

	c.Inc(map[string]string{"outcome": "success"})
	c.Inc(map[string]string{"outcome": "success"})

	m := findMetric(t, collect(t, reader), "calls_total")
	assert.Equal(t, "Number of calls.", m.Description)

	sum, ok := m.Data.(metricdata.Sum[float64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)

	dp := sum.DataPoints[0]
	assert.Equal(t, 2.0, dp.Value)
	v, ok := dp.Attributes.Value(attribute.Key("outcome"))
	require.True(t, ok)
	assert.Equal(t, "success", v.AsString())
}

func TestGaugeSet(t *testing.T) {
	backend, reader := newTestBackend(t)

	g, err := backend.CreateGauge("queue_depth", "Current queue depth.", nil)
	require.NoError(t, err)

	g.Set(10, nil)
	g.Set(4, nil)

	m := findMetric(t, collect(t, reader), "queue_depth")
	gauge, ok := m.Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, 4.0, gauge.DataPoints[0].Value)
}

func TestHistogramObserve(t *testing.T) {
	backend, reader := newTestBackend(t)

	h, err := backend.CreateHistogram("call_duration_seconds", "Call duration.", nil, []float64{0.1, 1})
	require.NoError(t, err)

	h.Observe(0.25, nil)

	m := findMetric(t, collect(t, reader), "call_duration_seconds")
	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, 0.25, hist.DataPoints[0].Sum)
}

func TestSummaryMapsToHistogram(t *testing.T) {
	backend, reader := newTestBackend(t)

	s, err := backend.CreateSummary("latency_seconds", "Latency.", nil, map[float64]float64{0.5: 0.05})
	require.NoError(t, err)

	s.Observe(0.5, nil)

	m := findMetric(t, collect(t, reader), "latency_seconds")
	_, ok := m.Data.(metricdata.Histogram[float64])
	assert.True(t, ok)
}

func TestNewMeterProviderInvalidTransport(t *testing.T) {
	_, err := NewMeterProvider(context.Background(), Config{Transport: "udp"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func TestNewMeterProviderGRPC(t *testing.T) {
	// The gRPC exporter dials lazily, so construction succeeds without a
	// running collector.
	provider, err := NewMeterProvider(context.Background(), Config{
		Endpoint: "localhost:4317",
		Insecure: true,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = provider.Shutdown(ctx)
}
