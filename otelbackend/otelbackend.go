// Package otelbackend implements the promwrap Backend interface on top of an
// OpenTelemetry Meter, so instrumented functions can report through an OTLP
// push pipeline instead of, or in addition to, a Prometheus registry.
package otelbackend

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"

	"github.com/promwrap/promwrap"
)

// Backend creates OTel instruments for promwrap metric bindings. Summaries
// are registered as histograms, the closest OTel instrument; quantile
// objectives have no OTel equivalent and are ignored.
type Backend struct {
	meter otelmetric.Meter
}

var _ promwrap.Backend = (*Backend)(nil)

// New creates a Backend recording through meter.
func New(meter otelmetric.Meter) *Backend {
	return &Backend{meter: meter}
}

func (b *Backend) CreateCounter(name, help string, labelNames []string) (promwrap.CounterHandle, error) {
	inst, err := b.meter.Float64Counter(name, otelmetric.WithDescription(help))
	if err != nil {
		return nil, err
	}
	return &counter{inst: inst}, nil
}

func (b *Backend) CreateGauge(name, help string, labelNames []string) (promwrap.GaugeHandle, error) {
	inst, err := b.meter.Float64Gauge(name, otelmetric.WithDescription(help))
	if err != nil {
		return nil, err
	}
	return &gauge{inst: inst}, nil
}

func (b *Backend) CreateHistogram(name, help string, labelNames []string, buckets []float64) (promwrap.ObserverHandle, error) {
	opts := []otelmetric.Float64HistogramOption{otelmetric.WithDescription(help)}
	if len(buckets) > 0 {
		opts = append(opts, otelmetric.WithExplicitBucketBoundaries(buckets...))
	}
	inst, err := b.meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, err
	}
	return &histogram{inst: inst}, nil
}

func (b *Backend) CreateSummary(name, help string, labelNames []string, objectives map[float64]float64) (promwrap.ObserverHandle, error) {
	inst, err := b.meter.Float64Histogram(name, otelmetric.WithDescription(help))
	if err != nil {
		return nil, err
	}
	return &histogram{inst: inst}, nil
}

type counter struct {
	inst otelmetric.Float64Counter
}

func (c *counter) Inc(labels map[string]string) {
	c.inst.Add(context.Background(), 1, otelmetric.WithAttributes(attrs(labels)...))
}

type gauge struct {
	inst otelmetric.Float64Gauge
}

func (g *gauge) Set(value float64, labels map[string]string) {
	g.inst.Record(context.Background(), value, otelmetric.WithAttributes(attrs(labels)...))
}

type histogram struct {
	inst otelmetric.Float64Histogram
}

func (h *histogram) Observe(value float64, labels map[string]string) {
	h.inst.Record(context.Background(), value, otelmetric.WithAttributes(attrs(labels)...))
}

// attrs converts a label map to OTel attributes.
func attrs(labels map[string]string) []attribute.KeyValue {
	kvs := make([]attribute.KeyValue, 0, len(labels))
	for k, v := range labels {
		kvs = append(kvs, attribute.String(k, v))
	}
	return kvs
}
