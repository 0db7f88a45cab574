package otelbackend

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Defaults for OTLP push settings.
const (
	DefaultTransport    = "grpc"
	DefaultPushInterval = 10 * time.Second
)

// Config defines how metrics are pushed to an OTLP collector.
type Config struct {
	// Transport selects the OTLP protocol, "grpc" or "http".
	Transport string
	// Endpoint is the collector address as host:port.
	Endpoint string
	// PushInterval is the periodic export interval.
	PushInterval time.Duration
	// Resource holds resource attributes such as service.name.
	Resource map[string]string
	// Headers are added to every export request.
	Headers map[string]string
	// Insecure disables transport security.
	Insecure bool
}

// NewMeterProvider builds a meter provider that pushes OTLP metrics
// according to cfg. Callers own the provider and must Shutdown it.
func NewMeterProvider(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	if cfg.Transport == "" {
		cfg.Transport = DefaultTransport
	}
	if cfg.PushInterval == 0 {
		cfg.PushInterval = DefaultPushInterval
	}

	resourceAttrs := make([]attribute.KeyValue, 0, len(cfg.Resource))
	for k, v := range cfg.Resource {
		resourceAttrs = append(resourceAttrs, attribute.String(k, v))
	}
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch cfg.Transport {
	case "grpc":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetricgrpc.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetricgrpc.WithHeaders(cfg.Headers))
		}
		exporter, err = otlpmetricgrpc.New(ctx, opts...)
	case "http":
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlpmetrichttp.WithHeaders(cfg.Headers))
		}
		exporter, err = otlpmetrichttp.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("invalid transport: %s (must be grpc or http)", cfg.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(cfg.PushInterval),
	)

	return sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	), nil
}
