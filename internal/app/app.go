// Package app wires the demo application together from configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/promwrap/promwrap"
	"github.com/promwrap/promwrap/internal/config"
	"github.com/promwrap/promwrap/internal/server"
	"github.com/promwrap/promwrap/internal/workload"
	"github.com/promwrap/promwrap/otelbackend"
)

// App holds initialized application components.
type App struct {
	Config   *config.Config
	Exporter *promwrap.Exporter
	Workload *workload.Workload
	Server   *server.Server

	meterProvider *sdkmetric.MeterProvider
}

// New initializes the application from configuration. Metrics always report
// to a dedicated Prometheus registry; with OTEL enabled they additionally
// push through an OTLP pipeline via a fan-out backend.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	registry := prometheus.NewRegistry()
	backends := []promwrap.Backend{promwrap.NewPrometheusBackend(registry)}

	var meterProvider *sdkmetric.MeterProvider
	if cfg.OTEL != nil && cfg.OTEL.Enabled {
		var err error
		meterProvider, err = otelbackend.NewMeterProvider(ctx, otelbackend.Config{
			Transport:    cfg.OTEL.Transport,
			Endpoint:     cfg.OTEL.GetEndpoint(),
			PushInterval: cfg.OTEL.Interval,
			Resource:     cfg.OTEL.Resource,
			Headers:      cfg.OTEL.Headers,
			Insecure:     cfg.OTEL.Insecure,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create OTEL meter provider: %w", err)
		}
		backends = append(backends, otelbackend.New(meterProvider.Meter("promwrap-demo")))
	}

	exporter := promwrap.New(
		promwrap.WithBackend(promwrap.MultiBackend(backends...)),
		promwrap.WithGatherer(registry),
		promwrap.WithDefaultLabels(cfg.Labels),
	)

	var wl *workload.Workload
	if cfg.Workload != nil {
		var err error
		wl, err = workload.New(cfg.Workload)
		if err != nil {
			return nil, fmt.Errorf("failed to create workload: %w", err)
		}

		// One deferred gauge per workload value; the value is read at
		// scrape time.
		for name, valCfg := range cfg.Workload.Values {
			val, ok := wl.Value(name)
			if !ok {
				return nil, fmt.Errorf("workload value %q not found", name)
			}
			help := valCfg.Help
			if help == "" {
				help = fmt.Sprintf("Simulated workload value %q.", name)
			}
			err := exporter.Deferred(promwrap.Spec{
				Name: "demo_workload_" + name,
				Kind: promwrap.KindGauge,
				Help: help,
			}, func() (float64, error) {
				return float64(val.Value()), nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to register workload gauge: %w", err)
			}
		}
	}

	srv, err := server.New(cfg.Server.Port, cfg.Server.MetricsPath, exporter)
	if err != nil {
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &App{
		Config:        cfg,
		Exporter:      exporter,
		Workload:      wl,
		Server:        srv,
		meterProvider: meterProvider,
	}, nil
}

// Stop releases application resources, flushing any pending OTLP export.
func (a *App) Stop() error {
	if a.meterProvider == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return a.meterProvider.Shutdown(ctx)
}
