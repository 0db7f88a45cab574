package promwrap

// Backend is the thin interface to the external metrics client. The default
// implementation targets prometheus/client_golang; package otelbackend
// provides an OpenTelemetry one. Implementations must make individual handle
// updates safe for concurrent use, as the underlying clients already do.
type Backend interface {
	CreateCounter(name, help string, labelNames []string) (CounterHandle, error)
	CreateGauge(name, help string, labelNames []string) (GaugeHandle, error)
	CreateHistogram(name, help string, labelNames []string, buckets []float64) (ObserverHandle, error)
	CreateSummary(name, help string, labelNames []string, objectives map[float64]float64) (ObserverHandle, error)
}

// CounterHandle increments a bound counter.
type CounterHandle interface {
	Inc(labels map[string]string)
}

// GaugeHandle sets the current value of a bound gauge.
type GaugeHandle interface {
	Set(value float64, labels map[string]string)
}

// ObserverHandle records an observation on a bound histogram or summary.
type ObserverHandle interface {
	Observe(value float64, labels map[string]string)
}
