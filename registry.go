package promwrap

import (
	"slices"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Exporter binds metric names to handles created through a Backend. One
// Exporter is meant to live for the whole process, mirroring the registry
// model of the underlying client: handles register lazily on first use and
// are never torn down.
type Exporter struct {
	backend       Backend
	gatherer      prometheus.Gatherer
	defaultLabels map[string]string

	mu       sync.Mutex
	handles  map[string]*boundMetric
	deferred []*deferredMetric
}

// boundMetric associates a registered handle with the kind and label set it
// was created with. Exactly one of the handle fields is set.
type boundMetric struct {
	kind       Kind
	labelNames []string
	counter    CounterHandle
	gauge      GaugeHandle
	observer   ObserverHandle
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRegistry binds the exporter to reg instead of the prometheus default
// registry. The exporter's Handler serves reg.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(e *Exporter) {
		e.backend = NewPrometheusBackend(reg)
		e.gatherer = reg
	}
}

// WithBackend substitutes the metrics client implementation. An exporter
// with a non-prometheus backend has no gatherer of its own; combine with
// WithGatherer if it should still serve an exposition endpoint.
func WithBackend(b Backend) Option {
	return func(e *Exporter) {
		e.backend = b
		e.gatherer = nil
	}
}

// WithGatherer sets the gatherer backing the exporter's Handler. Useful with
// WithBackend when a MultiBackend includes a prometheus registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(e *Exporter) {
		e.gatherer = g
	}
}

// WithDefaultLabels sets static labels merged into every metric created
// through the exporter. Per-spec labels win on collision.
func WithDefaultLabels(labels map[string]string) Option {
	return func(e *Exporter) {
		e.defaultLabels = make(map[string]string, len(labels))
		for k, v := range labels {
			e.defaultLabels[k] = v
		}
	}
}

// New creates an Exporter bound to the prometheus default registry unless
// configured otherwise.
func New(opts ...Option) *Exporter {
	e := &Exporter{
		backend:  NewPrometheusBackend(prometheus.DefaultRegisterer),
		gatherer: prometheus.DefaultGatherer,
		handles:  make(map[string]*boundMetric),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var (
	defaultOnce     sync.Once
	defaultExporter *Exporter
)

// Default returns the process-wide exporter bound to the prometheus default
// registry, creating it on first use.
func Default() *Exporter {
	defaultOnce.Do(func() {
		defaultExporter = New()
	})
	return defaultExporter
}

// getOrCreate returns the handle registered under spec.Name, creating it
// through the backend on first use. Re-registering a name with a different
// kind or label set is a configuration error and leaves the existing handle
// untouched. Concurrent first-use registration of the same name yields a
// single winner; later callers observe the created handle.
func (e *Exporter) getOrCreate(spec Spec, labelNames []string) (*boundMetric, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if existing, ok := e.handles[spec.Name]; ok {
		if existing.kind != spec.Kind {
			return nil, configErrorf(spec.Name, "already registered as %s, cannot rebind as %s", existing.kind, spec.Kind)
		}
		if !slices.Equal(existing.labelNames, labelNames) {
			return nil, configErrorf(spec.Name, "already registered with labels %v, cannot rebind with %v", existing.labelNames, labelNames)
		}
		return existing, nil
	}

	bound := &boundMetric{kind: spec.Kind, labelNames: labelNames}
	var err error
	switch spec.Kind {
	case KindCounter:
		bound.counter, err = e.backend.CreateCounter(spec.Name, spec.Help, labelNames)
	case KindGauge:
		bound.gauge, err = e.backend.CreateGauge(spec.Name, spec.Help, labelNames)
	case KindHistogram:
		bound.observer, err = e.backend.CreateHistogram(spec.Name, spec.Help, labelNames, spec.Buckets)
	case KindSummary:
		bound.observer, err = e.backend.CreateSummary(spec.Name, spec.Help, labelNames, spec.Objectives)
	}
	if err != nil {
		return nil, configErrorf(spec.Name, "backend registration failed: %v", err)
	}

	e.handles[spec.Name] = bound
	return bound, nil
}
