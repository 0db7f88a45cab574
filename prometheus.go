package promwrap

import (
	"github.com/prometheus/client_golang/prometheus"
)

// prometheusBackend implements Backend on top of a prometheus Registerer.
type prometheusBackend struct {
	registerer prometheus.Registerer
}

var _ Backend = (*prometheusBackend)(nil)

// NewPrometheusBackend creates a Backend registering metrics with reg.
// Exporters created with New or WithRegistry use this backend implicitly;
// the constructor exists for composing backends with MultiBackend.
func NewPrometheusBackend(reg prometheus.Registerer) Backend {
	return &prometheusBackend{registerer: reg}
}

func (b *prometheusBackend) CreateCounter(name, help string, labelNames []string) (CounterHandle, error) {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, labelNames)
	if err := b.registerer.Register(vec); err != nil {
		return nil, err
	}
	return promCounter{vec}, nil
}

func (b *prometheusBackend) CreateGauge(name, help string, labelNames []string) (GaugeHandle, error) {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, labelNames)
	if err := b.registerer.Register(vec); err != nil {
		return nil, err
	}
	return promGauge{vec}, nil
}

func (b *prometheusBackend) CreateHistogram(name, help string, labelNames []string, buckets []float64) (ObserverHandle, error) {
	// Nil buckets fall back to prometheus.DefBuckets inside the client.
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: buckets,
	}, labelNames)
	if err := b.registerer.Register(vec); err != nil {
		return nil, err
	}
	return promObserver{vec}, nil
}

func (b *prometheusBackend) CreateSummary(name, help string, labelNames []string, objectives map[float64]float64) (ObserverHandle, error) {
	vec := prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Name:       name,
		Help:       help,
		Objectives: objectives,
	}, labelNames)
	if err := b.registerer.Register(vec); err != nil {
		return nil, err
	}
	return promObserver{vec}, nil
}

type promCounter struct {
	vec *prometheus.CounterVec
}

func (c promCounter) Inc(labels map[string]string) {
	c.vec.With(labels).Inc()
}

type promGauge struct {
	vec *prometheus.GaugeVec
}

func (g promGauge) Set(value float64, labels map[string]string) {
	g.vec.With(labels).Set(value)
}

type promObserver struct {
	vec prometheus.ObserverVec
}

func (o promObserver) Observe(value float64, labels map[string]string) {
	o.vec.With(labels).Observe(value)
}
