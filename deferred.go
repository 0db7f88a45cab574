package promwrap

import (
	"fmt"
	"time"
)

// DeferredFunc produces a metric value on demand at scrape time.
type DeferredFunc func() (float64, error)

// deferredMetric pairs a deferred function with its bound handle.
type deferredMetric struct {
	name   string
	fn     DeferredFunc
	bound  *boundMetric
	labels map[string]string
}

// Deferred registers fn to run whenever the exporter's Handler serves a
// scrape, so scrapes always observe a fresh value. For gauges the returned
// value becomes the metric value; counters increment once per scrape; for
// histograms and summaries the execution duration of fn is observed,
// matching the call-time behavior of wrapped functions.
//
// Deferred specs support static labels only. An error from fn fails the
// scrape.
func (e *Exporter) Deferred(spec Spec, fn DeferredFunc) error {
	if err := spec.validate(); err != nil {
		return err
	}
	if len(spec.LabelNames) > 0 {
		return configErrorf(spec.Name, "deferred metrics support static labels only")
	}
	plan, err := newLabelPlan(spec, e.defaultLabels)
	if err != nil {
		return err
	}
	bound, err := e.getOrCreate(spec, plan.names)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.deferred = append(e.deferred, &deferredMetric{
		name:   spec.Name,
		fn:     fn,
		bound:  bound,
		labels: plan.resolve("", ""),
	})
	e.mu.Unlock()
	return nil
}

// collectDeferred runs all deferred functions and applies their updates.
// Called before every gather.
func (e *Exporter) collectDeferred() error {
	e.mu.Lock()
	deferred := make([]*deferredMetric, len(e.deferred))
	copy(deferred, e.deferred)
	e.mu.Unlock()

	for _, d := range deferred {
		start := time.Now()
		value, err := d.fn()
		if err != nil {
			return fmt.Errorf("deferred metric %q: %w", d.name, err)
		}

		switch d.bound.kind {
		case KindCounter:
			d.bound.counter.Inc(d.labels)
		case KindGauge:
			d.bound.gauge.Set(value, d.labels)
		case KindHistogram, KindSummary:
			d.bound.observer.Observe(time.Since(start).Seconds(), d.labels)
		}
	}
	return nil
}
