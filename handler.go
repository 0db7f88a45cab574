package promwrap

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Handler returns an HTTP handler serving the exporter's registry in the
// standard text exposition formats, with OpenMetrics negotiation enabled.
// Deferred metric functions run before each gather. Handler panics if the
// exporter has no gatherer (a non-prometheus backend without WithGatherer);
// such exporters expose metrics through their own pipeline.
func (e *Exporter) Handler() http.Handler {
	if e.gatherer == nil {
		panic("promwrap: exporter has no gatherer to serve")
	}
	return promhttp.HandlerFor(
		prometheus.GathererFunc(e.gather),
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		},
	)
}

// gather runs deferred collection, then delegates to the bound registry.
func (e *Exporter) gather() ([]*dto.MetricFamily, error) {
	if err := e.collectDeferred(); err != nil {
		return nil, err
	}
	return e.gatherer.Gather()
}
