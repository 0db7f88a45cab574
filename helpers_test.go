package promwrap

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

// newTestExporter creates an exporter over a fresh registry so tests do not
// pollute the process-wide default one.
func newTestExporter(t *testing.T, opts ...Option) (*Exporter, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return New(append([]Option{WithRegistry(reg)}, opts...)...), reg
}

// findMetric returns the sample for name whose label set equals labels, or
// nil if absent.
func findMetric(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := g.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if labelsEqual(m.GetLabel(), labels) {
				return m
			}
		}
	}
	return nil
}

// metricValue returns the counter or gauge value for name with the given
// label set, failing the test if the sample is missing.
func metricValue(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) float64 {
	t.Helper()
	m := findMetric(t, g, name, labels)
	require.NotNilf(t, m, "metric %q with labels %v not found", name, labels)

	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		t.Fatalf("metric %q is neither counter nor gauge", name)
		return 0
	}
}

// histogramStats returns sample count and sum for a histogram metric.
func histogramStats(t *testing.T, g prometheus.Gatherer, name string, labels map[string]string) (uint64, float64) {
	t.Helper()
	m := findMetric(t, g, name, labels)
	require.NotNilf(t, m, "histogram %q with labels %v not found", name, labels)
	require.NotNil(t, m.GetHistogram())
	return m.GetHistogram().GetSampleCount(), m.GetHistogram().GetSampleSum()
}

func labelsEqual(pairs []*dto.LabelPair, labels map[string]string) bool {
	if len(pairs) != len(labels) {
		return false
	}
	for _, p := range pairs {
		if labels[p.GetName()] != p.GetValue() {
			return false
		}
	}
	return true
}
