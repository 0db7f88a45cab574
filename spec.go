package promwrap

import "regexp"

// Kind identifies the metric type backing an instrumented function.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
)

// Name rules follow the Prometheus data model.
var (
	validMetricName = regexp.MustCompile(`^[a-zA-Z_:][a-zA-Z0-9_:]*$`)
	validLabelName  = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

// Spec describes the metric an instrumented function binds to. A Spec is
// immutable after decoration; the same Spec may be used at multiple
// decoration sites and resolves to the same metric handle.
type Spec struct {
	Name string
	Kind Kind
	Help string

	// Labels holds static label values stamped on every update, merged with
	// the exporter's default labels. Spec values win over defaults.
	Labels map[string]string

	// LabelNames declares dynamic labels resolved per invocation. The
	// supported sources are LabelFunction and LabelOutcome; any other name
	// is a configuration error.
	LabelNames []string

	// Buckets configures histogram buckets. Nil selects the client's
	// defaults. Ignored for other kinds.
	Buckets []float64

	// Objectives configures summary quantile objectives. Ignored for other
	// kinds.
	Objectives map[float64]float64
}

func (s Spec) validate() error {
	if s.Name == "" {
		return configErrorf("", "metric name cannot be empty")
	}
	if !validMetricName.MatchString(s.Name) {
		return configErrorf(s.Name, "invalid metric name")
	}
	switch s.Kind {
	case KindCounter, KindGauge, KindHistogram, KindSummary:
	default:
		return configErrorf(s.Name, "unknown metric kind %q", s.Kind)
	}
	for name := range s.Labels {
		if !validLabelName.MatchString(name) {
			return configErrorf(s.Name, "invalid label name %q", name)
		}
	}
	for _, name := range s.LabelNames {
		if !validLabelName.MatchString(name) {
			return configErrorf(s.Name, "invalid label name %q", name)
		}
	}
	return nil
}
