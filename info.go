package promwrap

// InfoHandle is a gauge registered eagerly and settable from anywhere, for
// values tracked across multiple functions rather than tied to one call
// site.
type InfoHandle struct {
	gauge  GaugeHandle
	labels map[string]string
}

// Info registers a gauge under name with an initial value and returns a
// handle for updating it.
func (e *Exporter) Info(name, help string, value float64, labels map[string]string) (*InfoHandle, error) {
	spec := Spec{Name: name, Kind: KindGauge, Help: help, Labels: labels}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	plan, err := newLabelPlan(spec, e.defaultLabels)
	if err != nil {
		return nil, err
	}
	bound, err := e.getOrCreate(spec, plan.names)
	if err != nil {
		return nil, err
	}

	h := &InfoHandle{gauge: bound.gauge, labels: plan.resolve("", "")}
	h.Set(value)
	return h, nil
}

// Set updates the gauge value.
func (h *InfoHandle) Set(value float64) {
	h.gauge.Set(value, h.labels)
}
