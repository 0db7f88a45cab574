package promwrap

import (
	"fmt"
	"slices"
	"sort"
	"sync"
)

// enumStateLabel is the label dimension carrying the active state, following
// the Prometheus client convention for state-set metrics.
const enumStateLabel = "state"

// EnumHandle tracks a fixed state set as a one-hot gauge over a "state"
// label: the active state reads 1, all others 0.
type EnumHandle struct {
	gauge  GaugeHandle
	states []string
	base   map[string]string

	mu sync.Mutex
}

// Enum registers a state-set metric under name. states must be non-empty;
// the first state starts active. The returned handle is safe for concurrent
// use.
func (e *Exporter) Enum(name, help string, states []string, labels map[string]string) (*EnumHandle, error) {
	spec := Spec{Name: name, Kind: KindGauge, Help: help, Labels: labels}
	if err := spec.validate(); err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, configErrorf(name, "enum requires at least one state")
	}
	plan, err := newLabelPlan(spec, e.defaultLabels)
	if err != nil {
		return nil, err
	}
	if _, ok := plan.static[enumStateLabel]; ok {
		return nil, configErrorf(name, "label %q is reserved for enum states", enumStateLabel)
	}

	labelNames := append(slices.Clone(plan.names), enumStateLabel)
	sort.Strings(labelNames)

	bound, err := e.getOrCreate(spec, labelNames)
	if err != nil {
		return nil, err
	}

	h := &EnumHandle{
		gauge:  bound.gauge,
		states: slices.Clone(states),
		base:   plan.resolve("", ""),
	}
	if err := h.State(states[0]); err != nil {
		return nil, err
	}
	return h, nil
}

// State marks s active and clears all other declared states.
func (h *EnumHandle) State(s string) error {
	if !slices.Contains(h.states, s) {
		return fmt.Errorf("promwrap: enum state %q not declared", s)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, state := range h.states {
		labels := make(map[string]string, len(h.base)+1)
		for k, v := range h.base {
			labels[k] = v
		}
		labels[enumStateLabel] = state

		var value float64
		if state == s {
			value = 1
		}
		h.gauge.Set(value, labels)
	}
	return nil
}
