// Package workload generates simulated application values for the demo. The
// values feed deferred gauges, so every scrape of the metrics endpoint
// observes a fresh reading.
package workload

import (
	"fmt"

	"github.com/neox5/simv/clock"
	"github.com/neox5/simv/source"
	"github.com/neox5/simv/transform"
	"github.com/neox5/simv/value"

	"github.com/promwrap/promwrap/internal/config"
)

// Workload manages simv components and value generation.
type Workload struct {
	clock  clock.Clock
	values map[string]value.Value[int]
}

// New creates a workload from configuration.
func New(cfg *config.WorkloadConfig) (*Workload, error) {
	clk := clock.NewPeriodicClock(cfg.Interval)

	// Create sources
	sources := make(map[string]source.Publisher[int])
	for name, srcCfg := range cfg.Sources {
		switch srcCfg.Type {
		case "random_int":
			sources[name] = source.NewRandomIntSource(clk, srcCfg.Min, srcCfg.Max)
		default:
			return nil, fmt.Errorf("unknown source type: %s", srcCfg.Type)
		}
	}

	values := make(map[string]value.Value[int])

	// First pass: base values from sources
	for name, valCfg := range cfg.Values {
		if valCfg.Source == "" {
			continue
		}
		src, exists := sources[valCfg.Source]
		if !exists {
			return nil, fmt.Errorf("source %q not found for value %q", valCfg.Source, name)
		}

		var transforms []transform.Transformation[int]
		for _, tfName := range valCfg.Transforms {
			switch tfName {
			case "accumulate":
				transforms = append(transforms, transform.NewAccumulate[int]())
			default:
				return nil, fmt.Errorf("unknown transform: %s", tfName)
			}
		}

		values[name] = value.New(src, transforms...)
	}

	// Second pass: derived values (clones, wraps)
	for name, valCfg := range cfg.Values {
		if valCfg.CloneFrom == "" {
			continue
		}
		baseVal, exists := values[valCfg.CloneFrom]
		if !exists {
			return nil, fmt.Errorf("clone_from %q not found for value %q", valCfg.CloneFrom, name)
		}

		cloned := baseVal.Clone()
		switch valCfg.Wrap {
		case "reset_on_read":
			values[name] = value.NewResetOnRead(cloned, valCfg.ResetValue)
		case "":
			values[name] = cloned
		default:
			return nil, fmt.Errorf("unknown wrap type: %s", valCfg.Wrap)
		}
	}

	return &Workload{
		clock:  clk,
		values: values,
	}, nil
}

// Start begins value generation.
func (w *Workload) Start() {
	w.clock.Start()
}

// Stop halts value generation.
func (w *Workload) Stop() {
	w.clock.Stop()
}

// Value returns a named value.
func (w *Workload) Value(name string) (value.Value[int], bool) {
	val, exists := w.values[name]
	return val, exists
}

// Names returns all configured value names.
func (w *Workload) Names() []string {
	names := make([]string, 0, len(w.values))
	for name := range w.values {
		names = append(names, name)
	}
	return names
}
