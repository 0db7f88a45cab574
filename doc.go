// Package promwrap attaches Prometheus metrics to application functions with
// annotation-style wrapping. It binds named counters, gauges, histograms, and
// summaries to an external metrics client and returns wrapped functions that
// update the bound metric on every invocation, without changing the wrapped
// function's call contract.
//
// The package does not store, aggregate, or encode metrics itself. All of
// that is delegated to a Backend, by default prometheus/client_golang.
// Package otelbackend provides an OpenTelemetry implementation of the same
// interface.
//
// Typical use:
//
//	exp := promwrap.New()
//
//	calls := exp.MustInstrument(promwrap.Spec{
//		Name:       "calls_total",
//		Kind:       promwrap.KindCounter,
//		Help:       "Number of calls.",
//		LabelNames: []string{promwrap.LabelOutcome},
//	})
//
//	add := promwrap.Wrap2(calls, func(a, b int) (int, error) {
//		return a + b, nil
//	})
//
//	sum, err := add(2, 3) // increments calls_total{outcome="success"}
//
// Configuration problems (empty or malformed names, unknown kinds, a name
// already bound to a different kind, unresolvable labels) surface as
// *ConfigurationError at decoration time, before any wrapped call runs.
// Wrapped calls never synthesize errors of their own: results, errors, and
// panics of the target pass through unchanged.
package promwrap
