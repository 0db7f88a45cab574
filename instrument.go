package promwrap

import (
	"context"
	"net/http"
	"time"
)

// Instrumented is a metric binding ready to wrap functions. One Instrumented
// may wrap any number of functions, and one function may be wrapped by any
// number of Instrumented bindings; decorations compose in any order. Each
// invocation of a wrapped function produces exactly one update per binding.
type Instrumented struct {
	spec  Spec
	bound *boundMetric
	plan  *labelPlan
}

// Instrument validates spec, registers the metric with the exporter's
// backend, and returns a binding usable with the Wrap functions and
// Middleware. All configuration errors surface here, before any wrapped
// call runs.
func (e *Exporter) Instrument(spec Spec) (*Instrumented, error) {
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
	return &Instrumented{spec: spec, bound: bound, plan: plan}, nil
}

// MustInstrument is like Instrument but panics on configuration errors, for
// bindings created at package initialization.
func (e *Exporter) MustInstrument(spec Spec) *Instrumented {
	i, err := e.Instrument(spec)
	if err != nil {
		panic(err)
	}
	return i
}

// record applies exactly one metric update for a completed invocation:
// counters increment, gauges are set to the elapsed seconds, histograms and
// summaries observe the elapsed seconds.
func (i *Instrumented) record(function string, elapsed time.Duration, failed bool) {
	outcome := OutcomeSuccess
	if failed {
		outcome = OutcomeFailure
	}
	labels := i.plan.resolve(function, outcome)

	switch i.bound.kind {
	case KindCounter:
		i.bound.counter.Inc(labels)
	case KindGauge:
		i.bound.gauge.Set(elapsed.Seconds(), labels)
	case KindHistogram, KindSummary:
		i.bound.observer.Observe(elapsed.Seconds(), labels)
	}
}

// Wrap instruments a niladic function. The returned function has the same
// contract as fn: result and error pass through unchanged, and a panic in fn
// propagates after the metric update is recorded. A target that blocks or
// awaits internally is measured over its full lifetime, since the update is
// recorded only once fn returns.
func Wrap[R any](i *Instrumented, fn func() (R, error)) func() (R, error) {
	name := funcName(fn)
	return func() (r R, err error) {
		start := time.Now()
		completed := false
		defer func() {
			// A panic unwinds through here with completed still false.
			i.record(name, time.Since(start), !completed || err != nil)
		}()
		r, err = fn()
		completed = true
		return r, err
	}
}

// Wrap1 instruments a one-argument function. See Wrap.
func Wrap1[A, R any](i *Instrumented, fn func(A) (R, error)) func(A) (R, error) {
	name := funcName(fn)
	return func(a A) (r R, err error) {
		start := time.Now()
		completed := false
		defer func() {
			i.record(name, time.Since(start), !completed || err != nil)
		}()
		r, err = fn(a)
		completed = true
		return r, err
	}
}

// Wrap2 instruments a two-argument function. See Wrap. Context-taking
// functions fit here too, with A = context.Context.
func Wrap2[A, B, R any](i *Instrumented, fn func(A, B) (R, error)) func(A, B) (R, error) {
	name := funcName(fn)
	return func(a A, b B) (r R, err error) {
		start := time.Now()
		completed := false
		defer func() {
			i.record(name, time.Since(start), !completed || err != nil)
		}()
		r, err = fn(a, b)
		completed = true
		return r, err
	}
}

// WrapCtx instruments a context-taking function. The duration brackets the
// full call, so a target that blocks on the context is measured over its
// whole lifetime, cancellation included. See Wrap.
func WrapCtx[R any](i *Instrumented, fn func(context.Context) (R, error)) func(context.Context) (R, error) {
	name := funcName(fn)
	return func(ctx context.Context) (r R, err error) {
		start := time.Now()
		completed := false
		defer func() {
			i.record(name, time.Since(start), !completed || err != nil)
		}()
		r, err = fn(ctx)
		completed = true
		return r, err
	}
}

// Middleware applies the same instrumentation to an HTTP handler. name is
// recorded under the function label when declared; a 5xx response or a panic
// counts as a failure outcome.
func Middleware(i *Instrumented, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			completed := false
			defer func() {
				i.record(name, time.Since(start), !completed || sw.status >= http.StatusInternalServerError)
			}()
			next.ServeHTTP(sw, r)
			completed = true
		})
	}
}

// statusWriter captures the response status code for outcome resolution.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush forwards to the underlying writer so streaming handlers keep
// working behind Middleware.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
