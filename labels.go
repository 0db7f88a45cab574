package promwrap

import (
	"reflect"
	"runtime"
	"sort"
	"strings"
)

// Dynamic label sources supported by the resolver.
const (
	// LabelFunction carries the identifier of the wrapped function.
	LabelFunction = "function"
	// LabelOutcome carries the call outcome, OutcomeSuccess or
	// OutcomeFailure.
	LabelOutcome = "outcome"
)

// Values recorded under the outcome label.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// labelPlan precomputes how each declared label of a spec gets its value.
// Static labels are fixed at decoration time; dynamic labels are filled in
// per invocation. resolve is a pure function of the plan and the call
// outcome, so the plan is safe to share between concurrent invocations.
type labelPlan struct {
	names       []string // full declared label set, sorted
	static      map[string]string
	hasFunction bool
	hasOutcome  bool
}

// newLabelPlan merges default and spec labels and verifies that every
// declared dynamic label has a value source. Unresolvable labels fail here,
// at decoration time.
func newLabelPlan(spec Spec, defaults map[string]string) (*labelPlan, error) {
	static := make(map[string]string, len(defaults)+len(spec.Labels))
	for k, v := range defaults {
		static[k] = v
	}
	for k, v := range spec.Labels {
		static[k] = v
	}

	p := &labelPlan{static: static}
	for _, name := range spec.LabelNames {
		if _, ok := static[name]; ok {
			return nil, configErrorf(spec.Name, "label %q declared both statically and dynamically", name)
		}
		switch name {
		case LabelFunction:
			p.hasFunction = true
		case LabelOutcome:
			p.hasOutcome = true
		default:
			return nil, configErrorf(spec.Name, "label %q has no value source", name)
		}
	}

	p.names = make([]string, 0, len(static)+2)
	for name := range static {
		p.names = append(p.names, name)
	}
	p.names = append(p.names, spec.LabelNames...)
	sort.Strings(p.names)

	return p, nil
}

// resolve returns the full label value map for one invocation.
func (p *labelPlan) resolve(function, outcome string) map[string]string {
	labels := make(map[string]string, len(p.static)+2)
	for k, v := range p.static {
		labels[k] = v
	}
	if p.hasFunction {
		labels[LabelFunction] = function
	}
	if p.hasOutcome {
		labels[LabelOutcome] = outcome
	}
	return labels
}

// dynamic reports whether any per-invocation label is declared.
func (p *labelPlan) dynamic() bool {
	return p.hasFunction || p.hasOutcome
}

// funcName derives a short identifier for fn, e.g. "mypkg.Add". Anonymous
// functions get the compiler-assigned name of their enclosing scope.
func funcName(fn any) string {
	pc := reflect.ValueOf(fn).Pointer()
	f := runtime.FuncForPC(pc)
	if f == nil {
		return "unknown"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
