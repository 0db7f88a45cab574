package promwrap

import "fmt"

// ConfigurationError reports an invalid metric specification or a
// registration conflict. It is only returned at decoration time; wrapped
// functions never produce errors of their own at call time.
type ConfigurationError struct {
	Metric string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Metric == "" {
		return fmt.Sprintf("promwrap: %s", e.Reason)
	}
	return fmt.Sprintf("promwrap: metric %q: %s", e.Metric, e.Reason)
}

func configErrorf(metric, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Metric: metric, Reason: fmt.Sprintf(format, args...)}
}
