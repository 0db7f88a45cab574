package promwrap

// MultiBackend fans out metric creation and updates to several backends, so
// a single decoration site can report through, say, Prometheus and an OTLP
// push pipeline at once. Creation fails on the first backend error; updates
// are applied to every backend in order.
func MultiBackend(backends ...Backend) Backend {
	return multiBackend(backends)
}

type multiBackend []Backend

var _ Backend = multiBackend(nil)

func (m multiBackend) CreateCounter(name, help string, labelNames []string) (CounterHandle, error) {
	handles := make(multiCounter, 0, len(m))
	for _, b := range m {
		h, err := b.CreateCounter(name, help, labelNames)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (m multiBackend) CreateGauge(name, help string, labelNames []string) (GaugeHandle, error) {
	handles := make(multiGauge, 0, len(m))
	for _, b := range m {
		h, err := b.CreateGauge(name, help, labelNames)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (m multiBackend) CreateHistogram(name, help string, labelNames []string, buckets []float64) (ObserverHandle, error) {
	handles := make(multiObserver, 0, len(m))
	for _, b := range m {
		h, err := b.CreateHistogram(name, help, labelNames, buckets)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

func (m multiBackend) CreateSummary(name, help string, labelNames []string, objectives map[float64]float64) (ObserverHandle, error) {
	handles := make(multiObserver, 0, len(m))
	for _, b := range m {
		h, err := b.CreateSummary(name, help, labelNames, objectives)
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

type multiCounter []CounterHandle

func (m multiCounter) Inc(labels map[string]string) {
	for _, h := range m {
		h.Inc(labels)
	}
}

type multiGauge []GaugeHandle

func (m multiGauge) Set(value float64, labels map[string]string) {
	for _, h := range m {
		h.Set(value, labels)
	}
}

type multiObserver []ObserverHandle

func (m multiObserver) Observe(value float64, labels map[string]string) {
	for _, h := range m {
		h.Observe(value, labels)
	}
}
