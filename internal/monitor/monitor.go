// Package monitor publishes process resource usage as gauge metrics through
// the promwrap exporter, demonstrating handles shared across functions.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/promwrap/promwrap"
)

// Monitor tracks resource usage on a fixed interval and reflects it into
// process gauges.
type Monitor struct {
	interval time.Duration
	logger   *slog.Logger
	wg       sync.WaitGroup
	proc     *process.Process

	cpuPercent *promwrap.InfoHandle
	goroutines *promwrap.InfoHandle
	heapAlloc  *promwrap.InfoHandle
	gcRuns     *promwrap.InfoHandle
}

// New creates a monitor publishing through exp.
func New(exp *promwrap.Exporter, interval time.Duration, logger *slog.Logger) (*Monitor, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process handle: %w", err)
	}

	m := &Monitor{
		interval: interval,
		logger:   logger,
		proc:     proc,
	}

	gauges := []struct {
		handle **promwrap.InfoHandle
		name   string
		help   string
	}{
		{&m.cpuPercent, "demo_process_cpu_percent", "Process CPU usage in percent."},
		{&m.goroutines, "demo_process_goroutines", "Number of live goroutines."},
		{&m.heapAlloc, "demo_process_heap_alloc_bytes", "Bytes of allocated heap objects."},
		{&m.gcRuns, "demo_process_gc_runs_total", "Completed GC cycles since process start."},
	}
	for _, g := range gauges {
		h, err := exp.Info(g.name, g.help, 0, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to register %s: %w", g.name, err)
		}
		*g.handle = h
	}

	return m, nil
}

// Run starts the monitoring loop in a background goroutine. The loop exits
// when ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.wg.Go(func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		// Immediate first collection
		m.collect()

		for {
			select {
			case <-ctx.Done():
				m.logger.Info("monitor shutdown complete")
				return
			case <-ticker.C:
				m.collect()
			}
		}
	})
}

// Wait blocks until the monitor goroutine exits.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

// collect reads current usage and updates the gauges.
func (m *Monitor) collect() {
	processCPU, err := m.proc.CPUPercent()
	if err != nil {
		m.logger.Warn("failed to get CPU percent", "error", err)
		processCPU = 0
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	goroutines := runtime.NumGoroutine()

	m.cpuPercent.Set(processCPU)
	m.goroutines.Set(float64(goroutines))
	m.heapAlloc.Set(float64(ms.HeapAlloc))
	m.gcRuns.Set(float64(ms.NumGC))

	m.logger.Debug("resource",
		"cpu", fmt.Sprintf("%.4f%%", processCPU),
		"gor", goroutines,
		"heap_mb", fmt.Sprintf("%.2f", float64(ms.HeapAlloc)/(1024*1024)),
		"gc", ms.NumGC,
	)
}
