// Package server hosts the instrumented demo endpoints and the metrics
// exposition endpoint.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/promwrap/promwrap"
)

// Server provides the demo HTTP server.
type Server struct {
	addr        string
	metricsPath string
	server      *http.Server
}

// New creates the demo server with all endpoints instrumented through exp.
func New(port int, metricsPath string, exp *promwrap.Exporter) (*Server, error) {
	requests, err := exp.Instrument(promwrap.Spec{
		Name:       "demo_requests_total",
		Kind:       promwrap.KindCounter,
		Help:       "Number of demo requests served.",
		LabelNames: []string{promwrap.LabelFunction, promwrap.LabelOutcome},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to instrument request counter: %w", err)
	}

	latency, err := exp.Instrument(promwrap.Spec{
		Name:       "demo_request_duration_seconds",
		Kind:       promwrap.KindHistogram,
		Help:       "Demo request handling duration in seconds.",
		LabelNames: []string{promwrap.LabelFunction},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to instrument request histogram: %w", err)
	}

	lastWork, err := exp.Info("demo_last_work_value", "Result of the most recent /work request.", 0, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register work gauge: %w", err)
	}

	state, err := exp.Enum("demo_worker_state", "State of the demo worker.", []string{"idle", "running"}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register worker state: %w", err)
	}

	// Stacked decorations: counter and histogram wrap independently and in
	// either order.
	instrument := func(name string, h http.Handler) http.Handler {
		return promwrap.Middleware(requests, name)(promwrap.Middleware(latency, name)(h))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", index)

	mux.Handle("/work", instrument("work", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := rand.Float64()
		lastWork.Set(v)
		fmt.Fprintf(w, "%f\n", v)
	})))

	mux.Handle("/fail", instrument("fail", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "simulated failure", http.StatusInternalServerError)
	})))

	mux.Handle("/state", instrument("state", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := state.State("running"); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		// Scrape the metrics endpoint during the sleep to observe the
		// running state.
		time.Sleep(2 * time.Second)
		if err := state.State("idle"); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		fmt.Fprintln(w, "done")
	})))

	mux.Handle(metricsPath, exp.Handler())

	addr := fmt.Sprintf(":%d", port)
	return &Server{
		addr:        addr,
		metricsPath: metricsPath,
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

func index(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `Endpoints:
/work    instrumented endpoint: request counter, latency histogram, last-value gauge
/fail    always returns 500, counted with outcome="failure"
/state   worker state enum, running for 2s then back to idle
/metrics exposition endpoint, runs deferred workload gauges on each scrape
`)
}

// Start begins serving HTTP requests and blocks until ctx is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		slog.Info("starting server", "addr", s.addr, "metrics_path", s.metricsPath)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	slog.Info("shutting down server")
	return s.server.Shutdown(ctx)
}
