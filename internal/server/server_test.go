package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promwrap/promwrap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	reg := prometheus.NewRegistry()
	exp := promwrap.New(promwrap.WithRegistry(reg))

	srv, err := New(0, "/metrics", exp)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestWorkEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rr := get(t, srv, "/work")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())

	metrics := get(t, srv, "/metrics")
	body := metrics.Body.String()
	assert.Contains(t, body, `demo_requests_total{function="work",outcome="success"} 1`)
	assert.Contains(t, body, "demo_last_work_value")
}

func TestFailEndpointCountsFailure(t *testing.T) {
	srv := newTestServer(t)

	rr := get(t, srv, "/fail")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	metrics := get(t, srv, "/metrics")
	assert.Contains(t, metrics.Body.String(), `demo_requests_total{function="fail",outcome="failure"} 1`)
}

func TestIndexListsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rr := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/metrics")
}
