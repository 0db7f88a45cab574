package promwrap

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, exp *Exporter) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	exp.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rr
}

func TestDeferredGaugeCollectedOnScrape(t *testing.T) {
	exp, _ := newTestExporter(t)

	current := 42.0
	err := exp.Deferred(Spec{
		Name: "queue_depth",
		Kind: KindGauge,
		Help: "Current queue depth.",
	}, func() (float64, error) {
		return current, nil
	})
	require.NoError(t, err)

	rr := scrape(t, exp)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "queue_depth 42")

	// The function runs again on the next scrape, so the gauge tracks the
	// live value.
	current = 7
	rr = scrape(t, exp)
	assert.Contains(t, rr.Body.String(), "queue_depth 7")
}

func TestDeferredCounterIncrementsPerScrape(t *testing.T) {
	exp, _ := newTestExporter(t)

	err := exp.Deferred(Spec{
		Name: "scrape_marks_total",
		Kind: KindCounter,
		Help: "Increments on every scrape.",
	}, func() (float64, error) {
		return 0, nil
	})
	require.NoError(t, err)

	rr := scrape(t, exp)
	assert.Contains(t, rr.Body.String(), "scrape_marks_total 1")
	rr = scrape(t, exp)
	assert.Contains(t, rr.Body.String(), "scrape_marks_total 2")
}

func TestDeferredErrorFailsScrape(t *testing.T) {
	exp, _ := newTestExporter(t)

	err := exp.Deferred(Spec{
		Name: "broken_gauge",
		Kind: KindGauge,
		Help: "Always fails.",
	}, func() (float64, error) {
		return 0, errors.New("source unavailable")
	})
	require.NoError(t, err)

	rr := scrape(t, exp)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestDeferredRejectsDynamicLabels(t *testing.T) {
	exp, _ := newTestExporter(t)

	err := exp.Deferred(Spec{
		Name:       "queue_depth",
		Kind:       KindGauge,
		Help:       "Test.",
		LabelNames: []string{LabelOutcome},
	}, func() (float64, error) {
		return 0, nil
	})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestDeferredFunctionNotCalledOutsideScrapes(t *testing.T) {
	exp, _ := newTestExporter(t)

	calls := 0
	err := exp.Deferred(Spec{
		Name: "lazy_gauge",
		Kind: KindGauge,
		Help: "Test.",
	}, func() (float64, error) {
		calls++
		return 1, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 0, calls)

	scrape(t, exp)
	assert.Equal(t, 1, calls)
}
