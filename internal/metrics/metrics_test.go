package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ObserveLookup("sdk", "ok")
	m.ObserveLookup("sdk", "ok")
	m.ObserveLookup("fallback", "error")
	m.ObserveRetry()
	m.ObserveTransfer(nil)
	m.ObserveTransfer(errors.New("boom"))
	m.ObserveSwap("simulated", nil)
	m.SetBalance("SOL", 1.5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lookups.WithLabelValues("sdk", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lookups.WithLabelValues("fallback", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.retries))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transfers.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.swaps.WithLabelValues("simulated", "ok")))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.balance.WithLabelValues("SOL")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLookup("sdk", "ok")
		m.ObserveRetry()
		m.ObserveRefresh(time.Second, nil)
		m.ObservePayrollLine("paid")
		m.ObserveRateLimited()
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveNetworkSwitch()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "globepay_network_switches_total 1")
}
