package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "globepay"

// Metrics owns its registry so tests can create as many as they like.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	lookups       *prometheus.CounterVec
	retries       prometheus.Counter
	refreshes     *prometheus.HistogramVec
	balance       *prometheus.GaugeVec
	transfers     *prometheus.CounterVec
	swaps         *prometheus.CounterVec
	payrollLines  *prometheus.CounterVec
	rateLimited   prometheus.Counter
	networkSwitch prometheus.Counter
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "balance_lookups_total",
			Help:      "Balance lookups by source and outcome.",
		}, []string{"source", "outcome"}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_retries_total",
			Help:      "Retried primary ledger reads.",
		}),
		refreshes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wallet_refresh_duration_seconds",
			Help:      "Wallet balance refresh latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		balance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wallet_balance",
			Help:      "Last reconciled wallet balance in whole units.",
		}, []string{"asset"}),
		transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transfers_total",
			Help:      "Submitted transfers by outcome.",
		}, []string{"outcome"}),
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps_total",
			Help:      "Executed swaps by mode and outcome.",
		}, []string{"mode", "outcome"}),
		payrollLines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payroll_payments_total",
			Help:      "Payroll payments by status.",
		}, []string{"status"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		networkSwitch: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "network_switches_total",
			Help:      "Ledger network reconfigurations.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.lookups, m.retries, m.refreshes, m.balance, m.transfers,
		m.swaps, m.payrollLines, m.rateLimited, m.networkSwitch,
	)
	return m
}

// Registry exposes the registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveLookup(source, outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveRetry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) ObserveRefresh(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) SetBalance(asset string, value float64) {
	if m == nil {
		return
	}
	m.balance.WithLabelValues(asset).Set(value)
}

func (m *Metrics) ObserveTransfer(err error) {
	if m == nil {
		return
	}
	m.transfers.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveSwap(mode string, err error) {
	if m == nil {
		return
	}
	m.swaps.WithLabelValues(mode, outcome(err)).Inc()
}

func (m *Metrics) ObservePayrollLine(status string) {
	if m == nil {
		return
	}
	m.payrollLines.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) ObserveNetworkSwitch() {
	if m == nil {
		return
	}
	m.networkSwitch.Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
