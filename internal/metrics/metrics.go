// Package metrics registers the Prometheus instruments for the scan loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	RunsTotal      *prometheus.CounterVec // labels: reason ("" -> "ok")
	SymbolsScanned prometheus.Counter
	SignalsTotal   *prometheus.CounterVec // labels: pattern
	OrdersTotal    *prometheus.CounterVec // labels: mode (dry_run|live)
	SkipsTotal     *prometheus.CounterVec // labels: reason
	RunDuration    prometheus.Histogram

	registry *prometheus.Registry
}

// New registers and returns all metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_runs_total",
			Help: "Completed scan-and-trade runs by terminal reason",
		}, []string{"reason"}),
		SymbolsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bot_symbols_scanned_total",
			Help: "Watchlist symbols evaluated across all runs",
		}),
		SignalsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_signals_total",
			Help: "Confirmed, sized breakout signals by pattern",
		}, []string{"pattern"}),
		OrdersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders submitted (or simulated in dry-run)",
		}, []string{"mode"}),
		SkipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bot_symbol_skips_total",
			Help: "Symbols skipped during scanning by reason",
		}, []string{"reason"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bot_run_duration_seconds",
			Help:    "Wall time of one scan-and-trade run",
			Buckets: prometheus.DefBuckets,
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RunsTotal,
		m.SymbolsScanned,
		m.SignalsTotal,
		m.OrdersTotal,
		m.SkipsTotal,
		m.RunDuration,
	)
	return m
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRun records a finished run under its terminal reason.
func (m *Metrics) ObserveRun(reason string, seconds float64) {
	if reason == "" {
		reason = "ok"
	}
	m.RunsTotal.WithLabelValues(reason).Inc()
	m.RunDuration.Observe(seconds)
}
