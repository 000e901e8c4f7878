// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pocketbook"

// HTTPRequests counts requests by method, route template and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "requests_total",
	Help:      "Total HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

// HTTPDuration observes request latency by method and route template.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request latency in seconds.",
	Buckets:   prometheus.DefBuckets,
}, []string{"method", "route"})

// LedgerWrites counts committed income and expense rows by kind and category.
var LedgerWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "writes_total",
	Help:      "Ledger rows written, by kind (income|expense) and category.",
}, []string{"kind", "category"})

// StockMoved sums stock units removed by operation (sell|consume).
var StockMoved = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "inventory",
	Name:      "units_moved_total",
	Help:      "Stock units removed from inventory, by operation.",
}, []string{"operation"})

// DebtPayments counts applied debt payments by direction.
var DebtPayments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "debts",
	Name:      "payments_total",
	Help:      "Debt payments applied, by direction.",
}, []string{"direction"})

// Notifications counts outbound bot messages by outcome (sent|failed).
var Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "telegram",
	Name:      "notifications_total",
	Help:      "Outbound Telegram messages, by outcome.",
}, []string{"outcome"})

// ActiveWorkSessions is 1 while a work session is open.
var ActiveWorkSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: namespace,
	Subsystem: "work",
	Name:      "active_sessions",
	Help:      "Number of open work sessions.",
})

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
