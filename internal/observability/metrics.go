// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ledger metrics
	TokensCreated   prometheus.Counter
	TokensListed    prometheus.Counter
	TradesSettled   *prometheus.CounterVec
	TradesRejected  *prometheus.CounterVec
	PersistDuration prometheus.Histogram

	// Gateway metrics
	ChainCallsTotal  *prometheus.CounterVec
	ChainCallLatency *prometheus.HistogramVec
	ArchiveErrors    prometheus.Counter

	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "assetra"
	}

	return &Metrics{
		TokensCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_created_total",
			Help:      "Total number of tokens created",
		}),
		TokensListed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "tokens_listed_total",
			Help:      "Total number of listing operations (re-listings included)",
		}),
		TradesSettled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_settled_total",
			Help:      "Total number of settled trades by direction",
		}, []string{"type"}),
		TradesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_rejected_total",
			Help:      "Total number of rejected trades by reason",
		}, []string{"reason"}),
		PersistDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "persist_duration_seconds",
			Help:      "Duration of whole-collection persistence writes",
			Buckets:   prometheus.DefBuckets,
		}),
		ChainCallsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "gateway_calls_total",
			Help:      "Total bond gateway calls by method and status",
		}, []string{"method", "status"}),
		ChainCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "gateway_call_duration_seconds",
			Help:      "Bond gateway call latency by method",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		ArchiveErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "archive",
			Name:      "trade_tape_errors_total",
			Help:      "Total trade tape append failures",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration by route and status",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordTokenCreated increments the tokens created counter.
func RecordTokenCreated() {
	DefaultMetrics.TokensCreated.Inc()
}

// RecordTokenListed increments the listing counter.
func RecordTokenListed() {
	DefaultMetrics.TokensListed.Inc()
}

// RecordTradeSettled increments the settled trades counter.
func RecordTradeSettled(tradeType string) {
	DefaultMetrics.TradesSettled.WithLabelValues(tradeType).Inc()
}

// RecordTradeRejected increments the rejected trades counter.
func RecordTradeRejected(reason string) {
	DefaultMetrics.TradesRejected.WithLabelValues(reason).Inc()
}

// RecordPersist records one whole-collection persistence write.
func RecordPersist(seconds float64) {
	DefaultMetrics.PersistDuration.Observe(seconds)
}

// RecordChainCall records a bond gateway call.
func RecordChainCall(method string, seconds float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.ChainCallsTotal.WithLabelValues(method, status).Inc()
	DefaultMetrics.ChainCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordArchiveError increments the trade tape failure counter.
func RecordArchiveError() {
	DefaultMetrics.ArchiveErrors.Inc()
}

// RecordRequest records an HTTP request duration.
func RecordRequest(route, status string, seconds float64) {
	DefaultMetrics.RequestDuration.WithLabelValues(route, status).Observe(seconds)
}
