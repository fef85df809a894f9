// Package metrics exposes Prometheus instrumentation for the ledger service
// and its HTTP surface.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TransactionsAdded counts successfully recorded gift events.
	TransactionsAdded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "giftledger_transactions_added_total",
		Help: "Number of transactions recorded.",
	})

	// TransactionUpdates counts edit attempts by outcome
	// (ok, not_found, invalid).
	TransactionUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftledger_transaction_updates_total",
		Help: "Number of transaction edit attempts by outcome.",
	}, []string{"outcome"})

	// SnapshotSaveSeconds observes how long persisting the full snapshot takes.
	SnapshotSaveSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "giftledger_snapshot_save_seconds",
		Help:    "Duration of snapshot persistence.",
		Buckets: prometheus.DefBuckets,
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftledger_http_requests_total",
		Help: "HTTP requests by method and status code.",
	}, []string{"method", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftledger_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

// Handler returns the /metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Instrument wraps next with request counting and latency observation.
func Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerDuration(httpDuration,
		promhttp.InstrumentHandlerCounter(httpRequests, next))
}
