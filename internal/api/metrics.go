package api

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the engine's Prometheus instrumentation, registered on
// the server's own registry and served on the /metrics path via
// promhttp.HandlerFor.
type metrics struct {
	ordersReceived  prometheus.Counter
	ordersMatched   prometheus.Counter
	ordersCancelled prometheus.Counter
	ordersRejected  prometheus.Counter
	tradesExecuted  prometheus.Counter
	matchedQty      prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		ordersReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchbook_orders_received_total",
			Help: "Orders accepted at the engine boundary.",
		}),
		ordersMatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchbook_orders_matched_total",
			Help: "Orders that crossed at least one resting order.",
		}),
		ordersCancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchbook_orders_cancelled_total",
			Help: "Cancel requests accepted (always zero: the core has no cancel-by-id API).",
		}),
		ordersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchbook_orders_rejected_total",
			Help: "Orders rejected at the engine boundary by input validation.",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matchbook_trades_executed_total",
			Help: "Individual match events emitted by the orchestrator.",
		}),
		matchedQty: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "matchbook_matched_quantity",
			Help:    "Distribution of matched quantity per trade.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	reg.MustRegister(m.ordersReceived, m.ordersMatched, m.ordersCancelled, m.ordersRejected, m.tradesExecuted, m.matchedQty)
	return m
}
