// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the order pricing collectors.
type Metrics struct {
	OrdersCreated *prometheus.CounterVec
	OrderReplays  prometheus.Counter
	Quotes        *prometheus.CounterVec
	GrandTotal    prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fzokart",
			Name:      "orders_created_total",
			Help:      "Orders persisted with a frozen summary.",
		}, []string{"payment_method"}),
		OrderReplays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fzokart",
			Name:      "order_replays_total",
			Help:      "Checkout requests answered from an existing idempotency key.",
		}),
		Quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fzokart",
			Name:      "pricing_quotes_total",
			Help:      "Pricing engine invocations by kind.",
		}, []string{"kind"}),
		GrandTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fzokart",
			Name:      "order_grand_total_rupees",
			Help:      "Grand total of created orders.",
			Buckets:   []float64{100, 250, 499, 1000, 2500, 5000, 10000, 25000, 50000},
		}),
	}

	if reg != nil {
		reg.MustRegister(m.OrdersCreated, m.OrderReplays, m.Quotes, m.GrandTotal)
	}
	return m
}

// Nop returns unregistered collectors, for tests and tools.
func Nop() *Metrics {
	return New(nil)
}
