package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// CartMetrics instruments the cart store and its live stream.
type CartMetrics struct {
	operations  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	subscribers prometheus.Gauge
	emissions   prometheus.Counter
	items       prometheus.Gauge
}

// NewCartMetrics registers the cart metrics on the provided registerer.
// A nil registerer yields a no-op instance.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_store_operations_total",
		Help: "Cart store operations by name and result.",
	}, []string{"op", "result"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_store_operation_duration_seconds",
		Help:    "Duration of cart store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	subscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_stream_subscribers",
		Help: "Live cart stream subscriptions.",
	})
	emissions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_stream_emissions_total",
		Help: "Cart snapshots published to subscribers.",
	})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cart_items",
		Help: "Lines currently in the cart.",
	})
	reg.MustRegister(operations, duration, subscribers, emissions, items)
	return &CartMetrics{
		operations:  operations,
		duration:    duration,
		subscribers: subscribers,
		emissions:   emissions,
		items:       items,
	}
}

// ObserveOperation records one store operation with its outcome and latency.
func (c *CartMetrics) ObserveOperation(op string, err error, elapsed time.Duration) {
	if c == nil || c.operations == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	op = normalizeLabel(op)
	c.operations.WithLabelValues(op, result).Inc()
	c.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (c *CartMetrics) SubscriberAdded() {
	if c == nil || c.subscribers == nil {
		return
	}
	c.subscribers.Inc()
}

func (c *CartMetrics) SubscriberRemoved() {
	if c == nil || c.subscribers == nil {
		return
	}
	c.subscribers.Dec()
}

// Emitted counts one published snapshot and tracks its size.
func (c *CartMetrics) Emitted(lines int) {
	if c == nil || c.emissions == nil {
		return
	}
	c.emissions.Inc()
	c.items.Set(float64(lines))
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
