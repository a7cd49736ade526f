package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()
	once     sync.Once

	matchLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_match_latency_seconds",
		Help:    "Latency of one match cycle, lock acquisition to book settle.",
		Buckets: prometheus.DefBuckets,
	})
	ordersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_submitted_total",
			Help: "Orders accepted by the engine, by side and resulting status.",
		},
		[]string{"side", "status"},
	)
	ordersCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_orders_cancelled_total",
			Help: "Orders cancelled, by symbol.",
		},
		[]string{"symbol"},
	)
	tradesExecuted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_trades_executed_total",
			Help: "Trades produced by the match loop, by symbol.",
		},
		[]string{"symbol"},
	)
	bookDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "engine_book_depth_levels",
			Help: "Current number of populated price levels, by symbol and side.",
		},
		[]string{"symbol", "side"},
	)
)

// Init registers the collectors exactly once
func Init() {
	once.Do(func() {
		registry.MustRegister(
			prometheus.NewGoCollector(),
			prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
			matchLatency,
			ordersSubmitted,
			ordersCancelled,
			tradesExecuted,
			bookDepth,
		)
	})
}

// Handler exposes the Prometheus scrape endpoint
func Handler() http.Handler {
	Init()
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveMatchLatency records the duration of one match cycle
func ObserveMatchLatency(d time.Duration) {
	Init()
	matchLatency.Observe(d.Seconds())
}

// IncOrdersSubmitted counts a submitted order by side and resulting status
func IncOrdersSubmitted(side, status string) {
	Init()
	ordersSubmitted.WithLabelValues(side, status).Inc()
}

// IncOrdersCancelled counts a cancellation for a symbol
func IncOrdersCancelled(symbol string) {
	Init()
	ordersCancelled.WithLabelValues(symbol).Inc()
}

// AddTradesExecuted counts trades produced for a symbol
func AddTradesExecuted(symbol string, n int) {
	Init()
	if n <= 0 {
		return
	}
	tradesExecuted.WithLabelValues(symbol).Add(float64(n))
}

// SetBookDepth records the populated level count for one side of a book
func SetBookDepth(symbol, side string, depth int) {
	Init()
	bookDepth.WithLabelValues(symbol, side).Set(float64(depth))
}
