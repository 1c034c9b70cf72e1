package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var StoreCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobtracker",
	Subsystem: "store",
	Name:      "calls_total",
	Help:      "Count of document store calls made by the application adapter",
}, []string{"op", "status"})

var StoreCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "jobtracker",
	Subsystem: "store",
	Name:      "call_duration_seconds",
	Help:      "Duration of document store calls made by the application adapter",
	Buckets:   prometheus.DefBuckets,
}, []string{"op", "status"})

var TableRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobtracker",
	Subsystem: "table",
	Name:      "refreshes_total",
	Help:      "Count of table snapshot refreshes",
}, []string{"status"})

var ValidationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "jobtracker",
	Subsystem: "validation",
	Name:      "failures_total",
	Help:      "Count of rejected form submissions",
}, []string{"flow"})

var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "jobtracker",
	Subsystem: "session",
	Name:      "active",
	Help:      "Number of dashboards currently held in memory",
})

// ObserveStoreCall records one store call started at start.
func ObserveStoreCall(op string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	StoreCallsTotal.WithLabelValues(op, status).Inc()
	StoreCallDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
}
