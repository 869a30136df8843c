// Package metrics exposes Prometheus collectors for the coordination
// daemon. Collectors are package-level and registered once on first use, so
// recording helpers are safe to call from any component without wiring.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sia",
			Subsystem: "registry",
			Name:      "claims_total",
			Help:      "Claim calls by outcome.",
		},
		[]string{"outcome"},
	)
	releases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sia",
			Subsystem: "registry",
			Name:      "releases_total",
			Help:      "Work unit releases by trigger.",
		},
		[]string{"trigger"},
	)
	queueWait = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sia",
			Subsystem: "registry",
			Name:      "queue_wait_seconds",
			Help:      "Time agents spend queued before promotion.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		},
	)
	workUnits = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sia",
			Subsystem: "registry",
			Name:      "work_units",
			Help:      "Work units known to the registry.",
		},
	)
	agents = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "sia",
			Subsystem: "registry",
			Name:      "agents",
			Help:      "Agents currently registered.",
		},
	)
	eventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sia",
			Subsystem: "notify",
			Name:      "events_dropped_total",
			Help:      "Change events dropped because a buffer was full.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sia",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sia",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(claims, releases, queueWait, workUnits, agents, eventsDropped, httpRequests, httpDuration)
	})
}

// Handler returns the Prometheus scrape handler, registering the collectors
// on first use.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}

func RecordClaim(outcome string) {
	RegisterMetrics()
	claims.WithLabelValues(outcome).Inc()
}

func RecordRelease(trigger string) {
	RegisterMetrics()
	releases.WithLabelValues(trigger).Inc()
}

func ObserveQueueWait(d time.Duration) {
	RegisterMetrics()
	queueWait.Observe(d.Seconds())
}

func SetWorkUnits(n int) {
	RegisterMetrics()
	workUnits.Set(float64(n))
}

func SetAgents(n int) {
	RegisterMetrics()
	agents.Set(float64(n))
}

func RecordEventDropped() {
	RegisterMetrics()
	eventsDropped.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
