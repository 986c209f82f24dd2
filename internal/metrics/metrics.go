package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes application metrics that are safe to scrape via Prometheus.
// All methods are no-ops on a nil receiver.
type Metrics struct {
	registry              *prometheus.Registry
	httpRequests          *prometheus.CounterVec
	httpRequestDuration   *prometheus.HistogramVec
	upstreamFetches       *prometheus.CounterVec
	upstreamFetchDuration *prometheus.HistogramVec
	occupancyRefreshes    *prometheus.CounterVec
	snapshotRooms         prometheus.Gauge
}

// New creates a fresh Metrics registry with HTTP, upstream and occupancy metrics registered.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomdir",
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests processed by roomdir",
	}, []string{"method", "path", "status"})

	httpRequestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roomdir",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests served by roomdir",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	upstreamFetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomdir",
		Name:      "upstream_fetches_total",
		Help:      "Count of requests made to the room backend",
	}, []string{"endpoint", "status"})

	upstreamFetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "roomdir",
		Name:      "upstream_fetch_duration_seconds",
		Help:      "Duration of requests made to the room backend",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	occupancyRefreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "roomdir",
		Name:      "occupancy_refreshes_total",
		Help:      "Count of occupancy feed refreshes by outcome",
	}, []string{"outcome"})

	snapshotRooms := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "roomdir",
		Name:      "snapshot_rooms",
		Help:      "Number of rooms in the loaded snapshot",
	})

	registry.MustRegister(
		httpRequests,
		httpRequestDuration,
		upstreamFetches,
		upstreamFetchDuration,
		occupancyRefreshes,
		snapshotRooms,
	)

	return &Metrics{
		registry:              registry,
		httpRequests:          httpRequests,
		httpRequestDuration:   httpRequestDuration,
		upstreamFetches:       upstreamFetches,
		upstreamFetchDuration: upstreamFetchDuration,
		occupancyRefreshes:    occupancyRefreshes,
		snapshotRooms:         snapshotRooms,
	}
}

// ObserveHTTPRequest records a single HTTP request/response cycle.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"path":   path,
		"status": strconv.Itoa(status),
	}
	m.httpRequests.With(labels).Inc()
	m.httpRequestDuration.With(labels).Observe(duration.Seconds())
}

// ObserveUpstreamFetch records one call to the room backend. A status of 0
// means the request never produced a response.
func (m *Metrics) ObserveUpstreamFetch(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamFetches.With(prometheus.Labels{"endpoint": endpoint, "status": strconv.Itoa(status)}).Inc()
	m.upstreamFetchDuration.With(prometheus.Labels{"endpoint": endpoint}).Observe(duration.Seconds())
}

// IncOccupancyRefresh counts one occupancy refresh with outcome "ok" or "error".
func (m *Metrics) IncOccupancyRefresh(outcome string) {
	if m == nil {
		return
	}
	m.occupancyRefreshes.With(prometheus.Labels{"outcome": outcome}).Inc()
}

// SetSnapshotRooms records the room count of the loaded snapshot.
func (m *Metrics) SetSnapshotRooms(n int) {
	if m == nil {
		return
	}
	m.snapshotRooms.Set(float64(n))
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
