package infrastructure

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FetchMetricsCollector implements ports.FetchMetrics on a private Prometheus registry
// and keeps running totals for the health endpoint.
type FetchMetricsCollector struct {
	registry *prometheus.Registry

	fetches      *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	staleResults prometheus.Counter
	mountedGauge prometheus.Gauge

	mu        sync.RWMutex
	outcomes  map[string]int64
	stale     int64
	mounted   int64
	lastFetch time.Time
}

// NewFetchMetricsCollector creates a collector with Go runtime and process collectors registered
func NewFetchMetricsCollector() *FetchMetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &FetchMetricsCollector{
		registry: registry,
		fetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clima_weather_fetch_total",
				Help: "The total number of weather fetches by outcome",
			},
			[]string{"provider", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "clima_weather_fetch_duration_seconds",
				Help:    "Weather fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		staleResults: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "clima_weather_stale_results_total",
				Help: "The total number of fetch results dropped because a newer fetch superseded them",
			},
		),
		mountedGauge: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "clima_widgets_mounted",
				Help: "The number of currently mounted widgets",
			},
		),
		outcomes: make(map[string]int64),
	}
}

func (m *FetchMetricsCollector) RecordFetch(provider, outcome string, duration time.Duration) {
	m.fetches.WithLabelValues(provider, outcome).Inc()
	m.latency.WithLabelValues(provider).Observe(duration.Seconds())

	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
	m.lastFetch = time.Now()
}

func (m *FetchMetricsCollector) RecordStaleResult() {
	m.staleResults.Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.stale++
}

func (m *FetchMetricsCollector) WidgetMounted() {
	m.mountedGauge.Inc()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted++
}

func (m *FetchMetricsCollector) WidgetUnmounted() {
	m.mountedGauge.Dec()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounted--
}

// Handler serves the registry in the Prometheus exposition format
func (m *FetchMetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and additional collectors
func (m *FetchMetricsCollector) Registry() *prometheus.Registry {
	return m.registry
}

// GetStats returns a snapshot of the running totals
func (m *FetchMetricsCollector) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	outcomes := make(map[string]int64, len(m.outcomes))
	var total int64
	for outcome, count := range m.outcomes {
		outcomes[outcome] = count
		total += count
	}

	stats := map[string]interface{}{
		"fetches_total":   total,
		"fetch_outcomes":  outcomes,
		"stale_results":   m.stale,
		"widgets_mounted": m.mounted,
	}
	if !m.lastFetch.IsZero() {
		stats["last_fetch"] = m.lastFetch.Format(time.RFC3339)
	}
	return stats
}
