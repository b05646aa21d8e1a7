package infrastructure

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMetricsCollector_RecordFetch(t *testing.T) {
	m := NewFetchMetricsCollector()

	m.RecordFetch("openweathermap", "success", 120*time.Millisecond)
	m.RecordFetch("openweathermap", "success", 80*time.Millisecond)
	m.RecordFetch("openweathermap", "city_not_found", 50*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetches.WithLabelValues("openweathermap", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("openweathermap", "city_not_found")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats["fetches_total"])
	assert.Equal(t, map[string]int64{"success": 2, "city_not_found": 1}, stats["fetch_outcomes"])
	assert.Contains(t, stats, "last_fetch")
}

func TestFetchMetricsCollector_WidgetsAndStaleResults(t *testing.T) {
	m := NewFetchMetricsCollector()

	m.WidgetMounted()
	m.WidgetMounted()
	m.WidgetUnmounted()
	m.RecordStaleResult()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.mountedGauge))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.staleResults))

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["widgets_mounted"])
	assert.Equal(t, int64(1), stats["stale_results"])
	assert.NotContains(t, stats, "last_fetch")
}

func TestFetchMetricsCollector_IndependentRegistries(t *testing.T) {
	first := NewFetchMetricsCollector()
	second := NewFetchMetricsCollector()

	first.WidgetMounted()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.mountedGauge))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.mountedGauge))
}

func TestFetchMetricsCollector_Handler(t *testing.T) {
	m := NewFetchMetricsCollector()
	m.RecordFetch("openweathermap", "success", time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `clima_weather_fetch_total{outcome="success",provider="openweathermap"} 1`))
	assert.Contains(t, body, "clima_weather_fetch_duration_seconds_bucket")
	assert.Contains(t, body, "clima_widgets_mounted 0")
	assert.Contains(t, body, "go_goroutines")
}
