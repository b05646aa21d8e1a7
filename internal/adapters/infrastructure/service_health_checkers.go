package infrastructure

import (
	"context"

	"clima.app/internal/ports"
)

// StatsSource exposes running fetch statistics
type StatsSource interface {
	GetStats() map[string]interface{}
}

// WidgetCounter reports how many widgets are mounted
type WidgetCounter interface {
	Count() int
}

// WeatherAPIHealthChecker reports the configured weather provider and its fetch statistics.
// It never calls the provider, so health probes do not spend API quota.
type WeatherAPIHealthChecker struct {
	weatherProvider ports.WeatherProvider
	stats           StatsSource
}

// NewWeatherAPIHealthChecker creates a new weather API health checker
func NewWeatherAPIHealthChecker(weatherProvider ports.WeatherProvider, stats StatsSource) *WeatherAPIHealthChecker {
	return &WeatherAPIHealthChecker{weatherProvider: weatherProvider, stats: stats}
}

// Check verifies a weather provider is configured
func (w *WeatherAPIHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	status := ports.HealthStatus{
		Component: "weatherAPI",
		Status:    ports.HealthHealthy,
		Details:   map[string]interface{}{},
	}

	if w.weatherProvider == nil {
		status.Status = ports.HealthUnhealthy
		status.Error = "weather provider is not available"
		return status
	}

	status.Details["provider"] = w.weatherProvider.GetProviderName()
	if w.stats != nil {
		for k, v := range w.stats.GetStats() {
			status.Details[k] = v
		}
	}
	return status
}

// WidgetHealthChecker reports widget capacity
type WidgetHealthChecker struct {
	widgets      WidgetCounter
	maxInstances int
}

// NewWidgetHealthChecker creates a new widget health checker
func NewWidgetHealthChecker(widgets WidgetCounter, maxInstances int) *WidgetHealthChecker {
	return &WidgetHealthChecker{widgets: widgets, maxInstances: maxInstances}
}

// Check reports degraded once every widget slot is taken
func (w *WidgetHealthChecker) Check(ctx context.Context) ports.HealthStatus {
	if w.widgets == nil {
		return ports.HealthStatus{
			Component: "widgets",
			Status:    ports.HealthUnhealthy,
			Error:     "widget registry is not available",
		}
	}

	mounted := w.widgets.Count()
	status := ports.HealthStatus{
		Component: "widgets",
		Status:    ports.HealthHealthy,
		Details: map[string]interface{}{
			"mounted":       mounted,
			"max_instances": w.maxInstances,
		},
	}
	if w.maxInstances > 0 && mounted >= w.maxInstances {
		status.Status = ports.HealthDegraded
		status.Error = "widget limit reached"
	}
	return status
}
