package infrastructure

import (
	"context"

	"clima.app/internal/ports"
)

// SystemHealthChecker aggregates all health checks
type SystemHealthChecker struct {
	weatherAPIChecker ports.HealthChecker
	widgetChecker     ports.HealthChecker
	configProvider    ports.ConfigProvider
}

// SystemHealthCheckerConfig holds the configuration for creating a system health checker
type SystemHealthCheckerConfig struct {
	WeatherAPIChecker ports.HealthChecker
	WidgetChecker     ports.HealthChecker
	ConfigProvider    ports.ConfigProvider
}

// NewSystemHealthChecker creates a new system health checker
func NewSystemHealthChecker(config SystemHealthCheckerConfig) *SystemHealthChecker {
	return &SystemHealthChecker{
		weatherAPIChecker: config.WeatherAPIChecker,
		widgetChecker:     config.WidgetChecker,
		configProvider:    config.ConfigProvider,
	}
}

// CheckAll performs health checks on all components
func (s *SystemHealthChecker) CheckAll(ctx context.Context) map[string]ports.HealthStatus {
	results := make(map[string]ports.HealthStatus)

	if s.weatherAPIChecker != nil {
		results["weatherAPI"] = s.weatherAPIChecker.Check(ctx)
	}

	if s.widgetChecker != nil {
		results["widgets"] = s.widgetChecker.Check(ctx)
	}

	if s.configProvider != nil {
		widgetConfig := s.configProvider.GetWidgetConfig()
		results["config"] = ports.HealthStatus{
			Component: "config",
			Status:    ports.HealthHealthy,
			Details: map[string]interface{}{
				"defaultCity":     widgetConfig.DefaultCity,
				"refreshInterval": widgetConfig.RefreshInterval.String(),
				"idleTimeout":     widgetConfig.IdleTimeout.String(),
				"cities":          len(widgetConfig.Cities),
			},
		}
	}

	return results
}

var healthRank = map[string]int{
	ports.HealthHealthy:   0,
	ports.HealthDegraded:  1,
	ports.HealthUnhealthy: 2,
}

// OverallStatus returns the worst status among components. Unknown values
// count as unhealthy and an empty set is healthy.
func OverallStatus(components map[string]ports.HealthStatus) string {
	overall := ports.HealthHealthy
	for _, component := range components {
		rank, ok := healthRank[component.Status]
		if !ok {
			return ports.HealthUnhealthy
		}
		if rank > healthRank[overall] {
			overall = component.Status
		}
	}
	return overall
}
