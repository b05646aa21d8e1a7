// Package ports defines the interfaces for external dependencies in our hexagonal architecture.
// These interfaces are implemented by adapters and replaced with testify mocks in tests.
package ports

// ApplicationPorts aggregates all ports for dependency injection
type ApplicationPorts struct {
	// Weather
	WeatherProvider WeatherProvider
	FetchMetrics    FetchMetrics

	// Infrastructure
	ConfigProvider ConfigProvider
	Logger         Logger
}
