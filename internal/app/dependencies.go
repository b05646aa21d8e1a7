package app

import (
	"fmt"
	"log/slog"

	"clima.app/internal/adapters/external"
	"clima.app/internal/adapters/infrastructure"
	"clima.app/internal/config"
	"clima.app/internal/ports"
)

type DependencyContainer struct {
	config     *config.Config
	ports      *ports.ApplicationPorts
	metrics    *infrastructure.FetchMetricsCollector
	fileLogger *infrastructure.FileLoggerAdapter
}

func NewDependencyContainer(appConfig *config.Config) (*DependencyContainer, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("configuration is required")
	}

	container := &DependencyContainer{
		config: appConfig,
	}

	if err := container.initializePorts(); err != nil {
		return nil, fmt.Errorf("initialize ports: %w", err)
	}

	return container, nil
}

func (c *DependencyContainer) initializePorts() error {
	slog.Info("Initializing ports...")

	weatherCfg := c.config.Weather
	logger := infrastructure.NewSlogLoggerAdapter(slog.Default())

	// Provider traffic goes to slog and, when enabled, to a dedicated file
	var providerLogger ports.Logger = logger
	if weatherCfg.EnableLogging {
		fileLogger, err := infrastructure.NewFileLoggerAdapter(weatherCfg.LogFilePath)
		if err != nil {
			slog.Warn("Failed to create file logger, falling back to slog", "error", err)
		} else {
			c.fileLogger = fileLogger
			providerLogger = infrastructure.NewTeeLogger(logger, fileLogger)
			slog.Info("File logging enabled", "path", fileLogger.Path())
		}
	}

	configProvider := infrastructure.NewConfigProviderAdapter(c.config)
	providerCfg := configProvider.GetWeatherConfig()

	var provider ports.WeatherProvider = external.NewOpenWeatherMapProviderAdapter(external.OpenWeatherMapProviderParams{
		APIKey:   weatherCfg.OpenWeatherMapKey,
		BaseURL:  providerCfg.BaseURL,
		Language: providerCfg.Language,
		Units:    providerCfg.Units,
		Timeout:  providerCfg.Timeout,
		Logger:   logger,
	})

	if weatherCfg.EnableLogging {
		provider = external.NewWeatherProviderLoggingDecorator(provider, providerLogger)
		slog.Info("Weather provider logging enabled")
	}

	c.metrics = infrastructure.NewFetchMetricsCollector()

	c.ports = &ports.ApplicationPorts{
		WeatherProvider: provider,
		FetchMetrics:    c.metrics,
		ConfigProvider:  configProvider,
		Logger:          logger,
	}

	slog.Info("Ports initialized successfully",
		"provider", provider.GetProviderName(),
		"timeout", providerCfg.Timeout.String())
	return nil
}

func (c *DependencyContainer) ApplicationPorts() *ports.ApplicationPorts {
	return c.ports
}

// MetricsCollector returns the Prometheus-backed fetch metrics
func (c *DependencyContainer) MetricsCollector() *infrastructure.FetchMetricsCollector {
	return c.metrics
}

// NewTestConfig returns a valid configuration pointing at baseURL with file logging off
func NewTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080},
		Weather: config.WeatherConfig{
			OpenWeatherMapKey:     "test-key",
			OpenWeatherMapBaseURL: baseURL,
			Language:              "es",
			Units:                 "metric",
			TimeoutSeconds:        2,
		},
		Widget: config.WidgetConfig{
			DefaultCity:            "San Miguel de Tucumán",
			RefreshIntervalMinutes: 5,
			MaxInstances:           10,
			IdleTimeoutMinutes:     15,
		},
		Log: config.LogConfig{Level: "info"},
	}
}

// Cleanup releases resources held by the container
func (c *DependencyContainer) Cleanup() error {
	if c.fileLogger != nil {
		return c.fileLogger.Close()
	}
	return nil
}
