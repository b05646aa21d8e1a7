package infrastructure

import (
	"time"

	"clima.app/internal/config"
	"clima.app/internal/ports"
)

// ConfigProviderAdapter implements the ConfigProvider port
type ConfigProviderAdapter struct {
	config *config.Config
}

// NewConfigProviderAdapter creates a new config provider adapter
func NewConfigProviderAdapter(cfg *config.Config) *ConfigProviderAdapter {
	return &ConfigProviderAdapter{
		config: cfg,
	}
}

// GetServerConfig returns server configuration
func (c *ConfigProviderAdapter) GetServerConfig() ports.ServerConfig {
	return ports.ServerConfig{
		Port: c.config.Server.Port,
	}
}

// GetWeatherConfig returns weather fetcher configuration. The API key is not exposed.
func (c *ConfigProviderAdapter) GetWeatherConfig() ports.WeatherConfig {
	return ports.WeatherConfig{
		BaseURL:  c.config.Weather.OpenWeatherMapBaseURL,
		Language: c.config.Weather.Language,
		Units:    c.config.Weather.Units,
		Timeout:  time.Duration(c.config.Weather.TimeoutSeconds) * time.Second,
	}
}

// GetWidgetConfig returns widget configuration including a copy of the city catalog
func (c *ConfigProviderAdapter) GetWidgetConfig() ports.WidgetConfig {
	cities := make([]string, len(config.Cities))
	copy(cities, config.Cities)

	return ports.WidgetConfig{
		Cities:          cities,
		DefaultCity:     c.config.Widget.DefaultCity,
		RefreshInterval: time.Duration(c.config.Widget.RefreshIntervalMinutes) * time.Minute,
		MaxInstances:    c.config.Widget.MaxInstances,
		IdleTimeout:     time.Duration(c.config.Widget.IdleTimeoutMinutes) * time.Minute,
	}
}
