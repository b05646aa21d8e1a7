package infrastructure

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"clima.app/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 9090},
		Weather: config.WeatherConfig{
			OpenWeatherMapKey:     "secret",
			OpenWeatherMapBaseURL: "http://localhost:8081/data/2.5",
			Language:              "es",
			Units:                 "metric",
			TimeoutSeconds:        3,
		},
		Widget: config.WidgetConfig{
			DefaultCity:            "Córdoba",
			RefreshIntervalMinutes: 5,
			MaxInstances:           50,
			IdleTimeoutMinutes:     20,
		},
	}
}

func TestConfigProviderAdapter(t *testing.T) {
	provider := NewConfigProviderAdapter(testConfig())

	assert.Equal(t, 9090, provider.GetServerConfig().Port)

	weather := provider.GetWeatherConfig()
	assert.Equal(t, "http://localhost:8081/data/2.5", weather.BaseURL)
	assert.Equal(t, "es", weather.Language)
	assert.Equal(t, "metric", weather.Units)
	assert.Equal(t, 3*time.Second, weather.Timeout)

	widget := provider.GetWidgetConfig()
	assert.Equal(t, "Córdoba", widget.DefaultCity)
	assert.Equal(t, 5*time.Minute, widget.RefreshInterval)
	assert.Equal(t, 50, widget.MaxInstances)
	assert.Equal(t, 20*time.Minute, widget.IdleTimeout)
	assert.Equal(t, config.Cities, widget.Cities)
}

func TestConfigProviderAdapter_CatalogIsCopied(t *testing.T) {
	provider := NewConfigProviderAdapter(testConfig())

	widget := provider.GetWidgetConfig()
	widget.Cities[0] = "Atlantis"

	assert.Equal(t, "Buenos Aires", config.Cities[0])
	assert.Equal(t, "Buenos Aires", provider.GetWidgetConfig().Cities[0])
}
