package external

import (
	"context"
	"time"

	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

// WeatherProviderLoggingDecorator decorates weather providers with structured logging
type WeatherProviderLoggingDecorator struct {
	provider ports.WeatherProvider
	logger   ports.Logger
}

// NewWeatherProviderLoggingDecorator creates a new logging decorator for weather providers
func NewWeatherProviderLoggingDecorator(provider ports.WeatherProvider, logger ports.Logger) ports.WeatherProvider {
	return &WeatherProviderLoggingDecorator{
		provider: provider,
		logger:   logger,
	}
}

// GetCurrentWeather wraps the provider call with request, response and error events
func (d *WeatherProviderLoggingDecorator) GetCurrentWeather(ctx context.Context, city string) (*ports.WeatherData, error) {
	providerName := d.provider.GetProviderName()

	d.logger.Info("Weather API request started",
		ports.F("provider", providerName),
		ports.F("city", city),
		ports.F("event", "request"))

	startTime := time.Now()
	weatherData, err := d.provider.GetCurrentWeather(ctx, city)
	duration := time.Since(startTime)

	if err != nil {
		fields := []ports.Field{
			ports.F("provider", providerName),
			ports.F("city", city),
			ports.F("event", "error"),
			ports.F("duration_ms", duration.Milliseconds()),
			ports.F("error", err.Error()),
		}
		if fetchErr, ok := errors.AsFetchError(err); ok {
			fields = append(fields, ports.F("error_kind", fetchErr.Kind.String()))
		}

		// an unknown city is a user mistake, not a provider fault
		if errors.IsCityNotFound(err) {
			d.logger.Warn("Weather API request failed", fields...)
		} else {
			d.logger.Error("Weather API request failed", fields...)
		}
		return nil, err
	}

	d.logger.Info("Weather API request completed",
		ports.F("provider", providerName),
		ports.F("city", city),
		ports.F("event", "response"),
		ports.F("duration_ms", duration.Milliseconds()),
		ports.F("temperature_c", weatherData.TemperatureC),
		ports.F("humidity_pct", weatherData.HumidityPct),
		ports.F("wind_kmh", weatherData.WindKmh),
		ports.F("icon", weatherData.IconCode),
		ports.F("description", weatherData.Description))

	return weatherData, nil
}

// GetProviderName returns the name of the wrapped provider so metric labels stay stable
func (d *WeatherProviderLoggingDecorator) GetProviderName() string {
	return d.provider.GetProviderName()
}
