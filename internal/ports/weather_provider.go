package ports

import (
	"context"
	"time"
)

// WeatherData is a current-conditions reading already converted to display units.
// WindDirectionDeg and WindGustKmh are nil when the upstream API omits them.
type WeatherData struct {
	City             string
	CountryCode      string
	TemperatureC     int
	FeelsLikeC       int
	Description      string
	HumidityPct      int
	WindKmh          int
	WindDirectionDeg *int
	WindGustKmh      *int
	PressureHpa      int
	IconCode         string
	Timestamp        time.Time
}

// WeatherProvider defines the contract for current-weather data providers.
// Implementations perform exactly one upstream request per call and never cache.
type WeatherProvider interface {
	GetCurrentWeather(ctx context.Context, city string) (*WeatherData, error)
	GetProviderName() string
}

// FetchMetrics records the outcome of weather fetches and widget lifecycle events
type FetchMetrics interface {
	RecordFetch(provider, outcome string, duration time.Duration)
	RecordStaleResult()
	WidgetMounted()
	WidgetUnmounted()
}
