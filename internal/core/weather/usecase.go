package weather

import (
	"context"
	"fmt"
	"time"

	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

// Fetch outcome labels reported to metrics
const (
	OutcomeSuccess      = "success"
	OutcomeCityNotFound = "city_not_found"
	OutcomeAuthFailed   = "auth_failed"
	OutcomeFailed       = "failed"
)

type UseCase struct {
	weatherProvider ports.WeatherProvider
	logger          ports.Logger
	metrics         ports.FetchMetrics
	now             func() time.Time
}

type UseCaseDependencies struct {
	WeatherProvider ports.WeatherProvider
	Logger          ports.Logger
	Metrics         ports.FetchMetrics
}

func NewUseCase(deps UseCaseDependencies) (*UseCase, error) {
	if deps.WeatherProvider == nil {
		return nil, errors.NewValidationError("weather provider is required")
	}
	if deps.Logger == nil {
		return nil, errors.NewValidationError("logger is required")
	}
	if deps.Metrics == nil {
		return nil, errors.NewValidationError("metrics is required")
	}

	return &UseCase{
		weatherProvider: deps.WeatherProvider,
		logger:          deps.Logger,
		metrics:         deps.Metrics,
		now:             time.Now,
	}, nil
}

// GetWeather performs exactly one provider call for the requested city.
// Provider errors keep their FetchError classification.
func (uc *UseCase) GetWeather(ctx context.Context, request WeatherRequest) (*Snapshot, error) {
	if err := request.IsValid(); err != nil {
		return nil, errors.NewValidationError("invalid weather request: " + err.Error())
	}

	request.NormalizeCity()
	city := request.City
	uc.logger.Debug("Getting weather for city", ports.F("city", city))

	start := uc.now()
	data, err := uc.weatherProvider.GetCurrentWeather(ctx, city)
	uc.metrics.RecordFetch(uc.weatherProvider.GetProviderName(), outcomeOf(err), uc.now().Sub(start))
	if err != nil {
		uc.logger.Warn("Failed to get weather",
			ports.F("city", city),
			ports.F("error", err))
		return nil, fmt.Errorf("get weather for city %s: %w", city, err)
	}

	snapshot := uc.convertFromPortsWeather(data)
	if err := snapshot.IsValid(); err != nil {
		uc.logger.Warn("Provider returned invalid weather data",
			ports.F("city", city),
			ports.F("error", err))
		return nil, errors.NewFetchFailedError(city, 0, fmt.Errorf("invalid weather data from provider: %w", err))
	}

	uc.logger.Debug("Weather retrieved successfully",
		ports.F("city", city),
		ports.F("temperature", snapshot.TemperatureC))
	return snapshot, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.IsCityNotFound(err):
		return OutcomeCityNotFound
	case errors.IsAuthenticationFailed(err):
		return OutcomeAuthFailed
	default:
		return OutcomeFailed
	}
}

func (uc *UseCase) convertFromPortsWeather(data *ports.WeatherData) *Snapshot {
	fetchedAt := data.Timestamp
	if fetchedAt.IsZero() {
		fetchedAt = uc.now()
	}

	return &Snapshot{
		City:             data.City,
		CountryCode:      data.CountryCode,
		TemperatureC:     data.TemperatureC,
		FeelsLikeC:       data.FeelsLikeC,
		Description:      data.Description,
		HumidityPct:      data.HumidityPct,
		WindKmh:          data.WindKmh,
		WindDirectionDeg: copyInt(data.WindDirectionDeg),
		WindGustKmh:      copyInt(data.WindGustKmh),
		PressureHpa:      data.PressureHpa,
		IconCode:         data.IconCode,
		IconGlyph:        IconGlyph(data.IconCode),
		FetchedAt:        fetchedAt,
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// ProviderName returns the name of the configured weather provider
func (uc *UseCase) ProviderName() string {
	return uc.weatherProvider.GetProviderName()
}
