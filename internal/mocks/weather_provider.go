package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clima.app/internal/ports"
)

// WeatherProvider is a mock implementation of ports.WeatherProvider
type WeatherProvider struct {
	mock.Mock
}

func (m *WeatherProvider) GetCurrentWeather(ctx context.Context, city string) (*ports.WeatherData, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.WeatherData), args.Error(1)
}

func (m *WeatherProvider) GetProviderName() string {
	args := m.Called()
	return args.String(0)
}

// NewWeatherProvider creates a WeatherProvider mock and asserts its expectations on cleanup.
func NewWeatherProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *WeatherProvider {
	m := &WeatherProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
