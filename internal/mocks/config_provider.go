package mocks

import (
	"github.com/stretchr/testify/mock"

	"clima.app/internal/ports"
)

// ConfigProvider is a mock implementation of ports.ConfigProvider
type ConfigProvider struct {
	mock.Mock
}

func (m *ConfigProvider) GetWeatherConfig() ports.WeatherConfig {
	args := m.Called()
	return args.Get(0).(ports.WeatherConfig)
}

func (m *ConfigProvider) GetWidgetConfig() ports.WidgetConfig {
	args := m.Called()
	return args.Get(0).(ports.WidgetConfig)
}

func (m *ConfigProvider) GetServerConfig() ports.ServerConfig {
	args := m.Called()
	return args.Get(0).(ports.ServerConfig)
}

// NewConfigProvider creates a ConfigProvider mock and asserts its expectations on cleanup.
func NewConfigProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *ConfigProvider {
	m := &ConfigProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
