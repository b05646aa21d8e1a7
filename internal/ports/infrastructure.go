package ports

import (
	"time"
)

// WeatherConfig represents weather fetcher configuration
type WeatherConfig struct {
	BaseURL  string
	Language string
	Units    string
	Timeout  time.Duration
}

// WidgetConfig represents widget behaviour configuration
type WidgetConfig struct {
	Cities          []string
	DefaultCity     string
	RefreshInterval time.Duration
	MaxInstances    int
	// Zero means three refresh intervals
	IdleTimeout time.Duration
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Port int
}

// ConfigProvider defines the contract for configuration management
type ConfigProvider interface {
	GetWeatherConfig() WeatherConfig
	GetWidgetConfig() WidgetConfig
	GetServerConfig() ServerConfig
}

// Logger defines the contract for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a log field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
