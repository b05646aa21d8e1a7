package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"

	"clima.app/pkg/errors"
	"clima.app/pkg/validation"
)

const (
	maxPortNumber          = 65535
	maxRefreshMinutes      = 1440
	maxTimeoutSeconds      = 120
	maxWidgetInstanceLimit = 100000
	maxIdleTimeoutMinutes  = 10080
)

// Cities is the fixed, ordered catalog of selectable cities.
var Cities = []string{
	"Buenos Aires",
	"Córdoba",
	"Rosario",
	"Mendoza",
	"San Juan",
	"La Rioja",
	"Jujuy",
	"Necochea",
	"Concepción",
	"Bariloche",
	"San Miguel de Tucumán",
}

// Config represents the application configuration structure
type Config struct {
	Server  ServerConfig  `split_words:"true"`
	Weather WeatherConfig `split_words:"true"`
	Widget  WidgetConfig  `split_words:"true"`
	Log     LogConfig     `split_words:"true"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

type WeatherConfig struct {
	OpenWeatherMapKey     string `envconfig:"OPENWEATHERMAP_API_KEY" required:"true"`
	OpenWeatherMapBaseURL string `envconfig:"OPENWEATHERMAP_API_BASE_URL" default:"https://api.openweathermap.org/data/2.5"`
	Language              string `envconfig:"WEATHER_LANGUAGE" default:"es"`
	Units                 string `envconfig:"WEATHER_UNITS" default:"metric"`
	TimeoutSeconds        int    `envconfig:"WEATHER_TIMEOUT_SECONDS" default:"10"`
	EnableLogging         bool   `envconfig:"WEATHER_ENABLE_LOGGING" default:"true"`
	LogFilePath           string `envconfig:"WEATHER_LOG_FILE_PATH" default:"logs/weather_provider.log"`
}

type WidgetConfig struct {
	DefaultCity            string `envconfig:"WIDGET_DEFAULT_CITY" default:"San Miguel de Tucumán"`
	RefreshIntervalMinutes int    `envconfig:"WIDGET_REFRESH_INTERVAL_MINUTES" default:"5"`
	MaxInstances           int    `envconfig:"WIDGET_MAX_INSTANCES" default:"1000"`
	IdleTimeoutMinutes     int    `envconfig:"WIDGET_IDLE_TIMEOUT_MINUTES" default:"15"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

func LoadConfig() (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.NewConfigurationError("error processing config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Weather.Validate(); err != nil {
		return err
	}
	if err := c.Widget.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return nil
}

func (s *ServerConfig) Validate() error {
	if s.Port < 1 || s.Port > maxPortNumber {
		return errors.NewConfigurationError("SERVER_PORT must be between 1 and 65535", nil)
	}
	return nil
}

func (w *WeatherConfig) Validate() error {
	if !validation.IsNotEmpty(w.OpenWeatherMapKey) {
		return errors.NewConfigurationError("OPENWEATHERMAP_API_KEY cannot be empty", nil)
	}
	if w.OpenWeatherMapBaseURL == "" {
		return errors.NewConfigurationError("OPENWEATHERMAP_API_BASE_URL cannot be empty", nil)
	}
	if !strings.HasPrefix(w.OpenWeatherMapBaseURL, "http://") && !strings.HasPrefix(w.OpenWeatherMapBaseURL, "https://") {
		return errors.NewConfigurationError("OPENWEATHERMAP_API_BASE_URL must start with http:// or https://", nil)
	}
	// Display copy and error messages are Spanish only.
	if w.Language != "es" {
		return errors.NewConfigurationError("WEATHER_LANGUAGE must be es", nil)
	}
	if w.Units != "metric" {
		return errors.NewConfigurationError("WEATHER_UNITS must be metric", nil)
	}
	if w.TimeoutSeconds < 1 || w.TimeoutSeconds > maxTimeoutSeconds {
		return errors.NewConfigurationError("WEATHER_TIMEOUT_SECONDS must be between 1 and 120 seconds", nil)
	}
	if w.EnableLogging && w.LogFilePath == "" {
		return errors.NewConfigurationError("WEATHER_LOG_FILE_PATH cannot be empty when WEATHER_ENABLE_LOGGING is set", nil)
	}
	return nil
}

func (w *WidgetConfig) Validate() error {
	if !validation.IsOneOf(w.DefaultCity, Cities) {
		return errors.NewConfigurationError(
			fmt.Sprintf("WIDGET_DEFAULT_CITY must be one of: %s", strings.Join(Cities, ", ")), nil)
	}
	if w.RefreshIntervalMinutes < 1 || w.RefreshIntervalMinutes > maxRefreshMinutes {
		return errors.NewConfigurationError("WIDGET_REFRESH_INTERVAL_MINUTES must be between 1 and 1440 minutes", nil)
	}
	if w.MaxInstances < 1 || w.MaxInstances > maxWidgetInstanceLimit {
		return errors.NewConfigurationError("WIDGET_MAX_INSTANCES must be between 1 and 100000", nil)
	}
	if w.IdleTimeoutMinutes < 1 || w.IdleTimeoutMinutes > maxIdleTimeoutMinutes {
		return errors.NewConfigurationError("WIDGET_IDLE_TIMEOUT_MINUTES must be between 1 and 10080 minutes", nil)
	}
	// An open page reloads once per refresh interval; a shorter timeout would evict it.
	if w.IdleTimeoutMinutes <= w.RefreshIntervalMinutes {
		return errors.NewConfigurationError("WIDGET_IDLE_TIMEOUT_MINUTES must be greater than WIDGET_REFRESH_INTERVAL_MINUTES", nil)
	}
	return nil
}

func (l *LogConfig) Validate() error {
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return errors.NewConfigurationError("LOG_LEVEL must be one of: debug, info, warn, error", nil)
	}
}
