// Package external provides adapters for external services
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

const (
	defaultOpenWeatherMapBaseURL = "https://api.openweathermap.org/data/2.5"
	defaultRequestTimeout        = 10 * time.Second

	// OpenWeatherMap reports wind in m/s under metric units
	msToKmh = 3.6
)

// HTTPClient interface for HTTP requests (for testing)
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OpenWeatherMapProviderAdapter implements WeatherProvider port for OpenWeatherMap
type OpenWeatherMapProviderAdapter struct {
	apiKey   string
	baseURL  string
	language string
	units    string
	client   HTTPClient
	logger   ports.Logger
	now      func() time.Time
}

// OpenWeatherMapProviderParams holds parameters for creating OpenWeatherMap provider
type OpenWeatherMapProviderParams struct {
	APIKey   string
	BaseURL  string
	Language string
	Units    string
	Timeout  time.Duration
	Logger   ports.Logger
	Client   HTTPClient
}

// OpenWeatherMapResponse represents the current-weather response from OpenWeatherMap
type OpenWeatherMapResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
		Pressure  float64 `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64  `json:"speed"`
		Deg   *float64 `json:"deg"`
		Gust  *float64 `json:"gust"`
	} `json:"wind"`
}

// NewOpenWeatherMapProviderAdapter creates a new OpenWeatherMap provider adapter
func NewOpenWeatherMapProviderAdapter(params OpenWeatherMapProviderParams) ports.WeatherProvider {
	baseURL := strings.TrimRight(params.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenWeatherMapBaseURL
	}

	language := params.Language
	if language == "" {
		language = "es"
	}

	units := params.Units
	if units == "" {
		units = "metric"
	}

	client := params.Client
	if client == nil {
		timeout := params.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return &OpenWeatherMapProviderAdapter{
		apiKey:   params.APIKey,
		baseURL:  baseURL,
		language: language,
		units:    units,
		client:   client,
		logger:   params.Logger,
		now:      time.Now,
	}
}

// GetCurrentWeather performs exactly one request to OpenWeatherMap for city.
// Every failure is returned as a *errors.FetchError.
func (p *OpenWeatherMapProviderAdapter) GetCurrentWeather(ctx context.Context, city string) (*ports.WeatherData, error) {
	if city == "" {
		return nil, errors.NewValidationError("city cannot be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.buildURL(city), nil)
	if err != nil {
		return nil, errors.NewFetchFailedError(city, 0, err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, errors.NewFetchFailedError(city, 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			p.logger.Warn("Failed to close OpenWeatherMap response body", ports.F("error", closeErr))
		}
	}()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewCityNotFoundError(city)
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, errors.NewAuthenticationFailedError(city)
	default:
		return nil, errors.NewFetchFailedError(city, resp.StatusCode,
			fmt.Errorf("OpenWeatherMap returned status %d", resp.StatusCode))
	}

	var apiResp OpenWeatherMapResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.NewFetchFailedError(city, resp.StatusCode,
			fmt.Errorf("failed to decode OpenWeatherMap response: %w", err))
	}

	return p.toWeatherData(city, &apiResp), nil
}

func (p *OpenWeatherMapProviderAdapter) buildURL(city string) string {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", p.apiKey)
	query.Set("units", p.units)
	query.Set("lang", p.language)
	return p.baseURL + "/weather?" + query.Encode()
}

func (p *OpenWeatherMapProviderAdapter) toWeatherData(city string, apiResp *OpenWeatherMapResponse) *ports.WeatherData {
	name := apiResp.Name
	if name == "" {
		name = city
	}

	var description, icon string
	if len(apiResp.Weather) > 0 {
		description = apiResp.Weather[0].Description
		icon = apiResp.Weather[0].Icon
	}

	data := &ports.WeatherData{
		City:         name,
		CountryCode:  apiResp.Sys.Country,
		TemperatureC: roundInt(apiResp.Main.Temp),
		FeelsLikeC:   roundInt(apiResp.Main.FeelsLike),
		Description:  description,
		HumidityPct:  roundInt(apiResp.Main.Humidity),
		WindKmh:      roundInt(apiResp.Wind.Speed * msToKmh),
		PressureHpa:  roundInt(apiResp.Main.Pressure),
		IconCode:     icon,
		Timestamp:    p.now(),
	}

	if apiResp.Wind.Deg != nil {
		deg := roundInt(*apiResp.Wind.Deg) % 360
		data.WindDirectionDeg = &deg
	}
	if apiResp.Wind.Gust != nil {
		gust := roundInt(*apiResp.Wind.Gust * msToKmh)
		data.WindGustKmh = &gust
	}

	return data
}

// roundInt rounds halves toward positive infinity, so -2.5 becomes -2
func roundInt(v float64) int {
	return int(math.Floor(v + 0.5))
}

// GetProviderName returns the name of this weather provider
func (p *OpenWeatherMapProviderAdapter) GetProviderName() string {
	return "openweathermap"
}
