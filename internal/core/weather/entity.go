package weather

import (
	"fmt"
	"strings"
	"time"
)

// Snapshot is an immutable point-in-time weather reading for one city.
// Values are already rounded to display units. WindDirectionDeg and WindGustKmh
// are nil when the upstream API did not report them.
type Snapshot struct {
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
	IconGlyph        string
	FetchedAt        time.Time
}

// WeatherRequest represents a request for weather information
type WeatherRequest struct {
	City string
}

// IsValid validates weather data
func (s *Snapshot) IsValid() error {
	if strings.TrimSpace(s.City) == "" {
		return fmt.Errorf("city cannot be empty")
	}
	if s.HumidityPct < 0 || s.HumidityPct > 100 {
		return fmt.Errorf("humidity must be between 0 and 100")
	}
	if s.WindKmh < 0 {
		return fmt.Errorf("wind speed cannot be negative")
	}
	if s.WindGustKmh != nil && *s.WindGustKmh < 0 {
		return fmt.Errorf("wind gust cannot be negative")
	}
	if s.WindDirectionDeg != nil && (*s.WindDirectionDeg < 0 || *s.WindDirectionDeg > 359) {
		return fmt.Errorf("wind direction must be between 0 and 359 degrees")
	}
	return nil
}

// IsValid validates weather request
func (wr *WeatherRequest) IsValid() error {
	if strings.TrimSpace(wr.City) == "" {
		return fmt.Errorf("city cannot be empty")
	}
	return nil
}

// NormalizeCity normalizes city name for consistent processing
func (wr *WeatherRequest) NormalizeCity() {
	wr.City = strings.TrimSpace(wr.City)
}

// Severity returns the temperature severity band of the snapshot
func (s *Snapshot) Severity() Severity {
	return TemperatureSeverity(s.TemperatureC)
}

// Location renders "City, CC", or just the city when the country is unknown.
func (s *Snapshot) Location() string {
	if s.CountryCode == "" {
		return s.City
	}
	return s.City + ", " + s.CountryCode
}

// String returns a string representation of the weather
func (s *Snapshot) String() string {
	return fmt.Sprintf("%s: %d°C, %d%% humidity, %s",
		s.Location(), s.TemperatureC, s.HumidityPct, s.Description)
}
