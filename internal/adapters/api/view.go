package api

import (
	"fmt"
	"time"

	"clima.app/internal/core/weather"
	"clima.app/internal/core/widget"
)

// Page reload delay while a fetch is in flight
const loadingReloadSeconds = 1

// WeatherView is the presentation form of a weather snapshot
type WeatherView struct {
	City             string    `json:"city"`
	CountryCode      string    `json:"countryCode,omitempty"`
	Location         string    `json:"location"`
	TemperatureC     int       `json:"temperatureC"`
	FeelsLikeC       int       `json:"feelsLikeC"`
	Severity         string    `json:"severity"`
	BadgeVariant     string    `json:"badgeVariant"`
	Description      string    `json:"description"`
	HumidityPct      int       `json:"humidityPct"`
	WindKmh          int       `json:"windKmh"`
	WindDirectionDeg *int      `json:"windDirectionDeg,omitempty"`
	WindDirection    string    `json:"windDirection,omitempty"`
	WindGustKmh      *int      `json:"windGustKmh,omitempty"`
	PressureHpa      int       `json:"pressureHpa"`
	IconCode         string    `json:"iconCode"`
	IconGlyph        string    `json:"iconGlyph"`
	FetchedAt        time.Time `json:"fetchedAt"`
}

// WidgetView is everything the widget page and the JSON API render.
// Exactly one of ShowLoading, ShowError and ShowWeather is set for a non-idle widget.
type WidgetView struct {
	ID           string       `json:"id"`
	Phase        string       `json:"phase"`
	SelectedCity string       `json:"selectedCity"`
	Cities       []string     `json:"cities"`
	IsLoading    bool         `json:"isLoading"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	Weather      *WeatherView `json:"weather,omitempty"`
	// Stale is set when Weather is shown below the spinner or the error
	Stale         bool   `json:"stale"`
	RefreshNotice string `json:"refreshNotice"`

	ShowLoading   bool `json:"-"`
	ShowError     bool `json:"-"`
	ShowWeather   bool `json:"-"`
	ReloadSeconds int  `json:"-"`
}

// NewWeatherView converts a snapshot for display. A nil snapshot yields nil.
func NewWeatherView(snapshot *weather.Snapshot) *WeatherView {
	if snapshot == nil {
		return nil
	}

	severity := snapshot.Severity()
	view := &WeatherView{
		City:             snapshot.City,
		CountryCode:      snapshot.CountryCode,
		Location:         snapshot.Location(),
		TemperatureC:     snapshot.TemperatureC,
		FeelsLikeC:       snapshot.FeelsLikeC,
		Severity:         severity.String(),
		BadgeVariant:     severity.BadgeVariant(),
		Description:      snapshot.Description,
		HumidityPct:      snapshot.HumidityPct,
		WindKmh:          snapshot.WindKmh,
		WindDirectionDeg: snapshot.WindDirectionDeg,
		WindGustKmh:      snapshot.WindGustKmh,
		PressureHpa:      snapshot.PressureHpa,
		IconCode:         snapshot.IconCode,
		IconGlyph:        snapshot.IconGlyph,
		FetchedAt:        snapshot.FetchedAt,
	}
	if snapshot.WindDirectionDeg != nil {
		view.WindDirection = weather.CompassPoint(*snapshot.WindDirectionDeg)
	}
	return view
}

// NewWidgetView derives the rendered regions from a widget state
func NewWidgetView(id string, state widget.ViewState, cities []string, refreshInterval time.Duration) WidgetView {
	phase := state.Phase()

	view := WidgetView{
		ID:            id,
		Phase:         phase.String(),
		SelectedCity:  state.SelectedCity,
		Cities:        cities,
		IsLoading:     state.IsLoading,
		ErrorMessage:  state.ErrorMessage,
		Weather:       NewWeatherView(state.Snapshot),
		RefreshNotice: refreshNotice(refreshInterval),
		ShowLoading:   phase == widget.PhaseLoading,
		ShowError:     phase == widget.PhaseFailed,
		ShowWeather:   phase == widget.PhaseSuccess,
		ReloadSeconds: int(refreshInterval / time.Second),
	}
	view.Stale = view.Weather != nil && !view.ShowWeather
	if view.ShowLoading {
		view.ReloadSeconds = loadingReloadSeconds
	}
	return view
}

func refreshNotice(interval time.Duration) string {
	minutes := int(interval.Round(time.Minute) / time.Minute)
	if minutes <= 1 {
		return "Se actualiza cada minuto"
	}
	return fmt.Sprintf("Se actualiza cada %d minutos", minutes)
}
