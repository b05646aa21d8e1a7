package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clima.app/internal/core/weather"
	"clima.app/internal/ports"
	"clima.app/pkg/errors"
	"clima.app/pkg/validation"
)

// getWeather handles GET /api/weather requests. It bypasses the widgets
// and performs a single fetch for any city the catalog accepts.
func (s *HTTPServerAdapter) getWeather(c *gin.Context) {
	city, ok := validation.TrimAndValidate(c.Query("city"))
	if !ok {
		s.handleError(c, errors.NewValidationError("city parameter is required"))
		return
	}
	if !validation.IsOneOf(city, s.registry.Cities()) {
		s.handleError(c, errors.NewValidationError("city \""+city+"\" is not in the catalog"))
		return
	}

	snapshot, err := s.weatherUseCase.GetWeather(c.Request.Context(), weather.WeatherRequest{City: city})
	if err != nil {
		s.logger.Debug("Weather lookup failed", ports.F("city", city), ports.F("error", err))
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewWeatherView(snapshot))
}
