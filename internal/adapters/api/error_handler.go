package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clima.app/internal/core/widget"
	"clima.app/internal/ports"
	errorspkg "clima.app/pkg/errors"
)

// ErrorResponse represents an error message structure for API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error onto an HTTP status and the message safe to show.
// Weather fetch failures carry the same message the widget displays.
func statusFor(err error) (int, string) {
	if _, ok := errorspkg.AsFetchError(err); ok {
		message := widget.MessageFor(err)
		switch errorspkg.TypeOf(err) {
		case errorspkg.NotFoundError:
			return http.StatusNotFound, message
		case errorspkg.AuthenticationError:
			return http.StatusBadGateway, message
		default:
			return http.StatusServiceUnavailable, message
		}
	}

	var message string
	var appErr *errorspkg.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	switch errorspkg.TypeOf(err) {
	case errorspkg.ValidationError:
		return http.StatusBadRequest, message
	case errorspkg.NotFoundError:
		return http.StatusNotFound, message
	case errorspkg.AuthenticationError:
		return http.StatusBadGateway, "Weather service authentication failed"
	case errorspkg.ExternalAPIError:
		return http.StatusServiceUnavailable, "External service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// handleError handles different types of application errors
func (s *HTTPServerAdapter) handleError(c *gin.Context, err error) {
	statusCode, message := statusFor(err)
	if statusCode >= http.StatusInternalServerError {
		s.logger.Error("Request failed",
			ports.F("path", c.FullPath()),
			ports.F("status", statusCode),
			ports.F("error", err))
	}
	c.JSON(statusCode, ErrorResponse{Error: message})
}
