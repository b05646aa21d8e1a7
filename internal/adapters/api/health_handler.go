package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clima.app/internal/adapters/infrastructure"
	"clima.app/internal/ports"
)

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status     string                        `json:"status"`
	Timestamp  time.Time                     `json:"timestamp"`
	Components map[string]ports.HealthStatus `json:"components"`
}

// getHealth handles GET /health. Any unhealthy component makes the service unavailable.
func (s *HTTPServerAdapter) getHealth(c *gin.Context) {
	components := s.healthChecker.CheckAll(c.Request.Context())
	overall := infrastructure.OverallStatus(components)

	status := http.StatusOK
	if overall == ports.HealthUnhealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:     overall,
		Timestamp:  time.Now().UTC(),
		Components: components,
	})
}
