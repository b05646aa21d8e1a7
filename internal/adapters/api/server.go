// Package api provides HTTP adapters for the hexagonal architecture
// These adapters render widgets as HTML and expose them over a JSON API
package api

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clima.app/internal/core/weather"
	"clima.app/internal/core/widget"
	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Port            int
	RefreshInterval time.Duration
}

// HTTPServerAdapter implements HTTP server using Gin framework
type HTTPServerAdapter struct {
	router         *gin.Engine
	config         ServerConfig
	registry       WidgetRegistry
	weatherUseCase WeatherUseCase
	healthChecker  ports.SystemHealthChecker
	metricsHandler http.Handler
	logger         ports.Logger
}

// WidgetRegistry is the widget lifecycle the HTTP adapter depends on
type WidgetRegistry interface {
	Mount(ctx context.Context, city string) (*widget.Controller, error)
	State(id string) (widget.ViewState, error)
	SelectCity(id, city string) error
	Refresh(id string) error
	Unmount(id string) error
	Cities() []string
	DefaultCity() string
}

// WeatherUseCase serves direct weather lookups
type WeatherUseCase interface {
	GetWeather(ctx context.Context, request weather.WeatherRequest) (*weather.Snapshot, error)
}

// ServerOptions represents options for creating the HTTP server
type ServerOptions struct {
	Config         ServerConfig
	Registry       WidgetRegistry
	WeatherUseCase WeatherUseCase
	HealthChecker  ports.SystemHealthChecker
	MetricsHandler http.Handler
	Logger         ports.Logger
}

// NewHTTPServerAdapter creates a new HTTP server adapter
func NewHTTPServerAdapter(opts ServerOptions) (*HTTPServerAdapter, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server options: %w", err)
	}

	if err := registerCatalogValidation(opts.Registry.Cities()); err != nil {
		return nil, fmt.Errorf("register catalog validation: %w", err)
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	router := gin.Default()
	router.SetHTMLTemplate(templates)

	refreshInterval := opts.Config.RefreshInterval
	if refreshInterval <= 0 {
		refreshInterval = widget.DefaultRefreshInterval
	}
	opts.Config.RefreshInterval = refreshInterval

	server := &HTTPServerAdapter{
		router:         router,
		config:         opts.Config,
		registry:       opts.Registry,
		weatherUseCase: opts.WeatherUseCase,
		healthChecker:  opts.HealthChecker,
		metricsHandler: opts.MetricsHandler,
		logger:         opts.Logger,
	}

	server.setupRoutes()
	return server, nil
}

// Validate checks if all required dependencies are provided
func (opts *ServerOptions) Validate() error {
	if opts.Registry == nil {
		return errors.NewValidationError("widget registry is required")
	}
	if opts.WeatherUseCase == nil {
		return errors.NewValidationError("weather use case is required")
	}
	if opts.HealthChecker == nil {
		return errors.NewValidationError("health checker is required")
	}
	if opts.MetricsHandler == nil {
		return errors.NewValidationError("metrics handler is required")
	}
	if opts.Logger == nil {
		return errors.NewValidationError("logger is required")
	}
	return nil
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"clock": func(t time.Time) string { return t.Local().Format("15:04") },
		"deref": func(v *int) int {
			if v == nil {
				return 0
			}
			return *v
		},
	}).ParseFS(templatesFS, "templates/*.html")
}

// setupRoutes configures all HTTP routes
func (s *HTTPServerAdapter) setupRoutes() {
	s.router.GET("/", s.mountPage)
	widgets := s.router.Group("/widgets/:id")
	{
		widgets.GET("", s.widgetPage)
		widgets.POST("/city", s.selectCityForm)
		widgets.POST("/refresh", s.refreshForm)
	}

	api := s.router.Group("/api")
	{
		api.GET("/cities", s.getCities)
		api.GET("/weather", s.getWeather)
		api.POST("/widgets", s.mountWidget)
		api.GET("/widgets/:id", s.getWidget)
		api.PUT("/widgets/:id/city", s.selectCity)
		api.POST("/widgets/:id/refresh", s.refreshWidget)
		api.DELETE("/widgets/:id", s.unmountWidget)
	}

	s.router.GET("/health", s.getHealth)
	s.router.GET("/metrics", gin.WrapH(s.metricsHandler))
}

// GetRouter returns the router for testing purposes
func (s *HTTPServerAdapter) GetRouter() *gin.Engine {
	return s.router
}
