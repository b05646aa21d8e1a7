package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clima.app/internal/adapters/api"
	"clima.app/internal/adapters/infrastructure"
	"clima.app/internal/config"
	"clima.app/internal/core/weather"
	"clima.app/internal/core/widget"
	"clima.app/internal/ports"
)

type Application struct {
	config *config.Config

	// Use Cases
	weatherUseCase *weather.UseCase
	widgets        *widget.Registry

	// Adapters
	httpServer *http.Server
	router     *gin.Engine

	// Infrastructure
	deps  *DependencyContainer
	ports *ports.ApplicationPorts
}

func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	deps, err := NewDependencyContainer(cfg)
	if err != nil {
		return nil, fmt.Errorf("create dependency container: %w", err)
	}

	return NewApplicationWithDependencies(cfg, deps)
}

// NewApplicationWithDependencies creates an application with provided dependencies
func NewApplicationWithDependencies(cfg *config.Config, deps *DependencyContainer) (*Application, error) {
	app := &Application{
		config: cfg,
		deps:   deps,
		ports:  deps.ApplicationPorts(),
	}

	if err := app.initializeUseCases(); err != nil {
		return nil, fmt.Errorf("initialize use cases: %w", err)
	}

	if err := app.initializeAdapters(); err != nil {
		app.widgets.Close()
		return nil, fmt.Errorf("initialize adapters: %w", err)
	}

	return app, nil
}

func (a *Application) initializeUseCases() error {
	slog.Info("Initializing use cases...")

	weatherUseCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: a.ports.WeatherProvider,
		Logger:          a.ports.Logger,
		Metrics:         a.ports.FetchMetrics,
	})
	if err != nil {
		return fmt.Errorf("create weather use case: %w", err)
	}
	a.weatherUseCase = weatherUseCase

	widgets, err := widget.NewRegistry(widget.RegistryDependencies{
		Fetcher:        a.weatherUseCase,
		Logger:         a.ports.Logger,
		Metrics:        a.ports.FetchMetrics,
		ConfigProvider: a.ports.ConfigProvider,
	})
	if err != nil {
		return fmt.Errorf("create widget registry: %w", err)
	}
	a.widgets = widgets

	slog.Info("Use cases initialized successfully")
	return nil
}

func (a *Application) initializeAdapters() error {
	slog.Info("Initializing adapters...")

	metrics := a.deps.MetricsCollector()
	widgetConfig := a.ports.ConfigProvider.GetWidgetConfig()

	weatherAPIHealthChecker := infrastructure.NewWeatherAPIHealthChecker(a.ports.WeatherProvider, metrics)
	widgetHealthChecker := infrastructure.NewWidgetHealthChecker(a.widgets, widgetConfig.MaxInstances)

	systemHealthChecker := infrastructure.NewSystemHealthChecker(infrastructure.SystemHealthCheckerConfig{
		WeatherAPIChecker: weatherAPIHealthChecker,
		WidgetChecker:     widgetHealthChecker,
		ConfigProvider:    a.ports.ConfigProvider,
	})

	httpAdapter, err := api.NewHTTPServerAdapter(api.ServerOptions{
		Config: api.ServerConfig{
			Port:            a.config.Server.Port,
			RefreshInterval: widgetConfig.RefreshInterval,
		},
		Registry:       a.widgets,
		WeatherUseCase: a.weatherUseCase,
		HealthChecker:  systemHealthChecker,
		MetricsHandler: metrics.Handler(),
		Logger:         a.ports.Logger,
	})
	if err != nil {
		return fmt.Errorf("create HTTP adapter: %w", err)
	}

	a.router = httpAdapter.GetRouter()

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("Adapters initialized successfully")
	return nil
}

// Start serves HTTP until Shutdown is called. Cancelling ctx unmounts every widget.
func (a *Application) Start(ctx context.Context) error {
	slog.Info("Starting application...")

	go func() {
		<-ctx.Done()
		a.widgets.Close()
	}()

	slog.Info("Starting HTTP server", "port", a.config.Server.Port)
	if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	return nil
}

func (a *Application) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down application...")

	// Stop accepting requests before the widgets go away
	if err := a.httpServer.Shutdown(ctx); err != nil {
		slog.Error("Error shutting down HTTP server", "error", err)
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}

	a.widgets.Close()

	if err := a.deps.Cleanup(); err != nil {
		slog.Warn("Error releasing resources", "error", err)
	}

	slog.Info("Application shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *Application) Config() *config.Config {
	return a.config
}

// GetRouter returns the Gin router for testing
func (a *Application) GetRouter() *gin.Engine {
	return a.router
}

// GetWeatherUseCase returns the weather use case for testing
func (a *Application) GetWeatherUseCase() *weather.UseCase {
	return a.weatherUseCase
}

// GetWidgetRegistry returns the widget registry for testing
func (a *Application) GetWidgetRegistry() *widget.Registry {
	return a.widgets
}
