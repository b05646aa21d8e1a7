package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"clima.app/internal/mockserver"
	"clima.app/pkg/logger"
)

type mockConfig struct {
	Port   int    `envconfig:"MOCK_OWM_PORT" default:"8081"`
	APIKey string `envconfig:"OPENWEATHERMAP_API_KEY"`
}

func main() {
	_ = godotenv.Load()

	logger.New().WithField("service", "mock-openweathermap").SetDefault()

	var cfg mockConfig
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Error("Failed to load mock configuration", "error", err)
		os.Exit(1)
	}

	gin.SetMode(gin.ReleaseMode)
	router := mockserver.New(cfg.APIKey).Router()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Mock OpenWeatherMap server starting", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
