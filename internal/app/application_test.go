package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clima.app/internal/adapters/api"
	"clima.app/internal/config"
	"clima.app/internal/mockserver"
)

type testApp struct {
	app  *Application
	mock *mockserver.Server
}

func newTestApp(t *testing.T, mutate func(cfg *config.Config)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := mockserver.New("test-key")
	upstream := httptest.NewServer(mock.Router())
	t.Cleanup(upstream.Close)

	cfg := NewTestConfig(upstream.URL)
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	deps, err := NewDependencyContainer(cfg)
	require.NoError(t, err)

	application, err := NewApplicationWithDependencies(cfg, deps)
	require.NoError(t, err)
	t.Cleanup(func() {
		application.GetWidgetRegistry().Close()
		_ = deps.Cleanup()
	})

	return &testApp{app: application, mock: mock}
}

func (a *testApp) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.app.GetRouter().ServeHTTP(w, req)
	return w
}

func (a *testApp) waitFor(t *testing.T, id string, cond func(api.WidgetView) bool) api.WidgetView {
	t.Helper()
	var view api.WidgetView
	require.Eventually(t, func() bool {
		w := a.do(http.MethodGet, "/api/widgets/"+id, "")
		if w.Code != http.StatusOK {
			return false
		}
		view = api.WidgetView{}
		return json.Unmarshal(w.Body.Bytes(), &view) == nil && cond(view)
	}, 3*time.Second, 10*time.Millisecond)
	return view
}

func TestNewDependencyContainer_RequiresConfig(t *testing.T) {
	_, err := NewDependencyContainer(nil)
	assert.Error(t, err)
}

func TestApplication_WidgetLifecycle(t *testing.T) {
	a := newTestApp(t, nil)

	w := a.do(http.MethodPost, "/api/widgets", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view api.WidgetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "San Miguel de Tucumán", view.SelectedCity)
	assert.Len(t, view.Cities, len(config.Cities))

	view = a.waitFor(t, view.ID, func(v api.WidgetView) bool { return v.Phase == "success" })
	require.NotNil(t, view.Weather)
	assert.Equal(t, "San Miguel de Tucumán, AR", view.Weather.Location)
	assert.Equal(t, 27, view.Weather.TemperatureC)
	assert.Equal(t, 29, view.Weather.FeelsLikeC)
	assert.Equal(t, 10, view.Weather.WindKmh)
	assert.Equal(t, "S", view.Weather.WindDirection)
	assert.Equal(t, "⛅", view.Weather.IconGlyph)
	assert.Equal(t, "warm", view.Weather.Severity)

	w = a.do(http.MethodPut, "/api/widgets/"+view.ID+"/city", `{"city":"Bariloche"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	view = a.waitFor(t, view.ID, func(v api.WidgetView) bool {
		return v.Phase == "success" && v.Weather.City == "San Carlos de Bariloche"
	})
	assert.Equal(t, "Bariloche", view.SelectedCity)
	assert.Equal(t, -2, view.Weather.TemperatureC)
	assert.Equal(t, "primary", view.Weather.BadgeVariant)
	require.NotNil(t, view.Weather.WindGustKmh)
	assert.Equal(t, 50, *view.Weather.WindGustKmh)

	w = a.do(http.MethodDelete, "/api/widgets/"+view.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, a.app.GetWidgetRegistry().Count())
}

func TestApplication_AuthenticationFailure(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Weather.OpenWeatherMapKey = "wrong-key"
	})

	w := a.do(http.MethodPost, "/api/widgets", `{"city":"Mendoza"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var view api.WidgetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))

	view = a.waitFor(t, view.ID, func(v api.WidgetView) bool { return v.Phase == "failed" })
	assert.Equal(t, "Error de autenticación. Verifica la configuración.", view.ErrorMessage)
	assert.Nil(t, view.Weather)

	w = a.do(http.MethodGet, "/api/weather?city=Mendoza", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestApplication_DirectWeatherLookup(t *testing.T) {
	a := newTestApp(t, nil)

	w := a.do(http.MethodGet, "/api/weather?city=C%C3%B3rdoba", "")
	require.Equal(t, http.StatusOK, w.Code)

	var view api.WeatherView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Córdoba", view.City)
	assert.Equal(t, 27, view.TemperatureC)
	assert.Equal(t, int64(1), a.mock.Requests())
}

func TestApplication_HealthAndMetrics(t *testing.T) {
	a := newTestApp(t, nil)

	w := a.do(http.MethodGet, "/api/weather?city=Mendoza", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var health api.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health.Status)
	assert.Contains(t, health.Components, "weatherAPI")
	assert.Contains(t, health.Components, "widgets")
	assert.Contains(t, health.Components, "config")
	// health probes never reach the upstream API
	assert.Equal(t, int64(1), a.mock.Requests())

	w = a.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `clima_weather_fetch_total{outcome="success",provider="openweathermap"} 1`)
}

func TestApplication_FileLogging(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "weather_provider.log")
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Weather.EnableLogging = true
		cfg.Weather.LogFilePath = logPath
	})

	w := a.do(http.MethodGet, "/api/weather?city=Jujuy", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.FileExists(t, logPath)
}

func TestApplication_Shutdown(t *testing.T) {
	a := newTestApp(t, func(cfg *config.Config) {
		cfg.Server.Port = 18089
	})

	errCh := make(chan error, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { errCh <- a.app.Start(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://127.0.0.1:18089/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	_, err := a.app.GetWidgetRegistry().Mount(context.Background(), "")
	require.NoError(t, err)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	require.NoError(t, a.app.Shutdown(shutdownCtx))
	assert.NoError(t, <-errCh)
	assert.Equal(t, 0, a.app.GetWidgetRegistry().Count())
}
