package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clima.app/internal/core/weather"
	"clima.app/internal/core/widget"
	"clima.app/internal/mocks"
	"clima.app/internal/ports"
	"clima.app/pkg/errors"
)

const eventuallyTimeout = 2 * time.Second

// stubFetcher answers widget fetches immediately. Cities listed in failures fail.
type stubFetcher struct {
	mu       sync.Mutex
	failures map[string]error
}

func (f *stubFetcher) fail(city string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[city] = err
}

func (f *stubFetcher) GetWeather(_ context.Context, request weather.WeatherRequest) (*weather.Snapshot, error) {
	f.mu.Lock()
	err := f.failures[request.City]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return testSnapshot(request.City, 22), nil
}

type stubHealthChecker map[string]ports.HealthStatus

func (s stubHealthChecker) CheckAll(context.Context) map[string]ports.HealthStatus {
	return s
}

type serverFixture struct {
	router   *gin.Engine
	fetcher  *stubFetcher
	provider *mocks.WeatherProvider
	health   stubHealthChecker
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := mocks.NewPermissiveLogger(t)
	metrics := mocks.NewPermissiveFetchMetrics(t)

	configProvider := mocks.NewConfigProvider(t)
	configProvider.On("GetWidgetConfig").Return(ports.WidgetConfig{
		Cities:          testCities,
		DefaultCity:     "Mendoza",
		RefreshInterval: time.Hour,
		MaxInstances:    5,
	}).Once()

	fetcher := &stubFetcher{failures: make(map[string]error)}
	registry, err := widget.NewRegistry(widget.RegistryDependencies{
		Fetcher:        fetcher,
		Logger:         logger,
		Metrics:        metrics,
		ConfigProvider: configProvider,
	})
	require.NoError(t, err)
	t.Cleanup(registry.Close)

	provider := mocks.NewWeatherProvider(t)
	provider.On("GetProviderName").Return("test").Maybe()
	useCase, err := weather.NewUseCase(weather.UseCaseDependencies{
		WeatherProvider: provider,
		Logger:          logger,
		Metrics:         metrics,
	})
	require.NoError(t, err)

	health := stubHealthChecker{
		"weatherAPI": {Component: "weatherAPI", Status: "healthy"},
	}

	server, err := NewHTTPServerAdapter(ServerOptions{
		Config:         ServerConfig{Port: 8080, RefreshInterval: 5 * time.Minute},
		Registry:       registry,
		WeatherUseCase: useCase,
		HealthChecker:  health,
		MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("clima_widgets_mounted 1\n"))
		}),
		Logger: logger,
	})
	require.NoError(t, err)

	return &serverFixture{router: server.GetRouter(), fetcher: fetcher, provider: provider, health: health}
}

func (f *serverFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *serverFixture) mount(t *testing.T, body string) WidgetView {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/widgets", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view WidgetView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view
}

func (f *serverFixture) waitForPhase(t *testing.T, id, phase string) WidgetView {
	t.Helper()
	return f.waitFor(t, id, func(v WidgetView) bool { return v.Phase == phase })
}

func (f *serverFixture) waitFor(t *testing.T, id string, cond func(WidgetView) bool) WidgetView {
	t.Helper()
	var view WidgetView
	require.Eventually(t, func() bool {
		w := f.do(t, http.MethodGet, "/api/widgets/"+id, "")
		if w.Code != http.StatusOK {
			return false
		}
		view = WidgetView{}
		if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
			return false
		}
		return cond(view)
	}, eventuallyTimeout, 5*time.Millisecond)
	return view
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error
}

func TestServerOptions_Validate(t *testing.T) {
	opts := ServerOptions{}
	err := opts.Validate()
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "widget registry is required")
}

func TestServer_GetCities(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/api/cities", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body CitiesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, testCities, body.Cities)
	assert.Equal(t, "Mendoza", body.Default)
}

func TestServer_MountWidget_DefaultCity(t *testing.T) {
	f := newServerFixture(t)

	view := f.mount(t, "")
	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Mendoza", view.SelectedCity)

	view = f.waitForPhase(t, view.ID, "success")
	require.NotNil(t, view.Weather)
	assert.Equal(t, "Mendoza, AR", view.Weather.Location)
	assert.Equal(t, 22, view.Weather.TemperatureC)
	assert.Equal(t, "Se actualiza cada 5 minutos", view.RefreshNotice)
	assert.False(t, view.Stale)
}

func TestServer_MountWidget_WithCity(t *testing.T) {
	f := newServerFixture(t)

	view := f.mount(t, `{"city":"Córdoba"}`)
	assert.Equal(t, "Córdoba", view.SelectedCity)
}

func TestServer_MountWidget_Invalid(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodPost, "/api/widgets", `{"city":"Atlantis"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w), `city "Atlantis" is not in the catalog`)

	w = f.do(t, http.MethodPost, "/api/widgets", `{"city":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_SelectCity(t *testing.T) {
	f := newServerFixture(t)
	id := f.mount(t, "").ID
	f.waitForPhase(t, id, "success")

	w := f.do(t, http.MethodPut, "/api/widgets/"+id+"/city", `{"city":"Salta"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	view := f.waitFor(t, id, func(v WidgetView) bool {
		return v.Phase == "success" && v.Weather.City == "Salta"
	})
	assert.Equal(t, "Salta", view.SelectedCity)
}

func TestServer_SelectCity_Errors(t *testing.T) {
	f := newServerFixture(t)
	id := f.mount(t, "").ID

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"OutsideCatalog", "/api/widgets/" + id + "/city", `{"city":"Atlantis"}`, http.StatusBadRequest},
		{"MissingCity", "/api/widgets/" + id + "/city", `{}`, http.StatusBadRequest},
		{"UnknownWidget", "/api/widgets/missing/city", `{"city":"Salta"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestServer_FailedFetchShowsMessage(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fail("Salta", errors.NewCityNotFoundError("Salta"))

	id := f.mount(t, `{"city":"Salta"}`).ID
	view := f.waitForPhase(t, id, "failed")

	assert.Equal(t, `No se encontró la ciudad "Salta". Verifica el nombre.`, view.ErrorMessage)
	assert.Nil(t, view.Weather)
}

func TestServer_RetryAfterFailureKeepsStaleWeather(t *testing.T) {
	f := newServerFixture(t)
	id := f.mount(t, `{"city":"Salta"}`).ID
	f.waitForPhase(t, id, "success")

	f.fetcher.fail("Salta", errors.NewFetchFailedError("Salta", 500, nil))
	w := f.do(t, http.MethodPost, "/api/widgets/"+id+"/refresh", "")
	require.Equal(t, http.StatusAccepted, w.Code)

	view := f.waitForPhase(t, id, "failed")
	assert.Equal(t, "Error al cargar el clima. Intenta nuevamente.", view.ErrorMessage)
	assert.True(t, view.Stale)
	require.NotNil(t, view.Weather)
	assert.Equal(t, "Salta", view.Weather.City)

	f.fetcher.fail("Salta", nil)
	w = f.do(t, http.MethodPost, "/api/widgets/"+id+"/refresh", "")
	require.Equal(t, http.StatusAccepted, w.Code)

	view = f.waitForPhase(t, id, "success")
	assert.Empty(t, view.ErrorMessage)
}

func TestServer_RefreshUnknownWidget(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodPost, "/api/widgets/missing/refresh", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "widget missing not found", decodeError(t, w))
}

func TestServer_UnmountWidget(t *testing.T) {
	f := newServerFixture(t)
	id := f.mount(t, "").ID

	w := f.do(t, http.MethodDelete, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(t, http.MethodDelete, "/api/widgets/"+id, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_MountPageRedirects(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/?city=Salta", "")
	require.Equal(t, http.StatusSeeOther, w.Code)

	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "/widgets/"), location)
	id := strings.TrimPrefix(location, "/widgets/")
	f.waitForPhase(t, id, "success")

	w = f.do(t, http.MethodGet, location, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="region-success"`)
	assert.NotContains(t, body, `id="region-loading"`)
	assert.NotContains(t, body, `id="region-error"`)
	assert.Contains(t, body, "Salta, AR")
	assert.Contains(t, body, "text-bg-success")
	assert.Contains(t, body, `content="300"`)
	for _, city := range testCities {
		assert.Contains(t, body, city)
	}

	w = f.do(t, http.MethodGet, "/?city=Atlantis", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_WidgetPageShowsError(t *testing.T) {
	f := newServerFixture(t)
	f.fetcher.fail("Córdoba", errors.NewAuthenticationFailedError("Córdoba"))

	id := f.mount(t, `{"city":"Córdoba"}`).ID
	f.waitForPhase(t, id, "failed")

	w := f.do(t, http.MethodGet, "/widgets/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="region-error"`)
	assert.Contains(t, body, "Error de autenticación. Verifica la configuración.")
	assert.Contains(t, body, "Reintentar")
	assert.NotContains(t, body, `id="region-success"`)
}

func TestServer_Forms(t *testing.T) {
	f := newServerFixture(t)
	id := f.mount(t, "").ID
	f.waitForPhase(t, id, "success")

	req := httptest.NewRequest(http.MethodPost, "/widgets/"+id+"/city", strings.NewReader("city=San+Miguel+de+Tucum%C3%A1n"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/widgets/"+id, w.Header().Get("Location"))

	view := f.waitFor(t, id, func(v WidgetView) bool {
		return v.Phase == "success" && v.Weather.City == "San Miguel de Tucumán"
	})
	assert.Equal(t, "San Miguel de Tucumán", view.SelectedCity)

	w = f.do(t, http.MethodPost, "/widgets/"+id+"/refresh", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = f.do(t, http.MethodGet, "/widgets/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_Health(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body.Status)
	assert.Contains(t, body.Components, "weatherAPI")

	f.health["widgets"] = ports.HealthStatus{Component: "widgets", Status: "degraded"}
	w = f.do(t, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)

	f.health["weatherAPI"] = ports.HealthStatus{Component: "weatherAPI", Status: "unhealthy"}
	w = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	f := newServerFixture(t)

	w := f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "clima_widgets_mounted")
}
