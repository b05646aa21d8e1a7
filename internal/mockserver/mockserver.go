// Package mockserver serves canned OpenWeatherMap current-weather responses
// for local runs and end-to-end tests.
package mockserver

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Special query values that trigger failure responses
const (
	CityServerError = "servererror"
	CitySlow        = "timeout"
)

type Main struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	Humidity  int     `json:"humidity"`
	Pressure  int     `json:"pressure"`
}

type Condition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Wind struct {
	Speed float64  `json:"speed"`
	Deg   *float64 `json:"deg,omitempty"`
	Gust  *float64 `json:"gust,omitempty"`
}

type Sys struct {
	Country string `json:"country"`
}

// WeatherResponse mirrors the subset of /weather the client decodes
type WeatherResponse struct {
	Name    string      `json:"name"`
	Sys     Sys         `json:"sys"`
	Main    Main        `json:"main"`
	Weather []Condition `json:"weather"`
	Wind    Wind        `json:"wind"`
}

func deg(v float64) *float64 { return &v }

var weatherData = map[string]WeatherResponse{
	"buenos aires": {
		Name: "Buenos Aires", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 18.4, FeelsLike: 17.9, Humidity: 72, Pressure: 1016},
		Weather: []Condition{{Description: "nubes dispersas", Icon: "03d"}},
		Wind:    Wind{Speed: 4.6, Deg: deg(120)},
	},
	"córdoba": {
		Name: "Córdoba", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 26.5, FeelsLike: 26.1, Humidity: 40, Pressure: 1011},
		Weather: []Condition{{Description: "cielo claro", Icon: "01d"}},
		Wind:    Wind{Speed: 3.1, Deg: deg(45), Gust: deg(6.2)},
	},
	"rosario": {
		Name: "Rosario", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 21.2, FeelsLike: 21.0, Humidity: 65, Pressure: 1014},
		Weather: []Condition{{Description: "lluvia ligera", Icon: "10d"}},
		Wind:    Wind{Speed: 5.2, Deg: deg(200)},
	},
	"mendoza": {
		Name: "Mendoza", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 8.3, FeelsLike: 5.9, Humidity: 35, Pressure: 1020},
		Weather: []Condition{{Description: "cielo claro", Icon: "01n"}},
		Wind:    Wind{Speed: 2.0},
	},
	"san juan": {
		Name: "San Juan", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 36.0, FeelsLike: 35.2, Humidity: 12, Pressure: 1008},
		Weather: []Condition{{Description: "cielo claro", Icon: "01d"}},
		Wind:    Wind{Speed: 7.7, Deg: deg(340), Gust: deg(12.1)},
	},
	"la rioja": {
		Name: "La Rioja", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 31.7, FeelsLike: 30.4, Humidity: 20, Pressure: 1009},
		Weather: []Condition{{Description: "algo de nubes", Icon: "02d"}},
		Wind:    Wind{Speed: 3.6, Deg: deg(0)},
	},
	"jujuy": {
		Name: "Jujuy", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 15.0, FeelsLike: 14.2, Humidity: 58, Pressure: 1018},
		Weather: []Condition{{Description: "tormenta", Icon: "11d"}},
		Wind:    Wind{Speed: 1.5, Deg: deg(90)},
	},
	"necochea": {
		Name: "Necochea", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 11.9, FeelsLike: 10.1, Humidity: 81, Pressure: 1012},
		Weather: []Condition{{Description: "niebla", Icon: "50d"}},
		Wind:    Wind{Speed: 6.3, Deg: deg(225)},
	},
	"concepción": {
		Name: "Concepción", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 24.6, FeelsLike: 25.0, Humidity: 70, Pressure: 1010},
		Weather: []Condition{{Description: "muy nuboso", Icon: "04d"}},
		Wind:    Wind{Speed: 2.4, Deg: deg(315)},
	},
	"bariloche": {
		Name: "San Carlos de Bariloche", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: -2.5, FeelsLike: -6.8, Humidity: 88, Pressure: 1005},
		Weather: []Condition{{Description: "nevada ligera", Icon: "13d"}},
		Wind:    Wind{Speed: 8.9, Deg: deg(270), Gust: deg(14.0)},
	},
	"san miguel de tucumán": {
		Name: "San Miguel de Tucumán", Sys: Sys{Country: "AR"},
		Main:    Main{Temp: 27.4, FeelsLike: 28.9, Humidity: 62, Pressure: 1009},
		Weather: []Condition{{Description: "nubes", Icon: "02n"}},
		Wind:    Wind{Speed: 2.8, Deg: deg(160)},
	},
}

// Server answers GET /weather the way OpenWeatherMap does for the catalog cities.
type Server struct {
	apiKey   string
	slow     time.Duration
	requests atomic.Int64
}

// New creates a mock that accepts apiKey. An empty apiKey accepts any non-empty appid.
func New(apiKey string) *Server {
	return &Server{apiKey: apiKey, slow: 5 * time.Second}
}

// Requests returns how many /weather requests were served
func (s *Server) Requests() int64 {
	return s.requests.Load()
}

// Router builds the gin engine for the mock
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/weather", s.getWeather)
	return r
}

func (s *Server) getWeather(c *gin.Context) {
	s.requests.Add(1)

	city := strings.ToLower(strings.TrimSpace(c.Query("q")))
	key := c.Query("appid")

	if key == "" || (s.apiKey != "" && key != s.apiKey) {
		c.JSON(http.StatusUnauthorized, gin.H{"cod": 401, "message": "Invalid API key."})
		return
	}

	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"cod": "400", "message": "Nothing to geocode"})
		return
	}

	switch city {
	case CityServerError:
		c.JSON(http.StatusInternalServerError, gin.H{"cod": "500", "message": "Internal error"})
		return
	case CitySlow:
		select {
		case <-time.After(s.slow):
		case <-c.Request.Context().Done():
		}
		c.AbortWithStatus(http.StatusGatewayTimeout)
		return
	}

	weather, exists := weatherData[city]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"cod": "404", "message": "city not found"})
		return
	}

	c.JSON(http.StatusOK, weather)
}
