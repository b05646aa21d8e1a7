package weather

// UnknownGlyph is shown for icon codes outside the OpenWeatherMap table.
const UnknownGlyph = "🌡️"

var iconGlyphs = map[string]string{
	"01d": "☀️",
	"01n": "🌙",
	"02d": "⛅",
	"02n": "⛅",
	"03d": "☁️",
	"03n": "☁️",
	"04d": "☁️",
	"04n": "☁️",
	"09d": "🌧️",
	"09n": "🌧️",
	"10d": "🌦️",
	"10n": "🌧️",
	"11d": "⛈️",
	"11n": "⛈️",
	"13d": "❄️",
	"13n": "❄️",
	"50d": "🌫️",
	"50n": "🌫️",
}

// IconGlyph maps an OpenWeatherMap icon code to a display glyph.
func IconGlyph(code string) string {
	if glyph, ok := iconGlyphs[code]; ok {
		return glyph
	}
	return UnknownGlyph
}

// Severity is a temperature band used for colour-coding.
type Severity int

const (
	SeverityCold Severity = iota
	SeverityMild
	SeverityWarm
	SeverityHot
)

// TemperatureSeverity bands: cold <10, mild 10-24, warm 25-34, hot >=35.
func TemperatureSeverity(tempC int) Severity {
	switch {
	case tempC < 10:
		return SeverityCold
	case tempC < 25:
		return SeverityMild
	case tempC < 35:
		return SeverityWarm
	default:
		return SeverityHot
	}
}

// String returns the string representation of the severity
func (s Severity) String() string {
	switch s {
	case SeverityCold:
		return "cold"
	case SeverityMild:
		return "mild"
	case SeverityWarm:
		return "warm"
	case SeverityHot:
		return "hot"
	default:
		return "unknown"
	}
}

// BadgeVariant returns the Bootstrap contextual colour for the badge
func (s Severity) BadgeVariant() string {
	switch s {
	case SeverityCold:
		return "primary"
	case SeverityMild:
		return "success"
	case SeverityWarm:
		return "warning"
	case SeverityHot:
		return "danger"
	default:
		return "secondary"
	}
}

var compassPoints = [...]string{"N", "NE", "E", "SE", "S", "SO", "O", "NO"}

// CompassPoint converts a meteorological wind direction to an 8-point label.
func CompassPoint(deg int) string {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return compassPoints[((deg*2+45)/90)%len(compassPoints)]
}
