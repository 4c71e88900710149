package weather

import "math"

// CelsiusToFahrenheit converts a temperature in degrees Celsius to Fahrenheit.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// KmhToMph converts a speed in kilometres per hour to miles per hour.
func KmhToMph(kmh float64) float64 {
	return kmh / 1.609344
}

// compassNames are the 16 compass points, 22.5 degrees each, sector k
// covering [k*22.5, (k+1)*22.5) with N starting at 0.
var compassNames = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// compassArrows point in the direction the wind blows toward, indexed by
// 45-degree sectors of the "toward" angle (lower edge inclusive).
var compassArrows = [8]string{"↑", "↗", "→", "↘", "↓", "↙", "←", "↖"}

// CompassPoint maps a meteorological wind direction (degrees the wind blows
// from) to its 16-point compass name plus an arrow showing where the wind
// blows toward, e.g. CompassPoint(0) == "N ↓".
func CompassPoint(deg float64) string {
	deg = normalizeDeg(deg)
	name := compassNames[int(deg/22.5)%16]

	toward := normalizeDeg(deg + 180)
	arrow := compassArrows[int(toward/45)%8]

	return name + " " + arrow
}

// normalizeDeg maps an angle into [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ConditionText translates a WMO weather code into a short description.
func ConditionText(code int) string {
	switch code {
	case 0:
		return "clear sky"
	case 1:
		return "mainly clear"
	case 2:
		return "partly cloudy"
	case 3:
		return "overcast"
	case 45, 48:
		return "fog"
	case 51, 53, 55:
		return "drizzle"
	case 56, 57:
		return "freezing drizzle"
	case 61:
		return "slight rain"
	case 63:
		return "moderate rain"
	case 65:
		return "heavy rain"
	case 66, 67:
		return "freezing rain"
	case 71:
		return "slight snowfall"
	case 73:
		return "moderate snowfall"
	case 75:
		return "heavy snowfall"
	case 77:
		return "snow grains"
	case 80, 81, 82:
		return "rain showers"
	case 85, 86:
		return "snow showers"
	case 95:
		return "thunderstorm"
	case 96, 99:
		return "thunderstorm with hail"
	default:
		return "unknown"
	}
}
