package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/history"
	"github.com/i474232898/airport-weather-alerts/internal/weather"
)

// Syntax selects the markup a notification channel understands.
type Syntax int

const (
	SyntaxHTML Syntax = iota // Telegram-style HTML
	SyntaxMarkdown
)

// unavailableMarker is rendered wherever an optional value is missing, so
// missing data is always explicit in the message layout.
const unavailableMarker = "data unavailable"

// Reference timestamps rendered in every message.
var (
	zoneBeijing = time.FixedZone("UTC+8", 8*60*60)
	zoneSeoul   = time.FixedZone("UTC+9", 9*60*60)
	zoneEastern = loadEastern()
)

func loadEastern() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// Without tzdata fall back to standard time; the DST hour is lost.
		return time.FixedZone("UTC-5", -5*60*60)
	}
	return loc
}

// ForecastDay is one forward-looking day in the report horizon.
type ForecastDay struct {
	Summary weather.DaySummary
	YearAgo history.Stat
}

// Report is the structured summary a notification is rendered from. One
// report feeds every channel; only the markup differs per syntax.
type Report struct {
	Location       weather.Location
	GeneratedAt    time.Time
	Today          weather.DaySummary
	Historical     history.Stats
	Corroborations []history.Corroboration
	Horizon        []ForecastDay
}

// Render produces notification text in the requested syntax.
func (r Report) Render(s Syntax) string {
	m := markup{syntax: s}
	var sb strings.Builder

	sb.WriteString("🌡️ " + m.b("Airport peak temperature forecast") + "\n\n")

	sb.WriteString("📍 " + m.b("Airport:") + " " + r.Location.Label() + "\n")
	sb.WriteString("🕐 " + m.b("Updated:") + "\n")
	sb.WriteString(fmt.Sprintf("   • %s (UTC+8)\n", r.GeneratedAt.In(zoneBeijing).Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("   • %s (US Eastern)\n", r.GeneratedAt.In(zoneEastern).Format("2006-01-02 15:04")))
	sb.WriteString(fmt.Sprintf("   • %s (UTC+9)\n\n", r.GeneratedAt.In(zoneSeoul).Format("2006-01-02 15:04")))

	peak := r.Today.PeakTempC
	sb.WriteString("📊 " + m.b("Today's forecast peak:") + "\n")
	sb.WriteString("   " + tempBoth(peak) + "\n\n")

	sb.WriteString("📈 " + m.b("Reference values:") + "\n")
	sb.WriteString("   • " + tempBoth(peak-1) + " (peak -1°C)\n")
	sb.WriteString("   • " + tempBoth(peak) + " (peak)\n")
	sb.WriteString("   • " + tempBoth(peak+1) + " (peak +1°C)\n\n")

	sb.WriteString("🔎 " + m.b("Other sources:") + "\n")
	if len(r.Corroborations) == 0 {
		sb.WriteString("   • " + unavailableMarker + "\n")
	}
	for _, c := range r.Corroborations {
		if c.Peak.OK {
			sb.WriteString(fmt.Sprintf("   • %s: %s\n", c.Source, tempBoth(c.Peak.ValueC)))
		} else {
			sb.WriteString(fmt.Sprintf("   • %s: %s\n", c.Source, unavailableMarker))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("🌬 " + m.b("Conditions:") + "\n")
	sb.WriteString("   • Wind: " + windLine(r.Today) + "\n")
	sb.WriteString(fmt.Sprintf("   • Cloud cover: %.0f%%\n", r.Today.AvgCloudPct))
	sb.WriteString("   • Condition: " + conditionLine(r.Today) + "\n")
	sb.WriteString("   • Precipitation: " + precipLine(r.Today.Precipitation) + "\n\n")

	sb.WriteString("📅 " + m.b("Year over year:") + "\n")
	if r.Historical.YearAgo.OK {
		sb.WriteString(fmt.Sprintf("   • Last year same day: %.1f°C (%s)\n",
			r.Historical.YearAgo.ValueC, yoyDelta(peak, r.Historical.YearAgo.ValueC)))
	} else {
		sb.WriteString("   • Last year same day: " + unavailableMarker + "\n")
	}
	if r.Historical.Range.Years > 0 {
		rg := r.Historical.Range
		sb.WriteString(fmt.Sprintf("   • %d-year range: %.1f°C to %.1f°C, avg %.1f°C\n\n",
			rg.Years, rg.MinC, rg.MaxC, rg.MeanC))
	} else {
		sb.WriteString("   • Multi-year range: " + unavailableMarker + "\n\n")
	}

	sb.WriteString("🔮 " + m.b("Coming days:") + "\n")
	if len(r.Horizon) == 0 {
		sb.WriteString("   • " + unavailableMarker + "\n")
	}
	for _, fd := range r.Horizon {
		sb.WriteString("   • " + forecastDayLine(fd) + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("⚠️ " + m.i("Informational only; no decisions are made from this data."))

	return sb.String()
}

// tempBoth formats a temperature in both unit systems, one decimal each.
func tempBoth(c float64) string {
	return fmt.Sprintf("%.1f°C / %.1f°F", c, weather.CelsiusToFahrenheit(c))
}

func windLine(d weather.DaySummary) string {
	dir := "variable"
	if d.WindDirDeg != nil {
		dir = weather.CompassPoint(*d.WindDirDeg)
	}
	return fmt.Sprintf("%s %.1f km/h (%.1f mph), gusts %.1f km/h",
		dir, d.AvgWindKmh, weather.KmhToMph(d.AvgWindKmh), d.MaxGustKmh)
}

func conditionLine(d weather.DaySummary) string {
	if d.WeatherCode == nil {
		return "unknown"
	}
	return weather.ConditionText(*d.WeatherCode)
}

func precipLine(intervals []weather.PrecipInterval) string {
	if len(intervals) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(intervals))
	for _, iv := range intervals {
		parts = append(parts, fmt.Sprintf("%02d:00-%02d:00 %s, up to %.1f mm/h",
			iv.StartHour, iv.EndHour, iv.Kind, iv.PeakMm))
	}
	return strings.Join(parts, "; ")
}

// yoyDelta renders the year-over-year comparison with a direction symbol.
func yoyDelta(todayC, yearAgoC float64) string {
	delta := todayC - yearAgoC
	switch {
	case delta > 0:
		return fmt.Sprintf("↑ %.1f°C", delta)
	case delta < 0:
		return fmt.Sprintf("↓ %.1f°C", -delta)
	default:
		return "= 0.0°C"
	}
}

func forecastDayLine(fd ForecastDay) string {
	d := fd.Summary
	line := fmt.Sprintf("%s: %s, wind %s, cloud %.0f%%, %s",
		d.Date, tempBoth(d.PeakTempC), windLine(d), d.AvgCloudPct, conditionLine(d))
	if len(d.Precipitation) > 0 {
		line += ", precip " + precipLine(d.Precipitation)
	}
	if fd.YearAgo.OK {
		line += fmt.Sprintf("; last year %.1f°C (%s)", fd.YearAgo.ValueC, yoyDelta(d.PeakTempC, fd.YearAgo.ValueC))
	} else {
		line += "; last year " + unavailableMarker
	}
	return line
}

// markup renders the per-syntax inline styles; the layout above is shared.
type markup struct {
	syntax Syntax
}

func (m markup) b(s string) string {
	if m.syntax == SyntaxMarkdown {
		return "*" + s + "*"
	}
	return "<b>" + s + "</b>"
}

func (m markup) i(s string) string {
	if m.syntax == SyntaxMarkdown {
		return "_" + s + "_"
	}
	return "<i>" + s + "</i>"
}
