package weather

import (
	"time"
)

// DayLayout is the canonical calendar-day format used for day keys,
// state dates, and provider date-range parameters.
const DayLayout = "2006-01-02"

// Location represents an airport we track. The table is fixed at startup;
// Code is the stable identifier used to key persisted state.
type Location struct {
	Code string  `json:"code"` // IATA code, e.g. "LGA"
	Name string  `json:"name"` // display name, e.g. "New York"
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// Key returns the canonical string key for indexing this location in stores.
func (l Location) Key() string {
	return l.Code
}

// Label renders the location the way notifications display it.
func (l Location) Label() string {
	if l.Code == "" {
		return l.Name
	}
	return l.Code + " " + l.Name + " " + l.Code
}

// HourlySample is one hour of raw forecast data in the location's local
// time. Any field may be missing; nil means the provider did not report it.
type HourlySample struct {
	Time          time.Time // local wall-clock time, minute precision
	TemperatureC  *float64
	WindDirDeg    *float64
	WindSpeedKmh  *float64
	WindGustKmh   *float64
	PrecipMm      *float64
	WeatherCode   *int
	CloudCoverPct *float64
}

// HourlySeries is a decoded provider response: hour-ordered samples plus
// the timezone name the provider resolved for the location.
type HourlySeries struct {
	Timezone string
	Samples  []HourlySample
}

// PrecipKind classifies a precipitation interval.
type PrecipKind string

const (
	PrecipRain PrecipKind = "rain"
	PrecipSnow PrecipKind = "snow"
)

// PrecipInterval is a maximal run of consecutive hours with positive
// precipitation of a single kind. Hours are inclusive on both ends.
type PrecipInterval struct {
	StartHour int
	EndHour   int
	Kind      PrecipKind
	PeakMm    float64 // highest hourly amount seen in the interval
}

// DaySummary is the reduction of one local calendar day of hourly samples.
// A day with no temperature samples produces no summary at all.
type DaySummary struct {
	Date          string   // local calendar day, DayLayout
	PeakTempC     float64  // maximum hourly temperature
	WindDirDeg    *float64 // speed-weighted circular mean; nil when undefined
	AvgWindKmh    float64  // arithmetic mean of available speeds
	MaxGustKmh    float64
	AvgCloudPct   float64
	WeatherCode   *int // dominant condition code; nil when no coded samples
	Precipitation []PrecipInterval
}
