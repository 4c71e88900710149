package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
	"github.com/sony/gobreaker"
)

// hourlyFields are the Open-Meteo hourly variables the reducer consumes.
var hourlyFields = []string{
	"temperature_2m",
	"wind_direction_10m",
	"wind_speed_10m",
	"wind_gusts_10m",
	"precipitation",
	"weather_code",
	"cloud_cover",
}

// localTimeLayout is the ISO-like local timestamp format Open-Meteo returns
// with timezone=auto and timeformat=iso8601.
const localTimeLayout = "2006-01-02T15:04"

// OpenMeteoProvider implements weather.ForecastProvider and
// weather.ArchiveProvider against the Open-Meteo forecast and archive APIs.
// Open-Meteo needs no API key.
type OpenMeteoProvider struct {
	name       string
	baseURL    string
	archiveURL string
	httpCfg    HTTPClientConfig
	circuit    *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:       "openmeteo",
		baseURL:    "https://api.open-meteo.com/v1/forecast",
		archiveURL: "https://archive-api.open-meteo.com/v1/archive",
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry: RetryConfig{
				MaxRetries: 2,
				Interval:   2 * time.Second,
			},
		},
		circuit: defaultBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly fetches the hourly forecast for today plus the given number of
// forward days, timestamped in the location's local time.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, loc weather.Location, days int) (weather.HourlySeries, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("hourly", strings.Join(hourlyFields, ","))
	values.Set("timezone", "auto")
	if days > 0 {
		values.Set("forecast_days", strconv.Itoa(days))
	}

	return p.fetchSeries(ctx, p.baseURL, values)
}

// FetchArchive fetches the hourly archive between start and end (inclusive
// DayLayout dates), timestamped in the location's local time.
func (p *OpenMeteoProvider) FetchArchive(ctx context.Context, loc weather.Location, start, end string) (weather.HourlySeries, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", loc.Lat))
	values.Set("longitude", fmt.Sprintf("%f", loc.Lon))
	values.Set("hourly", strings.Join(hourlyFields, ","))
	values.Set("timezone", "auto")
	values.Set("start_date", start)
	values.Set("end_date", end)

	return p.fetchSeries(ctx, p.archiveURL, values)
}

func (p *OpenMeteoProvider) fetchSeries(ctx context.Context, baseURL string, values url.Values) (weather.HourlySeries, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s?%s", baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.HourlySeries{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Timezone string `json:"timezone"`
		Hourly   struct {
			Time          []string   `json:"time"`
			Temperature2m []*float64 `json:"temperature_2m"`
			WindDir10m    []*float64 `json:"wind_direction_10m"`
			WindSpeed10m  []*float64 `json:"wind_speed_10m"`
			WindGusts10m  []*float64 `json:"wind_gusts_10m"`
			Precipitation []*float64 `json:"precipitation"`
			WeatherCode   []*int     `json:"weather_code"`
			CloudCover    []*float64 `json:"cloud_cover"`
		} `json:"hourly"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.HourlySeries{}, fmt.Errorf("decode open-meteo response: %w", err)
	}

	series := weather.HourlySeries{
		Timezone: payload.Timezone,
		Samples:  make([]weather.HourlySample, 0, len(payload.Hourly.Time)),
	}

	for i, raw := range payload.Hourly.Time {
		ts, err := time.Parse(localTimeLayout, raw)
		if err != nil {
			// Skip unparseable entries rather than failing the whole series.
			continue
		}

		series.Samples = append(series.Samples, weather.HourlySample{
			Time:          ts,
			TemperatureC:  floatAt(payload.Hourly.Temperature2m, i),
			WindDirDeg:    floatAt(payload.Hourly.WindDir10m, i),
			WindSpeedKmh:  floatAt(payload.Hourly.WindSpeed10m, i),
			WindGustKmh:   floatAt(payload.Hourly.WindGusts10m, i),
			PrecipMm:      floatAt(payload.Hourly.Precipitation, i),
			WeatherCode:   intAt(payload.Hourly.WeatherCode, i),
			CloudCoverPct: floatAt(payload.Hourly.CloudCover, i),
		})
	}

	return series, nil
}

// floatAt returns the i-th element when the parallel array carries one;
// a short or absent array means the field is missing, not zero.
func floatAt(arr []*float64, i int) *float64 {
	if i >= len(arr) {
		return nil
	}
	return arr[i]
}

func intAt(arr []*int, i int) *int {
	if i >= len(arr) {
		return nil
	}
	return arr[i]
}
