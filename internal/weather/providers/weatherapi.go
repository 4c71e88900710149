package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
	"github.com/sony/gobreaker"
)

// WeatherAPIProvider implements weather.PeakProvider against
// WeatherAPI.com's forecast endpoint, as a corroborating source only.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: "https://api.weatherapi.com/v1/forecast.json",
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry: RetryConfig{
				MaxRetries: 2,
				Interval:   2 * time.Second,
			},
		},
		circuit: defaultBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// FetchDayPeak returns WeatherAPI's forecast max temperature for the given
// calendar day.
func (p *WeatherAPIProvider) FetchDayPeak(ctx context.Context, loc weather.Location, day string) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("weatherapi api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; "lat,lon" selects the airport.
		values.Set("q", fmt.Sprintf("%f,%f", loc.Lat, loc.Lon))
		values.Set("days", "1")
		values.Set("dt", day)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		req, err := http.NewRequest(http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		return req, nil
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var payload struct {
		Forecast struct {
			ForecastDay []struct {
				Date string `json:"date"`
				Day  struct {
					MaxTempC float64 `json:"maxtemp_c"`
				} `json:"day"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode weatherapi response: %w", err)
	}

	for _, fd := range payload.Forecast.ForecastDay {
		if fd.Date == day {
			return fd.Day.MaxTempC, nil
		}
	}

	return 0, fmt.Errorf("weatherapi forecast has no entry for %s", day)
}
