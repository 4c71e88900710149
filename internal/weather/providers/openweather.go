package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/airport-weather-alerts/internal/weather"
	"github.com/sony/gobreaker"
)

// OpenWeatherProvider implements weather.PeakProvider against the
// OpenWeatherMap 5-day/3-hour forecast endpoint. It is used only as a
// corroborating source for the day's peak temperature.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/forecast",
		httpCfg: HTTPClientConfig{
			Client: client,
			Retry: RetryConfig{
				MaxRetries: 2,
				Interval:   2 * time.Second,
			},
		},
		circuit: defaultBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchDayPeak returns the highest 3-hourly forecast temperature whose
// timestamp falls on the given calendar day.
func (p *OpenWeatherProvider) FetchDayPeak(ctx context.Context, loc weather.Location, day string) (float64, error) {
	if p.apiKey == "" {
		return 0, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", fmt.Sprintf("%f", loc.Lat))
		values.Set("lon", fmt.Sprintf("%f", loc.Lon))

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
		List []struct {
			DtTxt string `json:"dt_txt"` // "2006-01-02 15:04:05", UTC
			Main  struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
		} `json:"list"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decode openweather response: %w", err)
	}

	var (
		peak  float64
		found bool
	)
	for _, entry := range payload.List {
		if !strings.HasPrefix(entry.DtTxt, day) {
			continue
		}
		if !found || entry.Main.Temp > peak {
			peak = entry.Main.Temp
			found = true
		}
	}

	if !found {
		return 0, fmt.Errorf("openweather forecast has no entries for %s", day)
	}
	return peak, nil
}
